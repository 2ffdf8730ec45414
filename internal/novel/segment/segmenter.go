// Package segment splits one model completion into an optional narrative
// summary section and the novel body. The model is prompted to emit the two
// sections under fixed headings but does not reliably use the exact markers
// or omit a redundant title line, so the split degrades through a chain of
// fallbacks instead of failing.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultTitleLineMaxLen = 30
	defaultMinSummaryLen   = 50

	// Fallback boundary search window and hard cut, in runes from the
	// summary heading.
	fallbackWindow  = 1500
	fallbackHardCut = 1200
)

// rule is one pattern in an ordered match table. Keeping the tables flat
// keeps the fallback chain auditable rule by rule.
type rule struct {
	name string
	re   *regexp.Regexp
}

// summaryRules locate the summary heading. First rule that matches anywhere
// in the response wins, in table order.
var summaryRules = []rule{
	{"ko-summary-table", regexp.MustCompile(`서사 요약표`)},
	{"ko-summary", regexp.MustCompile(`요약표`)},
	{"en-narrative-summary", regexp.MustCompile(`(?i)narrative summary`)},
	{"en-summary-table", regexp.MustCompile(`(?i)summary table`)},
	{"generic-summary", regexp.MustCompile(`(?i)\bsummary\b|요약`)},
}

// novelStartRules locate the start of the novel body after the summary
// heading. The earliest match across all rules wins. The single-hash rule
// is a heuristic: a line opening a level-one heading is taken as the novel
// title line.
var novelStartRules = []rule{
	{"ko-novel-start", regexp.MustCompile(`소설 시작`)},
	{"ko-body-start", regexp.MustCompile(`본문 시작`)},
	{"en-novel-start", regexp.MustCompile(`(?i)novel start`)},
	{"single-hash-heading", regexp.MustCompile(`(?m)^#[^#\n]`)},
}

var (
	headingLineRe = regexp.MustCompile(`(?m)^#{1,3}(?:[^#\n].*)?$\n*`)
	titleLabelRe  = regexp.MustCompile(`(?mi)^(?:제목|title)\s*[:：].*$\n*`)
)

// quotePairs a spurious title line may be wrapped in: straight quotes and
// the two corner-bracket styles.
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"「", "」"},
	{"『", "』"},
}

// Segmenter splits a raw completion. The zero value uses the default
// policy; TitleLineMaxLen is configurable because the short-title heuristic
// is known-lossy (a genuine short opening sentence without terminal
// punctuation is indistinguishable from a stray title).
type Segmenter struct {
	TitleLineMaxLen int
	MinSummaryLen   int
}

func New() *Segmenter {
	return &Segmenter{
		TitleLineMaxLen: defaultTitleLineMaxLen,
		MinSummaryLen:   defaultMinSummaryLen,
	}
}

// Split returns (narrativeSummary, novelBody). It never fails: when the
// expected structure is absent the whole response becomes the novel body
// and the summary is empty. The returned body contains no heading lines,
// no title-label lines and no leading title line.
func (s *Segmenter) Split(raw string) (string, string) {
	titleMax := s.TitleLineMaxLen
	if titleMax <= 0 {
		titleMax = defaultTitleLineMaxLen
	}
	minSummary := s.MinSummaryLen
	if minSummary <= 0 {
		minSummary = defaultMinSummaryLen
	}

	headStart, headEnd, found := findSummaryHeading(raw)
	if !found {
		return "", s.cleanBody(raw, titleMax)
	}

	// Explicit novel-start marker after the summary heading: trust the
	// split even when the summary is short.
	if markerIdx, ok := findNovelStart(raw, headEnd); ok {
		boundary := lineStart(raw, markerIdx)
		if boundary < headEnd {
			boundary = headEnd
		}
		summary := strings.TrimSpace(raw[headEnd:boundary])
		body := stripFirstLine(raw[boundary:])
		body = s.cleanBody(body, titleMax)
		if body == "" {
			return "", s.cleanBody(raw, titleMax)
		}
		return summary, body
	}

	// No explicit marker: fall back to the next second-level heading
	// within the window, then a triple newline, then a hard cut.
	summaryEnd, bodyStart := fallbackBoundary(raw, headStart, headEnd)
	summary := strings.TrimSpace(raw[headEnd:summaryEnd])
	body := s.cleanBody(raw[bodyStart:], titleMax)

	// A heuristic split that produced a stub summary is more likely a
	// mis-detected heading than a real section; discard it.
	if utf8.RuneCountInString(summary) < minSummary || body == "" {
		return "", s.cleanBody(raw, titleMax)
	}
	return summary, body
}

func findSummaryHeading(raw string) (start, end int, found bool) {
	for _, r := range summaryRules {
		if loc := r.re.FindStringIndex(raw); loc != nil {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

func findNovelStart(raw string, after int) (int, bool) {
	best := -1
	for _, r := range novelStartRules {
		if loc := r.re.FindStringIndex(raw[after:]); loc != nil {
			idx := after + loc[0]
			if best == -1 || idx < best {
				best = idx
			}
		}
	}
	return best, best >= 0
}

func fallbackBoundary(raw string, headStart, headEnd int) (summaryEnd, bodyStart int) {
	windowEnd := advanceRunes(raw, headEnd, fallbackWindow)
	window := raw[headEnd:windowEnd]

	if idx := strings.Index(window, "\n##"); idx >= 0 {
		cut := headEnd + idx + 1 // start of the heading line
		return cut, cut
	}
	if idx := strings.Index(window, "\n\n\n"); idx >= 0 {
		return headEnd + idx, headEnd + idx + 3
	}
	cut := advanceRunes(raw, headStart, fallbackHardCut)
	if cut < headEnd {
		cut = headEnd
	}
	return cut, cut
}

// cleanBody strips stray headings, title labels and a leading title line,
// then trims whitespace.
func (s *Segmenter) cleanBody(body string, titleMax int) string {
	body = headingLineRe.ReplaceAllString(body, "")
	body = titleLabelRe.ReplaceAllString(body, "")
	body = strings.TrimLeft(body, "\n \t")

	if line, rest, ok := splitFirstLine(body); ok {
		if isQuotedTitle(line) {
			body = rest
		} else if isBareTitle(line, rest, titleMax) {
			body = rest
		}
	}
	return strings.TrimSpace(body)
}

// isQuotedTitle reports whether line is fully wrapped in one matching quote
// pair and short enough to be a title.
func isQuotedTitle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) > 50 {
		return false
	}
	for _, pair := range quotePairs {
		if len(trimmed) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(trimmed, pair[0]) && strings.HasSuffix(trimmed, pair[1]) {
			return true
		}
	}
	return false
}

// isBareTitle applies the short-line heuristic: a first line within the
// length policy that does not end in sentence-final punctuation, followed
// by a blank line or a line starting with a letter, is treated as a stray
// title. Best-effort; cannot be exact.
func isBareTitle(line, rest string, titleMax int) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > titleMax {
		return false
	}
	if endsInSentencePunct(trimmed) {
		return false
	}
	if rest == "" {
		return false
	}
	next, _, _ := splitFirstLine(rest)
	if strings.TrimSpace(next) == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(next))
	return unicode.IsLetter(r)
}

func endsInSentencePunct(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}

// splitFirstLine returns the first line and the remainder after its
// newline, preserving any blank line that follows.
func splitFirstLine(s string) (line, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", true
}

// stripFirstLine drops the first line and its trailing newline(s).
func stripFirstLine(s string) string {
	_, rest, _ := splitFirstLine(s)
	return rest
}

// lineStart returns the byte offset of the start of the line containing idx.
func lineStart(s string, idx int) int {
	if idx > len(s) {
		idx = len(s)
	}
	cut := strings.LastIndexByte(s[:idx], '\n')
	return cut + 1
}

// advanceRunes returns the byte offset of n runes past start, clamped to
// the end of the string.
func advanceRunes(s string, start, n int) int {
	i := start
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}
