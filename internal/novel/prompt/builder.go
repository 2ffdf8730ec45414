package prompt

import (
	"fmt"
	"strings"

	"novelog-backend/internal/novel/domain"
)

// Section headings the model is instructed to emit. The segmenter looks
// for the same markers when splitting the response back apart.
const (
	summaryHeadingKo = "## 서사 요약표"
	summaryHeadingEn = "## Narrative Summary"
	novelHeadingKo   = "## 소설 시작"
	novelHeadingEn   = "## Novel Start"

	titleExcerptLimit = 2000
)

// Prompts is the output of one Build call. Content is only meaningful on
// the first call (no novel yet); Title requires the generated novel body.
type Prompts struct {
	Content string
	Title   string
	Image   string
}

// Builder constructs the three upstream prompts. Pure string assembly,
// no side effects.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build maps (genre, diary text, per-day entries, language, novel-so-far)
// to the content, title and image prompts. An unsupported genre is a
// configuration error and fails fast; it never silently defaults.
func (b *Builder) Build(genre domain.Genre, diaryContents, novelSoFar string, language domain.Language, entries []domain.DiaryEntry) (Prompts, error) {
	guide, ok := genreGuides[genre]
	if !ok {
		return Prompts{}, fmt.Errorf("unsupported genre %q", genre)
	}
	language = language.OrDefault()

	return Prompts{
		Content: b.contentPrompt(guide, diaryContents, language, entries),
		Title:   b.titlePrompt(novelSoFar, language),
		Image:   guide.cover,
	}, nil
}

func (b *Builder) contentPrompt(guide genreGuide, diaryContents string, language domain.Language, entries []domain.DiaryEntry) string {
	var sb strings.Builder

	if language == domain.LanguageEnglish {
		sb.WriteString("You are a novelist who turns one week of diary entries into a short novel.\n")
		sb.WriteString(guide.en)
		sb.WriteString("\n\nRules:\n")
		sb.WriteString("- Write everything in English.\n")
		sb.WriteString("- Keep the diary's first-person voice.\n")
		sb.WriteString("- Reuse the people, names and relationships that appear in the diary. Do not invent a new protagonist.\n")
		sb.WriteString(fmt.Sprintf("- First, under the heading \"%s\", emit a per-day summary table: one row per day with date, key event and emotion.\n", summaryHeadingEn))
		sb.WriteString(fmt.Sprintf("- Then, under the heading \"%s\", write the novel body. No other headings, no explanations.\n", novelHeadingEn))
	} else {
		sb.WriteString("당신은 일주일치 일기를 한 편의 짧은 소설로 바꾸는 소설가입니다.\n")
		sb.WriteString(guide.ko)
		sb.WriteString("\n\n규칙:\n")
		sb.WriteString("- 모든 출력은 한국어로 작성하세요.\n")
		sb.WriteString("- 일기의 1인칭 시점을 유지하세요.\n")
		sb.WriteString("- 일기에 등장하는 인물, 이름, 관계를 그대로 사용하세요. 새로운 주인공을 만들지 마세요.\n")
		sb.WriteString(fmt.Sprintf("- 먼저 \"%s\" 제목 아래에 하루당 한 줄씩 날짜, 핵심 사건, 감정을 정리한 요약표를 작성하세요.\n", summaryHeadingKo))
		sb.WriteString(fmt.Sprintf("- 그 다음 \"%s\" 제목 아래에 소설 본문을 작성하세요. 다른 제목이나 설명은 쓰지 마세요.\n", novelHeadingKo))
	}

	if len(entries) > 0 {
		if language == domain.LanguageEnglish {
			sb.WriteString("\nDiary entries, in day order:\n")
		} else {
			sb.WriteString("\n요일 순서의 일기:\n")
		}
		for i, entry := range entries {
			sb.WriteString(fmt.Sprintf("%d. [%s]", i+1, entry.Date))
			if label, ok := emotionLabels[entry.Emotion]; ok {
				if language == domain.LanguageEnglish {
					sb.WriteString(" (" + label.en + ")")
				} else {
					sb.WriteString(" (" + label.ko + ")")
				}
			}
			sb.WriteString(" " + entry.Content + "\n")
		}
	}

	if language == domain.LanguageEnglish {
		sb.WriteString("\nFull diary text:\n")
	} else {
		sb.WriteString("\n일기 전문:\n")
	}
	sb.WriteString(diaryContents)
	return sb.String()
}

// Enhance builds the premium diary-polish prompt: same text, better flow,
// optional suggested title on a labelled first line.
func (b *Builder) Enhance(diaryText string, language domain.Language) string {
	if language.OrDefault() == domain.LanguageEnglish {
		return fmt.Sprintf("Polish the following diary entry: fix grammar, improve flow, keep the writer's voice and every fact unchanged. If a title suggests itself, put it on the first line as \"Title: ...\"; otherwise start directly with the text.\n\n%s", diaryText)
	}
	return fmt.Sprintf("다음 일기를 다듬어 주세요. 맞춤법과 문장의 흐름을 고치되, 글쓴이의 목소리와 사실은 그대로 유지하세요. 어울리는 제목이 떠오르면 첫 줄에 \"제목: ...\" 형식으로 적고, 아니면 바로 본문으로 시작하세요.\n\n%s", diaryText)
}

func (b *Builder) titlePrompt(novelSoFar string, language domain.Language) string {
	if novelSoFar == "" {
		return ""
	}
	excerpt := []rune(novelSoFar)
	if len(excerpt) > titleExcerptLimit {
		excerpt = excerpt[:titleExcerptLimit]
	}
	if language == domain.LanguageEnglish {
		return fmt.Sprintf("Suggest exactly one title for the following novel. Reply with the title only, no quotes, no explanation.\n\n%s", string(excerpt))
	}
	return fmt.Sprintf("다음 소설에 어울리는 제목을 정확히 하나만 제안하세요. 따옴표나 설명 없이 제목만 답하세요.\n\n%s", string(excerpt))
}
