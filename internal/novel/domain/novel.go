package domain

// Genre selects the fiction style a diary week is rewritten into.
type Genre string

const (
	GenreRomance    Genre = "romance"
	GenreMystery    Genre = "mystery"
	GenreHistorical Genre = "historical"
	GenreFairytale  Genre = "fairytale"
	GenreFantasy    Genre = "fantasy"
	GenreHorror     Genre = "horror"
)

// Genres lists every supported genre tag.
var Genres = []Genre{GenreRomance, GenreMystery, GenreHistorical, GenreFairytale, GenreFantasy, GenreHorror}

// Valid reports whether g is one of the supported genre tags.
func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Language is the output language of the generated novel.
type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// OrDefault returns ko when the language is unset or unknown.
func (l Language) OrDefault() Language {
	if l == LanguageEnglish {
		return LanguageEnglish
	}
	return LanguageKorean
}

// Emotion is the mood tag a user attached to a diary entry. Empty means
// no tag was set.
type Emotion string

const (
	EmotionLove      Emotion = "love"
	EmotionGood      Emotion = "good"
	EmotionNormal    Emotion = "normal"
	EmotionSurprised Emotion = "surprised"
	EmotionAngry     Emotion = "angry"
	EmotionCry       Emotion = "cry"
)

// DiaryEntry is one day of raw diary input. Immutable; owned by the caller.
type DiaryEntry struct {
	Date    string  `json:"date"`
	Content string  `json:"content"`
	Emotion Emotion `json:"emotion,omitempty"`
}

// GenerationRequest is the per-invocation input to the novel pipeline.
// Never persisted.
type GenerationRequest struct {
	DiaryContents string       `json:"diaryContents"`
	DiaryEntries  []DiaryEntry `json:"diaryEntries"`
	Genre         Genre        `json:"genre"`
	UserName      string       `json:"userName"`
	Language      Language     `json:"language"`
}

// GenerationResult is the assembled output of one successful run.
// NovelContent is guaranteed free of summary-heading markers and of a
// leading title line; NarrativeSummary is "" when the model emitted no
// usable summary section.
type GenerationResult struct {
	NovelContent     string `json:"novelContent"`
	Title            string `json:"title"`
	CoverImageURL    string `json:"coverImageUrl"`
	NarrativeSummary string `json:"narrativeSummary,omitempty"`
}
