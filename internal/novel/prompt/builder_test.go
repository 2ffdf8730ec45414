package prompt

import (
	"strings"
	"testing"

	"novelog-backend/internal/novel/domain"
)

func TestBuildReturnsThreePromptsForEveryGenre(t *testing.T) {
	b := NewBuilder()
	entries := []domain.DiaryEntry{{Date: "2025-06-02", Content: "비가 왔다", Emotion: domain.EmotionNormal}}

	for _, genre := range domain.Genres {
		for _, lang := range []domain.Language{domain.LanguageKorean, domain.LanguageEnglish} {
			got, err := b.Build(genre, "일주일 일기", "이미 생성된 소설 본문", lang, entries)
			if err != nil {
				t.Fatalf("Build(%s, %s): %v", genre, lang, err)
			}
			if got.Content == "" || got.Title == "" || got.Image == "" {
				t.Fatalf("Build(%s, %s): expected three non-empty prompts, got %+v", genre, lang, got)
			}
		}
	}
}

func TestBuildFailsFastOnUnknownGenre(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build(domain.Genre("western"), "diary", "", domain.LanguageKorean, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported genre")
	}
	if !strings.Contains(err.Error(), "western") {
		t.Fatalf("error should name the rejected genre, got %v", err)
	}
}

func TestContentPromptCarriesHeadingsAndEntries(t *testing.T) {
	b := NewBuilder()
	entries := []domain.DiaryEntry{
		{Date: "2025-06-02", Content: "친구를 만났다", Emotion: domain.EmotionGood},
		{Date: "2025-06-03", Content: "야근했다", Emotion: domain.EmotionAngry},
	}
	got, err := b.Build(domain.GenreRomance, "전체 일기", "", domain.LanguageKorean, entries)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, want := range []string{"서사 요약표", "소설 시작", "2025-06-02", "야근했다", "좋음", "화남", "1인칭"} {
		if !strings.Contains(got.Content, want) {
			t.Fatalf("content prompt missing %q", want)
		}
	}
	if got.Title != "" {
		t.Fatalf("title prompt should be empty without a generated novel, got %q", got.Title)
	}
}

func TestTitlePromptTruncatesNovelBody(t *testing.T) {
	b := NewBuilder()
	long := strings.Repeat("가", 3000)
	got, err := b.Build(domain.GenreFantasy, "diary", long, domain.LanguageKorean, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Count(got.Title, "가") != titleExcerptLimit {
		t.Fatalf("expected exactly %d excerpt runes in title prompt, got %d", titleExcerptLimit, strings.Count(got.Title, "가"))
	}
}

func TestImagePromptIsLanguageIndependent(t *testing.T) {
	b := NewBuilder()
	ko, err := b.Build(domain.GenreHorror, "d", "", domain.LanguageKorean, nil)
	if err != nil {
		t.Fatalf("Build ko: %v", err)
	}
	en, err := b.Build(domain.GenreHorror, "d", "", domain.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("Build en: %v", err)
	}
	if ko.Image != en.Image {
		t.Fatal("image prompt must not vary with language")
	}
	if !strings.Contains(strings.ToLower(ko.Image), "no text") {
		t.Fatalf("cover prompt should forbid text, got %q", ko.Image)
	}
}
