package dto

import "novelog-backend/internal/novel/domain"

type DiaryEntry struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	Emotion string `json:"emotion"`
}

type GenerateNovelRequest struct {
	DiaryContents string       `json:"diaryContents"`
	DiaryEntries  []DiaryEntry `json:"diaryEntries"`
	Genre         string       `json:"genre"`
	UserName      string       `json:"userName"`
	Language      string       `json:"language"`
}

// ToDomain maps the wire request onto the generation request.
func (r GenerateNovelRequest) ToDomain() domain.GenerationRequest {
	entries := make([]domain.DiaryEntry, len(r.DiaryEntries))
	for i, e := range r.DiaryEntries {
		entries[i] = domain.DiaryEntry{
			Date:    e.Date,
			Content: e.Content,
			Emotion: domain.Emotion(e.Emotion),
		}
	}
	return domain.GenerationRequest{
		DiaryContents: r.DiaryContents,
		DiaryEntries:  entries,
		Genre:         domain.Genre(r.Genre),
		UserName:      r.UserName,
		Language:      domain.Language(r.Language),
	}
}

type EnhanceDiaryRequest struct {
	DiaryText string `json:"diaryText"`
	Language  string `json:"language"`
}
