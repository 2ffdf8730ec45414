package usecase

import (
	"context"

	"novelog-backend/internal/novel/domain"
	userdomain "novelog-backend/internal/user/domain"
)

// Upstream is the AI generation collaborator. Implemented by pkg/openai;
// tests supply fakes.
type Upstream interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int64) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Uploader is the object storage collaborator for cover images.
type Uploader interface {
	Store(ctx context.Context, data []byte, contentType, path string, public bool) (string, error)
}

// UserGetter is the slice of the user repository the pipeline needs for
// entitlement checks.
type UserGetter interface {
	Get(ctx context.Context, id string) (*userdomain.User, error)
}

// EnhanceResult is the output of the premium diary-polish call.
type EnhanceResult struct {
	EnhancedContent string `json:"enhancedContent"`
	EnhancedTitle   string `json:"enhancedTitle,omitempty"`
}

// NovelUsecase runs the generation pipeline and the diary enhancement.
type NovelUsecase interface {
	GenerateNovel(ctx context.Context, callerID string, req domain.GenerationRequest) (*domain.GenerationResult, error)
	EnhanceDiary(ctx context.Context, callerID, diaryText string, language domain.Language) (*EnhanceResult, error)
}
