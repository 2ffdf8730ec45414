package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"novelog-backend/internal/novel/domain"
	"novelog-backend/internal/novel/prompt"
	"novelog-backend/internal/novel/segment"
	"novelog-backend/pkg/apperr"
	"novelog-backend/pkg/retry"
)

const (
	contentTemperature = 0.7
	contentMaxTokens   = 2500
	titleTemperature   = 0.8
	titleMaxTokens     = 60

	// Total budget for the image-generation prompt, imposed upstream.
	imagePromptBudget = 1000
	excerptPrefix     = "\nStory: "

	maxDiaryEntries = 7
)

type novelUsecase struct {
	upstream  Upstream
	uploader  Uploader
	userRepo  UserGetter
	builder   *prompt.Builder
	segmenter *segment.Segmenter
	retryOpts retry.Options
	now       func() time.Time
}

// NewNovelUsecase wires the generation pipeline. All collaborators are
// injected; nothing here is process-global.
func NewNovelUsecase(upstream Upstream, uploader Uploader, userRepo UserGetter) NovelUsecase {
	return &novelUsecase{
		upstream:  upstream,
		uploader:  uploader,
		userRepo:  userRepo,
		builder:   prompt.NewBuilder(),
		segmenter: segment.New(),
		now:       time.Now,
	}
}

// GenerateNovel runs the full pipeline: content generation, segmentation,
// title generation, cover generation and upload. The first failing stage
// aborts the run; no partial results are returned.
func (u *novelUsecase) GenerateNovel(ctx context.Context, callerID string, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if callerID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "caller identity required")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	language := req.Language.OrDefault()

	prompts, err := u.builder.Build(req.Genre, req.DiaryContents, "", language, req.DiaryEntries)
	if err != nil {
		return nil, apperr.New(apperr.InvalidArgument, err.Error())
	}

	rawContent, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return u.upstream.Complete(ctx, prompts.Content, contentTemperature, contentMaxTokens)
	}, u.retryOpts)
	if err != nil {
		return nil, apperr.FromUpstream(err)
	}

	summary, body := u.segmenter.Split(rawContent)

	titled, err := u.builder.Build(req.Genre, req.DiaryContents, body, language, req.DiaryEntries)
	if err != nil {
		return nil, apperr.New(apperr.InvalidArgument, err.Error())
	}
	rawTitle, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return u.upstream.Complete(ctx, titled.Title, titleTemperature, titleMaxTokens)
	}, u.retryOpts)
	if err != nil {
		return nil, apperr.FromUpstream(err)
	}
	title := cleanTitle(rawTitle)

	imagePrompt := buildImagePrompt(prompts.Image, body)
	imageB64, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return u.upstream.GenerateImage(ctx, imagePrompt)
	}, u.retryOpts)
	if err != nil {
		return nil, apperr.FromUpstream(err)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, apperr.New(apperr.Internal, "upstream image payload is not valid base64").
			WithDetails(map[string]any{"upstream": err.Error()})
	}

	path := fmt.Sprintf("covers/%s-%d.png", sanitizeTitle(title), u.now().Unix())
	imageURL, err := u.uploader.Store(ctx, imageBytes, "image/png", path, true)
	if err != nil {
		return nil, apperr.New(apperr.Internal, "cover upload failed").
			WithDetails(map[string]any{"storage": err.Error()})
	}

	log.Printf("[Novel] Generated %s novel for %s (title %q, %d chars)", req.Genre, callerID, title, len(body))
	return &domain.GenerationResult{
		NovelContent:     body,
		Title:            title,
		CoverImageURL:    imageURL,
		NarrativeSummary: summary,
	}, nil
}

// EnhanceDiary polishes one diary entry. Premium only.
func (u *novelUsecase) EnhanceDiary(ctx context.Context, callerID, diaryText string, language domain.Language) (*EnhanceResult, error) {
	if callerID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "caller identity required")
	}
	if strings.TrimSpace(diaryText) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "diary text is required")
	}

	user, err := u.userRepo.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Newf(apperr.NotFound, "user %s not found", callerID)
	}
	if !user.IsPremium(u.now()) {
		return nil, apperr.New(apperr.PermissionDenied, "diary enhancement requires a premium account")
	}

	enhanced, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return u.upstream.Complete(ctx, u.builder.Enhance(diaryText, language), contentTemperature, contentMaxTokens)
	}, u.retryOpts)
	if err != nil {
		return nil, apperr.FromUpstream(err)
	}

	title, content := splitEnhancedTitle(enhanced)
	return &EnhanceResult{EnhancedContent: content, EnhancedTitle: title}, nil
}

func validateRequest(req domain.GenerationRequest) error {
	if strings.TrimSpace(req.DiaryContents) == "" {
		return apperr.New(apperr.InvalidArgument, "diary contents are required")
	}
	if strings.TrimSpace(req.UserName) == "" {
		return apperr.New(apperr.InvalidArgument, "user name is required")
	}
	if !req.Genre.Valid() {
		return apperr.Newf(apperr.InvalidArgument, "unsupported genre %q", req.Genre)
	}
	if len(req.DiaryEntries) > maxDiaryEntries {
		return apperr.Newf(apperr.InvalidArgument, "at most %d diary entries per request", maxDiaryEntries)
	}
	return nil
}

// buildImagePrompt appends as much of the story as fits the upstream's
// 1000-character budget after the fixed style prompt and the excerpt
// prefix. When the style prompt alone exhausts the budget, no excerpt is
// appended.
func buildImagePrompt(stylePrompt, body string) string {
	room := imagePromptBudget - len(stylePrompt) - len(excerptPrefix)
	if room <= 0 {
		return stylePrompt
	}
	excerpt := truncateRuneSafe(body, room)
	if excerpt == "" {
		return stylePrompt
	}
	return stylePrompt + excerptPrefix + excerpt
}

// truncateRuneSafe cuts s to at most maxBytes without splitting a rune.
func truncateRuneSafe(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

var quoteTrimSet = "\"'“”‘’「」『』"

// cleanTitle reduces the model's title response to one bare line.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(strings.Trim(title, quoteTrimSet))
}

var unsafePathChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// sanitizeTitle derives a storage path segment from the title.
func sanitizeTitle(title string) string {
	s := unsafePathChars.ReplaceAllString(title, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "novel"
	}
	runes := []rune(s)
	if len(runes) > 40 {
		runes = runes[:40]
	}
	return strings.Trim(string(runes), "-")
}

// splitEnhancedTitle pulls an optional labelled title off the first line.
func splitEnhancedTitle(text string) (title, content string) {
	trimmed := strings.TrimSpace(text)
	for _, label := range []string{"제목:", "제목 :", "Title:", "title:"} {
		if strings.HasPrefix(trimmed, label) {
			line := trimmed
			rest := ""
			if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
				line, rest = trimmed[:idx], trimmed[idx+1:]
			}
			title = strings.TrimSpace(strings.Trim(strings.TrimSpace(line[len(label):]), quoteTrimSet))
			return title, strings.TrimSpace(rest)
		}
	}
	return "", trimmed
}
