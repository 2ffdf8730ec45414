package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"novelog-backend/internal/novel/domain"
	"novelog-backend/internal/novel/prompt"
	"novelog-backend/internal/novel/segment"
	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/pkg/apperr"
	"novelog-backend/pkg/retry"
)

type fakeUpstream struct {
	completions []string
	completeErr error
	imageB64    string
	imageErr    error
	calls       int
	prompts     []string
}

func (f *fakeUpstream) Complete(_ context.Context, p string, _ float64, _ int64) (string, error) {
	f.prompts = append(f.prompts, p)
	if f.completeErr != nil {
		return "", f.completeErr
	}
	if f.calls >= len(f.completions) {
		return "", errors.New("unexpected completion call")
	}
	out := f.completions[f.calls]
	f.calls++
	return out, nil
}

func (f *fakeUpstream) GenerateImage(_ context.Context, p string) (string, error) {
	f.prompts = append(f.prompts, p)
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageB64, nil
}

type fakeUploader struct {
	path string
	data []byte
	err  error
}

func (f *fakeUploader) Store(_ context.Context, data []byte, contentType, path string, public bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.path = path
	f.data = data
	return "https://storage.googleapis.com/test-bucket/" + path, nil
}

type fakeUsers struct {
	user *userdomain.User
}

func (f *fakeUsers) Get(_ context.Context, _ string) (*userdomain.User, error) {
	return f.user, nil
}

func newTestUsecase(up *fakeUpstream, store *fakeUploader, users *fakeUsers) *novelUsecase {
	return &novelUsecase{
		upstream:  up,
		uploader:  store,
		userRepo:  users,
		builder:   prompt.NewBuilder(),
		segmenter: segment.New(),
		retryOpts: retry.Options{Sleep: func(context.Context, time.Duration) error { return nil }},
		now:       func() time.Time { return time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC) },
	}
}

func validRequest() domain.GenerationRequest {
	entries := make([]domain.DiaryEntry, 7)
	for i := range entries {
		entries[i] = domain.DiaryEntry{Date: "2025-06-0" + string(rune('2'+i)), Content: "하루의 기록", Emotion: domain.EmotionNormal}
	}
	return domain.GenerationRequest{
		DiaryContents: "일주일 동안의 일기 전문",
		DiaryEntries:  entries,
		Genre:         domain.GenreRomance,
		UserName:      "지수",
		Language:      domain.LanguageKorean,
	}
}

func TestGenerateNovelEndToEnd(t *testing.T) {
	raw := "## 서사 요약표\n" + strings.Repeat("월요일, 비, 평범한 하루였다. ", 4) + "\n\n## 소설 시작\n그날 밤\n\n비 오는 거리에서 나는 그 사람을 다시 만났다. 우산은 하나뿐이었다."
	up := &fakeUpstream{
		completions: []string{raw, "「우산 하나」"},
		imageB64:    base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}
	store := &fakeUploader{}
	u := newTestUsecase(up, store, &fakeUsers{})

	result, err := u.GenerateNovel(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("GenerateNovel: %v", err)
	}

	if strings.Contains(result.NovelContent, "서사 요약표") {
		t.Fatalf("novel content still contains the summary marker: %q", result.NovelContent)
	}
	for _, line := range strings.Split(result.NovelContent, "\n") {
		if strings.HasPrefix(line, "#") {
			t.Fatalf("novel content contains a heading line: %q", line)
		}
	}
	if !strings.HasPrefix(result.NovelContent, "비 오는 거리에서") {
		t.Fatalf("unexpected novel content: %q", result.NovelContent)
	}
	if result.Title != "우산 하나" {
		t.Fatalf("title = %q, want quotes stripped", result.Title)
	}
	if result.NarrativeSummary == "" {
		t.Fatal("expected a narrative summary")
	}
	if !strings.HasPrefix(result.CoverImageURL, "https://storage.googleapis.com/") {
		t.Fatalf("cover url = %q", result.CoverImageURL)
	}
	if string(store.data) != "png-bytes" {
		t.Fatalf("uploaded bytes = %q", store.data)
	}
	if !strings.HasPrefix(store.path, "covers/") || !strings.HasSuffix(store.path, ".png") {
		t.Fatalf("storage path = %q", store.path)
	}
}

func TestGenerateNovelRequiresIdentity(t *testing.T) {
	u := newTestUsecase(&fakeUpstream{}, &fakeUploader{}, &fakeUsers{})
	_, err := u.GenerateNovel(context.Background(), "", validRequest())
	if apperr.From(err).Code != apperr.Unauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestGenerateNovelValidatesInput(t *testing.T) {
	u := newTestUsecase(&fakeUpstream{}, &fakeUploader{}, &fakeUsers{})
	cases := []struct {
		name   string
		mutate func(*domain.GenerationRequest)
	}{
		{"missing diary", func(r *domain.GenerationRequest) { r.DiaryContents = " " }},
		{"missing user name", func(r *domain.GenerationRequest) { r.UserName = "" }},
		{"bad genre", func(r *domain.GenerationRequest) { r.Genre = "western" }},
		{"too many entries", func(r *domain.GenerationRequest) {
			r.DiaryEntries = make([]domain.DiaryEntry, 8)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := u.GenerateNovel(context.Background(), "user-1", req)
			if apperr.From(err).Code != apperr.InvalidArgument {
				t.Fatalf("expected invalid-argument, got %v", err)
			}
		})
	}
}

func TestGenerateNovelMapsRateLimitToResourceExhausted(t *testing.T) {
	up := &fakeUpstream{completeErr: errors.New("429: rate limit reached")}
	u := newTestUsecase(up, &fakeUploader{}, &fakeUsers{})
	_, err := u.GenerateNovel(context.Background(), "user-1", validRequest())
	if apperr.From(err).Code != apperr.ResourceExhausted {
		t.Fatalf("expected resource-exhausted, got %v", err)
	}
}

func TestGenerateNovelWrapsStorageFailure(t *testing.T) {
	raw := "본문만 있는 응답이다. 그리고 꽤 길다. 거리에는 아무도 없었다."
	up := &fakeUpstream{
		completions: []string{raw, "제목"},
		imageB64:    base64.StdEncoding.EncodeToString([]byte("x")),
	}
	u := newTestUsecase(up, &fakeUploader{err: errors.New("bucket gone")}, &fakeUsers{})
	_, err := u.GenerateNovel(context.Background(), "user-1", validRequest())
	appErr := apperr.From(err)
	if appErr.Code != apperr.Internal {
		t.Fatalf("expected internal, got %v", err)
	}
	if appErr.Details["storage"] == nil {
		t.Fatalf("expected storage detail, got %+v", appErr.Details)
	}
}

func TestBuildImagePromptRespectsBudget(t *testing.T) {
	style := strings.Repeat("s", 950)
	prefix := excerptPrefix
	body := strings.Repeat("b", 500)

	got := buildImagePrompt(style, body)
	if len(got) > imagePromptBudget {
		t.Fatalf("prompt length %d exceeds budget", len(got))
	}
	wantExcerpt := imagePromptBudget - len(style) - len(prefix)
	if !strings.HasSuffix(got, strings.Repeat("b", wantExcerpt)) {
		t.Fatalf("expected %d excerpt chars", wantExcerpt)
	}

	// Style prompt alone over budget: no excerpt appended.
	huge := strings.Repeat("s", 1005)
	if got := buildImagePrompt(huge, body); got != huge {
		t.Fatal("expected style prompt untouched when it alone exceeds the budget")
	}
}

func TestBuildImagePromptDoesNotSplitRunes(t *testing.T) {
	style := strings.Repeat("s", 990)
	body := strings.Repeat("가", 10)
	got := buildImagePrompt(style, body)
	if len(got) > imagePromptBudget {
		t.Fatalf("prompt length %d exceeds budget", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("prompt is not valid UTF-8")
	}
}

func TestEnhanceDiaryRequiresPremium(t *testing.T) {
	users := &fakeUsers{user: &userdomain.User{ID: "user-1", Premium: false}}
	u := newTestUsecase(&fakeUpstream{}, &fakeUploader{}, users)
	_, err := u.EnhanceDiary(context.Background(), "user-1", "오늘의 일기", domain.LanguageKorean)
	if apperr.From(err).Code != apperr.PermissionDenied {
		t.Fatalf("expected permission-denied, got %v", err)
	}
}

func TestEnhanceDiaryParsesLabelledTitle(t *testing.T) {
	users := &fakeUsers{user: &userdomain.User{
		ID: "user-1", Premium: true,
		PremiumExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	up := &fakeUpstream{completions: []string{"제목: 여름의 끝\n다듬어진 일기 본문이다."}}
	u := newTestUsecase(up, &fakeUploader{}, users)

	got, err := u.EnhanceDiary(context.Background(), "user-1", "원래 일기", domain.LanguageKorean)
	if err != nil {
		t.Fatalf("EnhanceDiary: %v", err)
	}
	if got.EnhancedTitle != "여름의 끝" {
		t.Fatalf("title = %q", got.EnhancedTitle)
	}
	if got.EnhancedContent != "다듬어진 일기 본문이다." {
		t.Fatalf("content = %q", got.EnhancedContent)
	}
}
