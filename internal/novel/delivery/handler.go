package delivery

import (
	"net/http"

	"novelog-backend/internal/novel/domain"
	noveldto "novelog-backend/internal/novel/dto"
	"novelog-backend/internal/novel/usecase"
	"novelog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type NovelHandler struct {
	novelUsecase usecase.NovelUsecase
}

func NewNovelHandler(novelUsecase usecase.NovelUsecase) *NovelHandler {
	return &NovelHandler{novelUsecase: novelUsecase}
}

func (h *NovelHandler) Generate(c *gin.Context) {
	var req noveldto.GenerateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "malformed request body"))
		return
	}

	result, err := h.novelUsecase.GenerateNovel(c.Request.Context(), c.GetString("userID"), req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *NovelHandler) Enhance(c *gin.Context) {
	var req noveldto.EnhanceDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "malformed request body"))
		return
	}

	result, err := h.novelUsecase.EnhanceDiary(c.Request.Context(), c.GetString("userID"), req.DiaryText, domain.Language(req.Language))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
}
