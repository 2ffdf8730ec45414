package delivery

import (
	"net/http"

	authdto "novelog-backend/internal/auth/dto"
	"novelog-backend/internal/auth/usecase"
	"novelog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

func (h *AuthHandler) KakaoSignIn(c *gin.Context) {
	var req authdto.KakaoSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		respondError(c, apperr.New(apperr.InvalidArgument, "authorization code is required"))
		return
	}

	result, err := h.authUsecase.KakaoSignIn(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.authUsecase.DeleteAccount(c.Request.Context(), c.GetString("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
}
