package delivery

import (
	"net/http"

	userdto "novelog-backend/internal/user/dto"
	"novelog-backend/internal/user/usecase"
	"novelog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
}

func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userUsecase.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AddCredits(c *gin.Context) {
	var req userdto.AddCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "malformed request body"))
		return
	}

	balance, err := h.userUsecase.AddCredits(c.Request.Context(), c.GetString("userID"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userdto.AddCreditsResponse{Balance: balance})
}

func (h *UserHandler) RenewPremium(c *gin.Context) {
	var req userdto.RenewPremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "malformed request body"))
		return
	}

	user, err := h.userUsecase.RenewPremium(c.Request.Context(), c.GetString("userID"), req.Months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var update usecase.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "malformed request body"))
		return
	}

	if err := h.userUsecase.UpdateSettings(c.Request.Context(), c.GetString("userID"), update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
}
