package delivery

import (
	"net/http"
	"time"

	"novelog-backend/internal/notification"
	userusecase "novelog-backend/internal/user/usecase"
	"novelog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service     *notification.Service
	userUsecase userusecase.UserUsecase
}

func NewNotificationHandler(service *notification.Service, userUsecase userusecase.UserUsecase) *NotificationHandler {
	return &NotificationHandler{service: service, userUsecase: userUsecase}
}

// TestPush sends an on-demand push to the caller's own device.
func (h *NotificationHandler) TestPush(c *gin.Context) {
	if err := h.service.SendTestPush(c.Request.Context(), c.GetString("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// The job endpoints mirror the scheduled triggers for manual runs.

func (h *NotificationHandler) TriggerDailyReminder(c *gin.Context) {
	report, err := h.service.RunDailyReminder(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *NotificationHandler) TriggerWeeklyDigest(c *gin.Context) {
	report, err := h.service.RunWeeklyDigest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *NotificationHandler) TriggerPremiumSweep(c *gin.Context) {
	downgraded, err := h.userUsecase.SweepExpiredPremium(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downgraded": downgraded})
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
}
