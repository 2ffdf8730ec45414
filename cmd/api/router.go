package api

import (
	"net/http"

	authDelivery "novelog-backend/internal/auth/delivery"
	authUsecase "novelog-backend/internal/auth/usecase"
	"novelog-backend/internal/notification"
	notificationDelivery "novelog-backend/internal/notification/delivery"
	novelDelivery "novelog-backend/internal/novel/delivery"
	novelUsecase "novelog-backend/internal/novel/usecase"
	userDelivery "novelog-backend/internal/user/delivery"
	userUsecase "novelog-backend/internal/user/usecase"
	"novelog-backend/pkg/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authClient *firebaseauth.Client, authUc authUsecase.AuthUsecase, userUc userUsecase.UserUsecase, novelUc novelUsecase.NovelUsecase, notifications *notification.Service, cfg *config.Config) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	userHandler := userDelivery.NewUserHandler(userUc)
	novelHandler := novelDelivery.NewNovelHandler(novelUc)
	notificationHandler := notificationDelivery.NewNotificationHandler(notifications, userUc)

	authRequired := authDelivery.AuthMiddleware(authClient)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		api.POST("/auth/kakao", authHandler.KakaoSignIn)
		api.DELETE("/account", authRequired, authHandler.DeleteAccount)
		api.GET("/me", authRequired, userHandler.Me)

		// Generation routes (protected)
		novel := api.Group("")
		novel.Use(authRequired)
		{
			novel.POST("/novel/generate", novelHandler.Generate)
			novel.POST("/diary/enhance", novelHandler.Enhance)
		}

		// User record routes (protected)
		users := api.Group("/users")
		users.Use(authRequired)
		{
			users.POST("/credits", userHandler.AddCredits)
			users.POST("/premium/renew", userHandler.RenewPremium)
			users.PATCH("/settings", userHandler.UpdateSettings)
		}

		api.POST("/notifications/test", authRequired, notificationHandler.TestPush)

		// Internal job triggers, mirroring the scheduled jobs for manual runs
		jobs := api.Group("/jobs")
		jobs.Use(authDelivery.JobKeyMiddleware(cfg.JobTriggerKey))
		{
			jobs.POST("/daily-reminder", notificationHandler.TriggerDailyReminder)
			jobs.POST("/weekly-digest", notificationHandler.TriggerWeeklyDigest)
			jobs.POST("/premium-sweep", notificationHandler.TriggerPremiumSweep)
		}
	}
}
