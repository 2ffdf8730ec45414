package api

import (
	authUsecase "novelog-backend/internal/auth/usecase"
	"novelog-backend/internal/notification"
	novelUsecase "novelog-backend/internal/novel/usecase"
	userUsecase "novelog-backend/internal/user/usecase"
	"novelog-backend/pkg/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	authClient    *firebaseauth.Client
	authUsecase   authUsecase.AuthUsecase
	userUsecase   userUsecase.UserUsecase
	novelUsecase  novelUsecase.NovelUsecase
	notifications *notification.Service
	config        *config.Config
}

func NewHandler(authClient *firebaseauth.Client, authUc authUsecase.AuthUsecase, userUc userUsecase.UserUsecase, novelUc novelUsecase.NovelUsecase, notifications *notification.Service, cfg *config.Config) *Handler {
	return &Handler{
		authClient:    authClient,
		authUsecase:   authUc,
		userUsecase:   userUc,
		novelUsecase:  novelUc,
		notifications: notifications,
		config:        cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authClient, h.authUsecase, h.userUsecase, h.novelUsecase, h.notifications, h.config)

	return r.Run(addr)
}
