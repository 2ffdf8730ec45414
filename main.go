package main

import (
	"context"
	"log"

	api "novelog-backend/cmd/api"
	authUsecase "novelog-backend/internal/auth/usecase"
	"novelog-backend/internal/notification"
	notificationRepo "novelog-backend/internal/notification/repository"
	"novelog-backend/internal/notification/scheduler"
	novelUsecase "novelog-backend/internal/novel/usecase"
	userRepo "novelog-backend/internal/user/repository"
	userUsecase "novelog-backend/internal/user/usecase"
	"novelog-backend/pkg/config"
	"novelog-backend/pkg/fcm"
	"novelog-backend/pkg/firebase"
	"novelog-backend/pkg/mailer"
	"novelog-backend/pkg/openai"
	"novelog-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Firebase collaborators (auth, firestore, messaging, storage)
	fb, err := firebase.New(ctx, cfg.FirebaseCredentials, cfg.GoogleProjectID, cfg.StorageBucket)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}
	defer fb.Firestore.Close()

	// Initialize AI upstream
	aiClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TextModel, cfg.ImageModel)
	if err != nil {
		log.Fatal("Failed to initialize AI client:", err)
	}

	// Initialize repositories (dependency injection)
	users := userRepo.NewUserRepository(fb.Firestore)
	pendingMail := notificationRepo.NewPendingMailRepository(fb.Firestore)

	// Initialize collaborators
	fcmClient := fcm.NewClient(fb.Messaging)
	mailClient := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, pendingMail)
	uploader := storage.NewUploader(fb.Bucket, fb.BucketName)

	// Initialize use cases
	authUc := authUsecase.NewAuthUsecase(fb.Auth, users, cfg.KakaoClientID, cfg.KakaoClientSecret, cfg.KakaoRedirectURI)
	userUc := userUsecase.NewUserUsecase(users)
	novelUc := novelUsecase.NewNovelUsecase(aiClient, uploader, users)

	// Initialize notification fan-out and its trigger
	notifService := notification.NewService(fcmClient, mailClient, users, cfg.ReminderHour)
	sched, err := scheduler.New(ctx, notifService, userUc, cfg.GoogleProjectID, cfg.SchedulerTopic, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize scheduler:", err)
	}
	sched.Start(ctx)

	// Start server
	handler := api.NewHandler(fb.Auth, authUc, userUc, novelUc, notifService, cfg)
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
