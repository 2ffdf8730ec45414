package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	FirebaseCredentials string
	GoogleProjectID     string
	StorageBucket       string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	TextModel     string
	ImageModel    string

	KakaoClientID     string
	KakaoClientSecret string
	KakaoRedirectURI  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Shared secret for the internal job-trigger endpoints.
	JobTriggerKey string

	// Pub/Sub topic carrying Cloud Scheduler ticks. Empty disables the
	// Pub/Sub trigger and the in-process cron takes over.
	SchedulerTopic string

	// Local send hour for reminder notifications, in each user's timezone.
	ReminderHour int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		TextModel:           getEnv("TEXT_MODEL", "gpt-4o"),
		ImageModel:          getEnv("IMAGE_MODEL", "dall-e-3"),
		KakaoClientID:       getEnv("KAKAO_CLIENT_ID", ""),
		KakaoClientSecret:   getEnv("KAKAO_CLIENT_SECRET", ""),
		KakaoRedirectURI:    getEnv("KAKAO_REDIRECT_URI", "http://localhost:8080/api/auth/kakao/callback"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		MailFrom:            getEnv("MAIL_FROM", "no-reply@novelog.app"),
		JobTriggerKey:       getEnv("JOB_TRIGGER_KEY", ""),
		SchedulerTopic:      getEnv("SCHEDULER_TOPIC", ""),
		ReminderHour:        getEnvInt("REMINDER_HOUR", 21),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
