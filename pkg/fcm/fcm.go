package fcm

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
)

// MaxBatchSize is the FCM limit for one SendEach call.
const MaxBatchSize = 500

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client around an initialized messaging client
func NewClient(messagingClient *messaging.Client) *Client {
	return &Client{messagingClient: messagingClient}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title    string
	Body     string
	ImageURL string            // Optional notification image
	Data     map[string]string // Custom data payload
}

// Message pairs a device token with its notification payload.
type Message struct {
	Token        string
	Notification NotificationData
}

// BatchResult reports per-message outcomes of one batch send.
type BatchResult struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// SendToDevice sends a push notification to a specific device token
func (c *Client) SendToDevice(ctx context.Context, token string, notification NotificationData) error {
	response, err := c.messagingClient.Send(ctx, buildMessage(token, notification))
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Printf("[FCM] Message sent successfully: %s", response)
	return nil
}

// SendBatch sends up to MaxBatchSize individually addressed messages in one
// call and returns per-message outcomes. Failed tokens are reported, never
// retried here.
func (c *Client) SendBatch(ctx context.Context, messages []Message) (*BatchResult, error) {
	if len(messages) == 0 {
		return &BatchResult{}, nil
	}
	if len(messages) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds FCM limit of %d", len(messages), MaxBatchSize)
	}

	payload := make([]*messaging.Message, len(messages))
	for i, m := range messages {
		payload[i] = buildMessage(m.Token, m.Notification)
	}

	response, err := c.messagingClient.SendEach(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM batch: %w", err)
	}

	result := &BatchResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}
	for i, resp := range response.Responses {
		if !resp.Success {
			result.FailedTokens = append(result.FailedTokens, messages[i].Token)
			log.Printf("[FCM] Failed to send to token %s...: %v", shortToken(messages[i].Token), resp.Error)
		}
	}

	log.Printf("[FCM] Batch sent: %d success, %d failures", result.SuccessCount, result.FailureCount)
	return result, nil
}

func buildMessage(token string, notification NotificationData) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
		Data: notification.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: notification.Title,
				Body:  notification.Body,
				Icon:  "/icon-192.svg",
			},
		},
	}
}

func shortToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20]
}
