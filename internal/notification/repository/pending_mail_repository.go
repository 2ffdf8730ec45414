package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

const pendingMailCollection = "pending_mail"

// PendingMailRepository records mail that could not be delivered over SMTP
// so an out-of-band worker can pick it up. Implements the mailer's pending
// store.
type PendingMailRepository struct {
	client *firestore.Client
}

func NewPendingMailRepository(client *firestore.Client) *PendingMailRepository {
	return &PendingMailRepository{client: client}
}

func (r *PendingMailRepository) SavePendingMail(ctx context.Context, to, subject, text, html string) error {
	doc := map[string]any{
		"to":        to,
		"subject":   subject,
		"text":      text,
		"html":      html,
		"createdAt": time.Now(),
		"delivered": false,
	}
	if _, err := r.client.Collection(pendingMailCollection).Doc(uuid.NewString()).Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to record pending mail for %s: %w", to, err)
	}
	return nil
}
