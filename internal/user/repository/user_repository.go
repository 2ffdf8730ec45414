package repository

import (
	"context"
	"fmt"
	"time"

	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/pkg/apperr"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const usersCollection = "users"

// UserRepository is the Firestore user-record collaborator.
type UserRepository interface {
	Get(ctx context.Context, id string) (*userdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, user *userdomain.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	AddCredits(ctx context.Context, id string, delta int64) (int64, error)
	SetPremium(ctx context.Context, id string, expiresAt time.Time) error
	ListDailyReminderTargets(ctx context.Context) ([]*userdomain.User, error)
	ListWeeklyDigestTargets(ctx context.Context) ([]*userdomain.User, error)
	ListExpiredPremium(ctx context.Context, now time.Time) ([]*userdomain.User, error)
	ClearDeviceToken(ctx context.Context, token string) error
}

// userRepository implements UserRepository over Firestore
type userRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *userRepository) Get(ctx context.Context, id string) (*userdomain.User, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return decodeUser(snap)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return decodeUser(snap)
}

func (r *userRepository) Create(ctx context.Context, user *userdomain.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if _, err := r.doc(user.ID).Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = time.Now()
	if _, err := r.doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	// Known subcollections go first; Firestore does not cascade.
	for _, sub := range []string{"diaries", "novels"} {
		if err := r.deleteSubcollection(ctx, id, sub); err != nil {
			return err
		}
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func (r *userRepository) deleteSubcollection(ctx context.Context, id, name string) error {
	iter := r.doc(id).Collection(name).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to enumerate %s of user %s: %w", name, id, err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", name, snap.Ref.ID, err)
		}
	}
}

// AddCredits atomically adjusts the credit balance and returns the new
// value. A spend that would drive the balance negative fails with
// failed-precondition and leaves the record untouched.
func (r *userRepository) AddCredits(ctx context.Context, id string, delta int64) (int64, error) {
	var balance int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(id))
		if err != nil {
			if snap != nil && !snap.Exists() {
				return apperr.Newf(apperr.NotFound, "user %s not found", id)
			}
			return err
		}
		user, err := decodeUser(snap)
		if err != nil {
			return err
		}
		balance = user.Credits + delta
		if balance < 0 {
			return apperr.New(apperr.FailedPrecondition, "insufficient credits")
		}
		return tx.Update(r.doc(id), []firestore.Update{
			{Path: "credits", Value: balance},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *userRepository) SetPremium(ctx context.Context, id string, expiresAt time.Time) error {
	return r.UpdateFields(ctx, id, map[string]any{
		"premium":          !expiresAt.IsZero() && expiresAt.After(time.Now()),
		"premiumExpiresAt": expiresAt,
	})
}

func (r *userRepository) ListDailyReminderTargets(ctx context.Context) ([]*userdomain.User, error) {
	return r.listWhere(ctx, "notifyDaily")
}

func (r *userRepository) ListWeeklyDigestTargets(ctx context.Context) ([]*userdomain.User, error) {
	return r.listWhere(ctx, "notifyWeekly")
}

func (r *userRepository) listWhere(ctx context.Context, flag string) ([]*userdomain.User, error) {
	iter := r.client.Collection(usersCollection).Where(flag, "==", true).Documents(ctx)
	defer iter.Stop()

	var users []*userdomain.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return users, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users by %s: %w", flag, err)
		}
		user, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
}

func (r *userRepository) ListExpiredPremium(ctx context.Context, now time.Time) ([]*userdomain.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("premium", "==", true).
		Where("premiumExpiresAt", "<", now).
		Documents(ctx)
	defer iter.Stop()

	var users []*userdomain.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return users, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list expired premium users: %w", err)
		}
		user, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
}

func (r *userRepository) ClearDeviceToken(ctx context.Context, token string) error {
	iter := r.client.Collection(usersCollection).Where("deviceToken", "==", token).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to query device token: %w", err)
		}
		if _, err := snap.Ref.Update(ctx, []firestore.Update{{Path: "deviceToken", Value: ""}}); err != nil {
			return fmt.Errorf("failed to clear device token on %s: %w", snap.Ref.ID, err)
		}
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (*userdomain.User, error) {
	var user userdomain.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}
