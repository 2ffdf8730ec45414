package usecase

import (
	"context"
	"log"
	"time"

	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/internal/user/repository"
	"novelog-backend/pkg/apperr"
	"novelog-backend/pkg/calendar"
)

// SettingsUpdate carries the user-editable record fields. Nil pointers
// mean "leave unchanged".
type SettingsUpdate struct {
	NotifyDaily  *bool   `json:"notify_daily"`
	NotifyWeekly *bool   `json:"notify_weekly"`
	DeviceToken  *string `json:"device_token"`
	Timezone     *string `json:"timezone"`
}

// UserUsecase covers the plain Firestore record operations: profile reads,
// settings updates, credit top-ups and premium renewal.
type UserUsecase interface {
	GetProfile(ctx context.Context, id string) (*userdomain.User, error)
	UpdateSettings(ctx context.Context, id string, update SettingsUpdate) error
	AddCredits(ctx context.Context, id string, amount int64) (int64, error)
	RenewPremium(ctx context.Context, id string, months int) (*userdomain.User, error)
	SweepExpiredPremium(ctx context.Context, now time.Time) (int, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetProfile(ctx context.Context, id string) (*userdomain.User, error) {
	user, err := u.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Newf(apperr.NotFound, "user %s not found", id)
	}
	return user, nil
}

func (u *userUsecase) UpdateSettings(ctx context.Context, id string, update SettingsUpdate) error {
	fields := map[string]any{}
	if update.NotifyDaily != nil {
		fields["notifyDaily"] = *update.NotifyDaily
	}
	if update.NotifyWeekly != nil {
		fields["notifyWeekly"] = *update.NotifyWeekly
	}
	if update.DeviceToken != nil {
		fields["deviceToken"] = *update.DeviceToken
	}
	if update.Timezone != nil {
		if _, err := time.LoadLocation(*update.Timezone); err != nil {
			return apperr.Newf(apperr.InvalidArgument, "unknown timezone %q", *update.Timezone)
		}
		fields["timezone"] = *update.Timezone
	}
	if len(fields) == 0 {
		return apperr.New(apperr.InvalidArgument, "no settings to update")
	}
	return u.userRepo.UpdateFields(ctx, id, fields)
}

func (u *userUsecase) AddCredits(ctx context.Context, id string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperr.New(apperr.InvalidArgument, "credit amount must be positive")
	}
	return u.userRepo.AddCredits(ctx, id, amount)
}

// RenewPremium extends the entitlement by the given number of months,
// counting from the current expiry when it is still in the future.
func (u *userUsecase) RenewPremium(ctx context.Context, id string, months int) (*userdomain.User, error) {
	if months < 1 || months > 12 {
		return nil, apperr.New(apperr.InvalidArgument, "months must be between 1 and 12")
	}
	user, err := u.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	base := time.Now()
	if user.PremiumExpiresAt.After(base) {
		base = user.PremiumExpiresAt
	}
	expiresAt := calendar.AddMonthsClamped(base, months)

	if err := u.userRepo.SetPremium(ctx, id, expiresAt); err != nil {
		return nil, err
	}
	user.Premium = true
	user.PremiumExpiresAt = expiresAt
	log.Printf("[User] Renewed premium for %s until %s", id, expiresAt.Format(time.RFC3339))
	return user, nil
}

// SweepExpiredPremium downgrades users whose entitlement lapsed. Runs from
// the scheduled premium sweep; per-user failures are logged and skipped so
// one bad record does not stall the sweep.
func (u *userUsecase) SweepExpiredPremium(ctx context.Context, now time.Time) (int, error) {
	expired, err := u.userRepo.ListExpiredPremium(ctx, now)
	if err != nil {
		return 0, err
	}

	downgraded := 0
	for _, user := range expired {
		if err := u.userRepo.UpdateFields(ctx, user.ID, map[string]any{"premium": false}); err != nil {
			log.Printf("[User] Failed to downgrade %s: %v", user.ID, err)
			continue
		}
		downgraded++
	}
	if downgraded > 0 {
		log.Printf("[User] Premium sweep downgraded %d users", downgraded)
	}
	return downgraded, nil
}
