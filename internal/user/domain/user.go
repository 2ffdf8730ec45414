package domain

import "time"

// User is the Firestore-backed user record: entitlement flags,
// notification preferences, device token and timezone. Firestore is the
// system of record; this process never persists users anywhere else.
type User struct {
	ID               string    `firestore:"-" json:"id"`
	Email            string    `firestore:"email" json:"email"`
	Name             string    `firestore:"name" json:"name"`
	Provider         string    `firestore:"provider" json:"provider"` // "kakao" or "firebase"
	Premium          bool      `firestore:"premium" json:"premium"`
	PremiumExpiresAt time.Time `firestore:"premiumExpiresAt" json:"premium_expires_at"`
	Credits          int64     `firestore:"credits" json:"credits"`
	NotifyDaily      bool      `firestore:"notifyDaily" json:"notify_daily"`
	NotifyWeekly     bool      `firestore:"notifyWeekly" json:"notify_weekly"`
	DeviceToken      string    `firestore:"deviceToken" json:"-"`
	Timezone         string    `firestore:"timezone" json:"timezone"`
	CreatedAt        time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updated_at"`
}

// IsPremium reports whether the premium entitlement is active at now.
func (u *User) IsPremium(now time.Time) bool {
	return u.Premium && u.PremiumExpiresAt.After(now)
}
