// Package notification fans scheduled and on-demand notifications out to
// users over FCM, falling back to email for users without a registered
// device.
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/pkg/calendar"
	"novelog-backend/pkg/fcm"

	"github.com/google/uuid"
)

// Pusher is the FCM collaborator. Implemented by pkg/fcm; tests supply
// fakes.
type Pusher interface {
	SendToDevice(ctx context.Context, token string, notification fcm.NotificationData) error
	SendBatch(ctx context.Context, messages []fcm.Message) (*fcm.BatchResult, error)
}

// MailSender delivers the email fallback for users without a device token.
type MailSender interface {
	SendMail(ctx context.Context, to, subject, text, html string) error
}

// UserDirectory is the slice of the user repository the jobs need.
type UserDirectory interface {
	Get(ctx context.Context, id string) (*userdomain.User, error)
	ListDailyReminderTargets(ctx context.Context) ([]*userdomain.User, error)
	ListWeeklyDigestTargets(ctx context.Context) ([]*userdomain.User, error)
	ClearDeviceToken(ctx context.Context, token string) error
}

// Report summarizes one job run. Failed counts recipients whose delivery
// failed on every channel; a nonzero value never fails the job itself.
type Report struct {
	JobID    string `json:"jobId"`
	Eligible int    `json:"eligible"`
	Sent     int    `json:"sent"`
	Failed   int    `json:"failed"`
	Skipped  bool   `json:"skipped,omitempty"`
}

type Service struct {
	pusher       Pusher
	mailer       MailSender
	users        UserDirectory
	reminderHour int
	now          func() time.Time

	// Dedup: a cron trigger and a manual trigger may both fire in the
	// same week; the digest goes out once.
	mu         sync.Mutex
	lastDigest time.Time
}

func NewService(pusher Pusher, mailer MailSender, users UserDirectory, reminderHour int) *Service {
	return &Service{
		pusher:       pusher,
		mailer:       mailer,
		users:        users,
		reminderHour: reminderHour,
		now:          time.Now,
	}
}

// RunDailyReminder sends the diary-writing reminder to every opted-in user
// whose local clock is at the send hour. Deliveries fan out concurrently;
// per-recipient failures are counted, never returned as a job error.
func (s *Service) RunDailyReminder(ctx context.Context) (*Report, error) {
	jobID := uuid.NewString()[:8]
	now := s.now()

	candidates, err := s.users.ListDailyReminderTargets(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []*userdomain.User
	for _, user := range candidates {
		if calendar.LocalHour(now, user.Timezone) == s.reminderHour {
			eligible = append(eligible, user)
		}
	}

	log.Printf("[Notify:%s] Daily reminder: %d candidates, %d at local hour %d", jobID, len(candidates), len(eligible), s.reminderHour)

	var sent, failed int64
	var wg sync.WaitGroup
	for _, user := range eligible {
		wg.Add(1)
		go func(user *userdomain.User) {
			defer wg.Done()
			payload := fcm.NotificationData{
				Title: "오늘의 일기",
				Body:  dailyReminderBody(user.Name),
				Data:  map[string]string{"type": "daily_reminder", "click_action": "/diary/new"},
			}
			if err := s.deliver(ctx, user, payload, "오늘의 일기를 쓸 시간이에요"); err != nil {
				atomic.AddInt64(&failed, 1)
				log.Printf("[Notify:%s] Delivery to %s failed: %v", jobID, user.ID, err)
				return
			}
			atomic.AddInt64(&sent, 1)
		}(user)
	}
	wg.Wait()

	report := &Report{JobID: jobID, Eligible: len(eligible), Sent: int(sent), Failed: int(failed)}
	log.Printf("[Notify:%s] Daily reminder done: %d sent, %d failed", jobID, report.Sent, report.Failed)
	return report, nil
}

// RunWeeklyDigest tells opted-in users on Sunday evening that last week's
// diary is ready to become a novel. The push payload is identical for
// every recipient, so device deliveries go out in FCM batches; users
// without a device token get the email fallback. At most one digest per
// ISO week.
func (s *Service) RunWeeklyDigest(ctx context.Context) (*Report, error) {
	jobID := uuid.NewString()[:8]
	now := s.now()

	s.mu.Lock()
	if !s.lastDigest.IsZero() && calendar.SameISOWeek(s.lastDigest, now) {
		s.mu.Unlock()
		log.Printf("[Notify:%s] Weekly digest already sent this week, skipping", jobID)
		return &Report{JobID: jobID, Skipped: true}, nil
	}
	s.lastDigest = now
	s.mu.Unlock()

	candidates, err := s.users.ListWeeklyDigestTargets(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []*userdomain.User
	for _, user := range candidates {
		local := calendar.LocalTime(now, user.Timezone)
		if local.Weekday() == time.Sunday && local.Hour() == s.reminderHour {
			eligible = append(eligible, user)
		}
	}

	weekStart := calendar.StartOfISOWeek(now)
	payload := fcm.NotificationData{
		Title: "이번 주 소설이 준비됐어요",
		Body:  digestBody(weekStart),
		Data:  map[string]string{"type": "weekly_digest", "click_action": "/novels"},
	}

	log.Printf("[Notify:%s] Weekly digest: %d candidates, %d eligible", jobID, len(candidates), len(eligible))

	var batch []fcm.Message
	tokenOwner := make(map[string]*userdomain.User)
	var mailTargets []*userdomain.User
	for _, user := range eligible {
		if user.DeviceToken != "" {
			batch = append(batch, fcm.Message{Token: user.DeviceToken, Notification: payload})
			tokenOwner[user.DeviceToken] = user
		} else if user.Email != "" {
			mailTargets = append(mailTargets, user)
		}
	}

	var sent, failed int64
	for start := 0; start < len(batch); start += fcm.MaxBatchSize {
		end := min(start+fcm.MaxBatchSize, len(batch))
		result, err := s.pusher.SendBatch(ctx, batch[start:end])
		if err != nil {
			failed += int64(end - start)
			log.Printf("[Notify:%s] Digest batch failed: %v", jobID, err)
			continue
		}
		sent += int64(result.SuccessCount)
		for _, token := range result.FailedTokens {
			s.dropToken(ctx, token)
			// The push channel is gone for this user; try mail.
			if user := tokenOwner[token]; user != nil && user.Email != "" {
				mailTargets = append(mailTargets, user)
			} else {
				failed++
			}
		}
	}

	var wg sync.WaitGroup
	for _, user := range mailTargets {
		wg.Add(1)
		go func(user *userdomain.User) {
			defer wg.Done()
			if err := s.sendDigestMail(ctx, user, weekStart); err != nil {
				atomic.AddInt64(&failed, 1)
				log.Printf("[Notify:%s] Digest mail to %s failed: %v", jobID, user.ID, err)
				return
			}
			atomic.AddInt64(&sent, 1)
		}(user)
	}
	wg.Wait()

	report := &Report{JobID: jobID, Eligible: len(eligible), Sent: int(sent), Failed: int(failed)}
	log.Printf("[Notify:%s] Weekly digest done: %d sent, %d failed", jobID, report.Sent, report.Failed)
	return report, nil
}

// SendTestPush sends an on-demand push to the caller's own device.
func (s *Service) SendTestPush(ctx context.Context, userID string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.DeviceToken == "" {
		return fmt.Errorf("user %s has no registered device", userID)
	}
	return s.pusher.SendToDevice(ctx, user.DeviceToken, fcm.NotificationData{
		Title: "알림 테스트",
		Body:  "푸시 알림이 정상적으로 도착했어요.",
		Data:  map[string]string{"type": "test"},
	})
}

// deliver pushes to the user's device, clearing the token and falling back
// to email when the push fails or no device is registered.
func (s *Service) deliver(ctx context.Context, user *userdomain.User, payload fcm.NotificationData, mailText string) error {
	if user.DeviceToken != "" {
		err := s.pusher.SendToDevice(ctx, user.DeviceToken, payload)
		if err == nil {
			return nil
		}
		s.dropToken(ctx, user.DeviceToken)
	}
	if user.Email == "" {
		return fmt.Errorf("no reachable channel for user %s", user.ID)
	}
	return s.mailer.SendMail(ctx, user.Email, payload.Title, mailText, "")
}

func (s *Service) dropToken(ctx context.Context, token string) {
	if err := s.users.ClearDeviceToken(ctx, token); err != nil {
		log.Printf("[Notify] Failed to clear stale device token: %v", err)
	}
}

func (s *Service) sendDigestMail(ctx context.Context, user *userdomain.User, weekStart time.Time) error {
	local := calendar.LocalTime(weekStart, user.Timezone)
	text := fmt.Sprintf("%s님, %s 주의 일기가 모두 모였어요. 지금 소설로 만들어 보세요.", displayName(user.Name), local.Format("1월 2일"))
	return s.mailer.SendMail(ctx, user.Email, "이번 주 소설이 준비됐어요", text, "")
}

func dailyReminderBody(name string) string {
	return fmt.Sprintf("%s님, 오늘 하루는 어땠나요? 잠들기 전에 일기로 남겨 보세요.", displayName(name))
}

func digestBody(weekStart time.Time) string {
	return fmt.Sprintf("%s 주의 일기 일곱 편이 모였어요. 소설로 만들어 보세요.", weekStart.Format("1월 2일"))
}

func displayName(name string) string {
	if name == "" {
		return "작가"
	}
	return name
}
