package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/pkg/fcm"
)

type fakePusher struct {
	mu        sync.Mutex
	sent      []string
	failWith  map[string]error
	batchSent int
}

func (f *fakePusher) SendToDevice(_ context.Context, token string, _ fcm.NotificationData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failWith[token]; err != nil {
		return err
	}
	f.sent = append(f.sent, token)
	return nil
}

func (f *fakePusher) SendBatch(_ context.Context, messages []fcm.Message) (*fcm.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchSent++
	result := &fcm.BatchResult{}
	for _, m := range messages {
		if f.failWith[m.Token] != nil {
			result.FailureCount++
			result.FailedTokens = append(result.FailedTokens, m.Token)
			continue
		}
		result.SuccessCount++
		f.sent = append(f.sent, m.Token)
	}
	return result, nil
}

type fakeMailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailSender) SendMail(_ context.Context, to, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeDirectory struct {
	mu      sync.Mutex
	users   []*userdomain.User
	cleared []string
}

func (f *fakeDirectory) Get(_ context.Context, id string) (*userdomain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) ListDailyReminderTargets(context.Context) ([]*userdomain.User, error) {
	return f.users, nil
}

func (f *fakeDirectory) ListWeeklyDigestTargets(context.Context) ([]*userdomain.User, error) {
	return f.users, nil
}

func (f *fakeDirectory) ClearDeviceToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, token)
	return nil
}

// 21:00 KST on a Sunday.
var sundayEvening = time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

func newTestService(pusher *fakePusher, mail *fakeMailSender, dir *fakeDirectory, at time.Time) *Service {
	s := NewService(pusher, mail, dir, 21)
	s.now = func() time.Time { return at }
	return s
}

func TestDailyReminderCountsPartialFailures(t *testing.T) {
	dir := &fakeDirectory{users: []*userdomain.User{
		{ID: "a", DeviceToken: "tok-a", Timezone: "Asia/Seoul"},
		{ID: "b", DeviceToken: "tok-b", Timezone: "Asia/Seoul"},
		{ID: "c", DeviceToken: "tok-c", Timezone: "Asia/Seoul"},
	}}
	pusher := &fakePusher{failWith: map[string]error{"tok-b": errors.New("unregistered")}}
	s := newTestService(pusher, &fakeMailSender{}, dir, sundayEvening)

	report, err := s.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if report.Eligible != 3 || report.Sent != 2 || report.Failed != 1 {
		t.Fatalf("report = %+v, want 3 eligible, 2 sent, 1 failed", report)
	}
	if len(dir.cleared) != 1 || dir.cleared[0] != "tok-b" {
		t.Fatalf("cleared tokens = %v, want [tok-b]", dir.cleared)
	}
}

func TestDailyReminderFiltersByLocalHour(t *testing.T) {
	// At the reference instant it is 21:00 in Seoul but 13:00 in London.
	dir := &fakeDirectory{users: []*userdomain.User{
		{ID: "seoul", DeviceToken: "tok-seoul", Timezone: "Asia/Seoul"},
		{ID: "london", DeviceToken: "tok-london", Timezone: "Europe/London"},
	}}
	pusher := &fakePusher{}
	s := newTestService(pusher, &fakeMailSender{}, dir, sundayEvening)

	report, err := s.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if report.Eligible != 1 || report.Sent != 1 {
		t.Fatalf("report = %+v, want only the Seoul user", report)
	}
	if len(pusher.sent) != 1 || pusher.sent[0] != "tok-seoul" {
		t.Fatalf("sent = %v", pusher.sent)
	}
}

func TestDailyReminderFallsBackToMail(t *testing.T) {
	dir := &fakeDirectory{users: []*userdomain.User{
		{ID: "a", Email: "a@example.com", Timezone: "Asia/Seoul"},
	}}
	mail := &fakeMailSender{}
	s := newTestService(&fakePusher{}, mail, dir, sundayEvening)

	report, err := s.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if report.Sent != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(mail.sent) != 1 || mail.sent[0] != "a@example.com" {
		t.Fatalf("mail sent = %v", mail.sent)
	}
}

func TestWeeklyDigestBatchesAndFallsBack(t *testing.T) {
	dir := &fakeDirectory{users: []*userdomain.User{
		{ID: "a", DeviceToken: "tok-a", Timezone: "Asia/Seoul"},
		{ID: "b", DeviceToken: "tok-b", Email: "b@example.com", Timezone: "Asia/Seoul"},
		{ID: "c", Email: "c@example.com", Timezone: "Asia/Seoul"},
		{ID: "monday", DeviceToken: "tok-m", Timezone: "Pacific/Auckland"}, // already Monday there
	}}
	pusher := &fakePusher{failWith: map[string]error{"tok-b": errors.New("unregistered")}}
	mail := &fakeMailSender{}
	s := newTestService(pusher, mail, dir, sundayEvening)

	report, err := s.RunWeeklyDigest(context.Background())
	if err != nil {
		t.Fatalf("RunWeeklyDigest: %v", err)
	}
	if report.Eligible != 3 {
		t.Fatalf("eligible = %d, want 3 (Auckland user excluded)", report.Eligible)
	}
	// a by push, b and c by mail after b's token went stale.
	if report.Sent != 3 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if pusher.batchSent != 1 {
		t.Fatalf("batchSent = %d", pusher.batchSent)
	}
	if len(dir.cleared) != 1 || dir.cleared[0] != "tok-b" {
		t.Fatalf("cleared = %v", dir.cleared)
	}
	if len(mail.sent) != 2 {
		t.Fatalf("mail sent = %v", mail.sent)
	}
}

func TestWeeklyDigestSendsOncePerISOWeek(t *testing.T) {
	dir := &fakeDirectory{users: []*userdomain.User{
		{ID: "a", DeviceToken: "tok-a", Timezone: "Asia/Seoul"},
	}}
	pusher := &fakePusher{}
	s := newTestService(pusher, &fakeMailSender{}, dir, sundayEvening)

	first, err := s.RunWeeklyDigest(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Skipped || first.Sent != 1 {
		t.Fatalf("first report = %+v", first)
	}

	second, err := s.RunWeeklyDigest(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Skipped {
		t.Fatalf("second report = %+v, want skipped", second)
	}
	if len(pusher.sent) != 1 {
		t.Fatalf("sent = %v, want exactly one delivery", pusher.sent)
	}
}

func TestSendTestPushRequiresDevice(t *testing.T) {
	dir := &fakeDirectory{users: []*userdomain.User{{ID: "a"}}}
	s := newTestService(&fakePusher{}, &fakeMailSender{}, dir, sundayEvening)
	if err := s.SendTestPush(context.Background(), "a"); err == nil {
		t.Fatal("expected an error for a user without a device")
	}
}
