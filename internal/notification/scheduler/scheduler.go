// Package scheduler triggers the periodic jobs. In production Cloud
// Scheduler publishes to a Pub/Sub topic and the scheduler consumes the
// subscription; without a configured topic an in-process cron runs the
// same jobs.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"novelog-backend/internal/notification"
	"novelog-backend/internal/user/usecase"

	"cloud.google.com/go/pubsub"
	"github.com/robfig/cron/v3"
	"google.golang.org/api/option"
)

const (
	JobDailyReminder = "daily-reminder"
	JobWeeklyDigest  = "weekly-digest"
	JobPremiumSweep  = "premium-sweep"
)

// triggerMessage is the payload Cloud Scheduler publishes per job.
type triggerMessage struct {
	Job string `json:"job"`
}

type Scheduler struct {
	notifications *notification.Service
	users         usecase.UserUsecase
	pubsubClient  *pubsub.Client
	subName       string
	cron          *cron.Cron
}

// New builds a Pub/Sub-driven scheduler when projectID and topic are set,
// or an in-process cron fallback otherwise.
func New(ctx context.Context, notifications *notification.Service, users usecase.UserUsecase, projectID, topic, credentialsFile string) (*Scheduler, error) {
	s := &Scheduler{notifications: notifications, users: users}

	if projectID != "" && topic != "" {
		var opts []option.ClientOption
		if credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
		client, err := pubsub.NewClient(ctx, projectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create pubsub client: %w", err)
		}
		s.pubsubClient = client
		s.subName = topic + "-sub"
		return s, nil
	}

	s.cron = cron.New()
	return s, nil
}

// Start runs the trigger loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.pubsubClient != nil {
		go s.receive(ctx)
		return
	}

	// Eligibility is per-timezone, so the reminder jobs run hourly and
	// filter inside; the sweep runs once a day.
	s.cron.AddFunc("0 * * * *", func() { s.dispatch(context.Background(), JobDailyReminder) })
	s.cron.AddFunc("0 * * * *", func() { s.dispatch(context.Background(), JobWeeklyDigest) })
	s.cron.AddFunc("0 3 * * *", func() { s.dispatch(context.Background(), JobPremiumSweep) })
	s.cron.Start()
	log.Println("[Scheduler] In-process cron started")

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
}

func (s *Scheduler) receive(ctx context.Context) {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[Scheduler] Failed to check subscription %s: %v", s.subName, err)
		return
	}
	if !exists {
		log.Printf("[Scheduler] Subscription %s does not exist, falling back to idle", s.subName)
		return
	}

	log.Printf("[Scheduler] Listening on subscription %s", s.subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		var trigger triggerMessage
		if err := json.Unmarshal(msg.Data, &trigger); err != nil {
			log.Printf("[Scheduler] Dropping malformed trigger: %v", err)
			msg.Ack()
			return
		}
		s.dispatch(ctx, trigger.Job)
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("[Scheduler] Receive stopped: %v", err)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, job string) {
	switch job {
	case JobDailyReminder:
		if _, err := s.notifications.RunDailyReminder(ctx); err != nil {
			log.Printf("[Scheduler] Daily reminder failed: %v", err)
		}
	case JobWeeklyDigest:
		if _, err := s.notifications.RunWeeklyDigest(ctx); err != nil {
			log.Printf("[Scheduler] Weekly digest failed: %v", err)
		}
	case JobPremiumSweep:
		if n, err := s.users.SweepExpiredPremium(ctx, time.Now()); err != nil {
			log.Printf("[Scheduler] Premium sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("[Scheduler] Premium sweep downgraded %d users", n)
		}
	default:
		log.Printf("[Scheduler] Unknown job %q", job)
	}
}
