package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Lock TTL bounds how long a crashed instance can block sync on its peers
const syncLockTTL = 10 * time.Minute

// SchedulerService runs the background provider sync on a cron schedule
type SchedulerService struct {
	scheduler  gocron.Scheduler
	sync       *SyncService
	users      *UserService
	redis      *RedisService
	cronExpr   string
	instanceID string
}

// NewSchedulerService creates the background sync scheduler. The cron
// expression is validated up front so a bad config fails at startup, not at
// first trigger.
func NewSchedulerService(syncService *SyncService, users *UserService, redis *RedisService, cronExpr string) (*SchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid sync cron expression %q: %w", cronExpr, err)
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &SchedulerService{
		scheduler:  scheduler,
		sync:       syncService,
		users:      users,
		redis:      redis,
		cronExpr:   cronExpr,
		instanceID: uuid.New().String(),
	}, nil
}

// Start registers the sync job and starts the scheduler
func (s *SchedulerService) Start() error {
	log.Println("⏰ Starting scheduler service...")

	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(func() {
			s.runSync()
		}),
		gocron.WithName("provider-sync"),
	)
	if err != nil {
		return fmt.Errorf("failed to register sync job: %w", err)
	}

	s.scheduler.Start()
	log.Printf("✅ Scheduler service started (sync cron: %s)", s.cronExpr)
	return nil
}

// Stop shuts the scheduler down
func (s *SchedulerService) Stop() error {
	log.Println("⏹️ Stopping scheduler service...")
	return s.scheduler.Shutdown()
}

// runSync fans the provider sync out over all users. With Redis available,
// a lock keeps multiple instances from syncing the same cycle twice.
func (s *SchedulerService) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if s.redis != nil {
		acquired, err := s.redis.client.SetNX(ctx, "sync:cycle-lock", s.instanceID, syncLockTTL).Result()
		if err != nil {
			log.Printf("⚠️  [SCHEDULER] Sync lock check failed: %v", err)
		} else if !acquired {
			log.Println("⏭️  [SCHEDULER] Another instance holds the sync lock, skipping cycle")
			return
		}
		defer func() {
			if err := s.redis.Delete(context.Background(), "sync:cycle-lock"); err != nil {
				log.Printf("⚠️  [SCHEDULER] Failed to release sync lock: %v", err)
			}
		}()
	}

	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		log.Printf("❌ [SCHEDULER] Failed to list users for sync: %v", err)
		return
	}

	log.Printf("🔄 [SCHEDULER] Running background sync for %d user(s)", len(userIDs))
	for _, userID := range userIDs {
		counts := s.sync.SyncAll(ctx, userID)
		if len(counts) > 0 {
			log.Printf("🔄 [SCHEDULER] Synced user %s: %v", userID, counts)
		}
	}
}
