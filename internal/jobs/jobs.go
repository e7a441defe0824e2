package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Store is what the scheduled jobs need from storage.
type Store interface {
	PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error)
	MaterializeRecurring(ctx context.Context, today models.Date) (int, error)
}

// jobTimeout bounds a single run so a stuck query cannot pile up runs.
const jobTimeout = 5 * time.Minute

// Scheduler runs the periodic maintenance jobs on a robfig/cron scheduler.
type Scheduler struct {
	cron  *cron.Cron
	store Store
	now   func() time.Time
}

func New(store Store) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		store: store,
		now:   time.Now,
	}
}

// Register adds the session purge and recurring-transaction jobs with the
// given cron specs (standard five-field or descriptors such as "@hourly").
func (s *Scheduler) Register(sessionPurgeSpec, recurringSpec string) error {
	if _, err := s.cron.AddFunc(sessionPurgeSpec, s.PurgeSessions); err != nil {
		return fmt.Errorf("ошибка настройки CRON-задачи очистки сессий: %w", err)
	}
	if _, err := s.cron.AddFunc(recurringSpec, s.MaterializeRecurring); err != nil {
		return fmt.Errorf("ошибка настройки CRON-задачи повторяющихся транзакций: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("Остановка планировщика: задачи не завершились вовремя")
	}
}

// PurgeSessions deletes sessions that expired or were revoked more than a day ago.
func (s *Scheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.store.PurgeExpiredSessions(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("Ошибка очистки сессий: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Удалено устаревших сессий: %d", n)
	}
}

// MaterializeRecurring adds the occurrences of recurring series due by today.
func (s *Scheduler) MaterializeRecurring() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.store.MaterializeRecurring(ctx, models.DateOf(s.now()))
	if err != nil {
		log.Printf("Ошибка добавления повторяющихся транзакций: %v", err)
		return
	}
	log.Printf("Повторяющиеся транзакции: добавлено %d", n)
}
