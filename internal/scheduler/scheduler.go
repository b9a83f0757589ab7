package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"StockBoard/internal/store"
)

// Scheduler runs the out-of-band maintenance tasks, currently the age-based
// cache purge that keeps the database size manageable.
type Scheduler struct {
	Cron      *cron.Cron
	Store     store.Store
	Retention time.Duration
}

// New creates a Scheduler purging rows older than retentionDays.
func New(st store.Store, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Store:     st,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Register schedules the purge task.
func (s *Scheduler) Register(purgeCron string) error {
	if _, err := s.Cron.AddFunc(purgeCron, s.RunPurge); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunPurge deletes cached rows older than the retention window.
func (s *Scheduler) RunPurge() {
	cutoff := time.Now().Add(-s.Retention)
	n, err := s.Store.PurgeOlderThan(cutoff)
	if err != nil {
		log.Printf("[ERROR] purge: %v", err)
		return
	}
	log.Printf("[INFO] purged %d rows older than %s", n, cutoff.Format(time.RFC3339))
}
