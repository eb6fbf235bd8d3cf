// Package scheduler runs periodic store maintenance alongside the main loop.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/climatesense/climatesense/internal/store"
)

// Maintenance periodically prunes the memory store down to its configured
// retention limits. With both limits at zero the store is append-only and no
// job is scheduled.
type Maintenance struct {
	scheduler  *gocron.Scheduler
	store      *store.FileStore
	interval   time.Duration
	maxHistory int
	maxAge     time.Duration
	logger     *slog.Logger
}

func NewMaintenance(st *store.FileStore, interval time.Duration, maxHistory int, maxAge time.Duration, logger *slog.Logger) *Maintenance {
	return &Maintenance{
		scheduler:  gocron.NewScheduler(time.UTC),
		store:      st,
		interval:   interval,
		maxHistory: maxHistory,
		maxAge:     maxAge,
		logger:     logger,
	}
}

// Start schedules the pruning job and starts the underlying scheduler.
func (m *Maintenance) Start() error {
	if m.maxHistory <= 0 && m.maxAge <= 0 {
		m.logger.Info("store retention unlimited; maintenance job not scheduled")
		return nil
	}

	seconds := int(m.interval.Seconds())
	if seconds <= 0 {
		seconds = int(time.Hour.Seconds())
	}

	_, err := m.scheduler.Every(seconds).Seconds().Do(func() {
		removed, err := m.store.Prune(m.maxHistory, m.maxAge)
		if err != nil {
			m.logger.Error("store maintenance failed", "error", err)
			return
		}
		if removed > 0 {
			m.logger.Info("store maintenance pruned records", "removed", removed)
		}
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (m *Maintenance) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}
