// ABOUTME: Sweeper deletes expired sessions and decays preferences on a cron schedule
// ABOUTME: Run blocks until its context is cancelled
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/harper/tweak-my-meal/internal/storage"
	"go.uber.org/zap"
)

// SweepStats reports what one sweep changed
type SweepStats struct {
	SessionsDeleted int64
	FactsDecayed    int64
}

// Sweeper runs periodic storage maintenance
type Sweeper struct {
	storage  *storage.Storage
	expr     string
	decay    float64
	interval time.Duration
	isDue    func(expr string, ref ...time.Time) (bool, error)
	logger   *zap.Logger
}

// NewSweeper creates a Sweeper for the cron expression expr. A decay of 1
// leaves preferences untouched.
func NewSweeper(store *storage.Storage, expr string, decay float64, logger *zap.Logger) (*Sweeper, error) {
	if !gronx.IsValid(expr) {
		return nil, fmt.Errorf("invalid sweep schedule %q", expr)
	}
	g := gronx.New()
	return &Sweeper{
		storage:  store,
		expr:     expr,
		decay:    decay,
		interval: time.Minute,
		isDue:    g.IsDue,
		logger:   logging.OrNop(logger).Named("sweeper"),
	}, nil
}

// Sweep runs one maintenance pass
func (s *Sweeper) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	deleted, err := s.storage.Sessions.DeleteExpired(ctx)
	if err != nil {
		return stats, err
	}
	stats.SessionsDeleted = deleted

	if s.decay > 0 && s.decay < 1 {
		decayed, err := s.storage.Preferences.Decay(ctx, s.decay)
		if err != nil {
			return stats, err
		}
		stats.FactsDecayed = decayed
	}
	return stats, nil
}

// Run checks the schedule every interval and sweeps when it is due
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", zap.String("schedule", s.expr))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case now := <-ticker.C:
			due, err := s.isDue(s.expr, now.Truncate(time.Minute))
			if err != nil {
				s.logger.Error("checking sweep schedule", zap.Error(err))
				continue
			}
			if !due {
				continue
			}
			stats, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
				continue
			}
			s.logger.Debug("sweep complete",
				zap.Int64("sessions_deleted", stats.SessionsDeleted),
				zap.Int64("facts_decayed", stats.FactsDecayed))
		}
	}
}
