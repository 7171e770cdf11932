// Package scheduler runs periodic maintenance. Its only job today is
// reclaiming storage from expired idempotency records; lookup-time filtering
// already makes those invisible, so nothing here affects correctness.
package scheduler

import (
	"context"
	"errors"
	"time"

	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependencies")

type Params struct {
	fx.In

	Log            *zap.Logger
	IdempotencySvc idemdomain.Service
	Config         Config `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	idemSvc idemdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.IdempotencySvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:     p.Log.Named("scheduler"),
		cfg:     p.Config.withDefaults(),
		idemSvc: p.IdempotencySvc,
	}, nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunCleanup(ctx); err != nil {
				s.log.Error("cleanup run failed", zap.Error(err))
			}
		}
	}
}

// RunCleanup deletes expired records in bounded batches so one run never
// holds a large scan open.
func (s *Scheduler) RunCleanup(ctx context.Context) error {
	start := time.Now()
	var total int64

	for batch := 0; batch < s.cfg.MaxBatchesPerRun; batch++ {
		deleted, err := s.idemSvc.DeleteExpired(ctx, s.cfg.CleanupBatchSize)
		if err != nil {
			return err
		}
		total += deleted
		if deleted < int64(s.cfg.CleanupBatchSize) {
			break
		}
	}

	if total > 0 {
		s.log.Info("expired idempotency records removed",
			zap.Int64("deleted", total),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
	return nil
}
