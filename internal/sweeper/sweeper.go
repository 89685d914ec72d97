// Package sweeper periodically purges expired login tokens. An expired
// token is never redeemable, so removal cannot race a successful redemption.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anhtnguyen/historylab/internal/metrics"
	"github.com/anhtnguyen/historylab/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	tokens repository.TokenRepository
	logger *slog.Logger
	spec   string
	cron   *cron.Cron
}

func New(tokens repository.TokenRepository, logger *slog.Logger, spec string) *Sweeper {
	return &Sweeper{
		tokens: tokens,
		logger: logger.With("component", "token_sweeper"),
		spec:   spec,
	}
}

// Start schedules the sweep and returns immediately. The spec is a standard
// cron expression or a descriptor like "@hourly".
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return fmt.Errorf("schedule token sweep %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("token sweeper started", "schedule", s.spec)
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.logger.Info("token sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("sweep expired tokens", "error", err)
		return
	}
	if n > 0 {
		metrics.TokensSweptTotal.Add(float64(n))
		s.logger.Info("swept expired login tokens", "count", n)
	}
}
