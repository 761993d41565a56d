package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSessionPurgeSchedule runs the purge hourly
const DefaultSessionPurgeSchedule = "@every 1h"

// SessionStore removes expired sessions
type SessionStore interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionPurgerConfig holds configuration for the session purger
type SessionPurgerConfig struct {
	// Schedule is a standard five-field cron expression
	Schedule string
	// Timeout bounds a single purge run
	Timeout time.Duration
}

// DefaultSessionPurgerConfig returns default session purger configuration
func DefaultSessionPurgerConfig() SessionPurgerConfig {
	return SessionPurgerConfig{
		Schedule: DefaultSessionPurgeSchedule,
		Timeout:  time.Minute,
	}
}

// SessionPurger periodically deletes sessions past their expiry
type SessionPurger struct {
	config SessionPurgerConfig
	store  SessionStore
	logger *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewSessionPurger creates a session purger; an unparsable schedule is an error
func NewSessionPurger(config SessionPurgerConfig, store SessionStore, logger *zap.Logger) (*SessionPurger, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultSessionPurgeSchedule
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}

	p := &SessionPurger{
		config: config,
		store:  store,
		logger: logger,
		cron:   cron.New(cron.WithLocation(time.UTC)),
	}
	if _, err := p.cron.AddFunc(config.Schedule, func() { p.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("%w: session purge schedule %q: %v", ErrInvalidConfig, config.Schedule, err)
	}
	return p, nil
}

// Start starts the cron loop
func (p *SessionPurger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return
	}
	p.isRunning = true
	p.cron.Start()

	p.logger.Info("Session purger started", zap.String("schedule", p.config.Schedule))
}

// Stop stops scheduling and waits for a running purge to finish or ctx to end
func (p *SessionPurger) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	done := p.cron.Stop()
	select {
	case <-done.Done():
		p.logger.Info("Session purger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the cron loop is active
func (p *SessionPurger) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

// RunOnce purges expired sessions immediately
func (p *SessionPurger) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := p.store.PurgeExpiredSessions(ctx)
	if err != nil {
		p.logger.Error("Failed to purge expired sessions", zap.Error(err))
		return
	}
	p.logger.Info("Expired sessions purged",
		zap.Int64("count", n),
		zap.Duration("duration", time.Since(start)),
	)
}
