package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSessionStore struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakeSessionStore) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("purge ran without a deadline")
	}
	return f.n, f.err
}

func TestDefaultSessionPurgerConfig(t *testing.T) {
	cfg := DefaultSessionPurgerConfig()
	assert.Equal(t, "@every 1h", cfg.Schedule)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestNewSessionPurger_InvalidSchedule(t *testing.T) {
	_, err := NewSessionPurger(SessionPurgerConfig{Schedule: "every tuesday"}, &fakeSessionStore{}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSessionPurger_Defaults(t *testing.T) {
	p, err := NewSessionPurger(SessionPurgerConfig{}, &fakeSessionStore{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionPurgeSchedule, p.config.Schedule)
	assert.Equal(t, time.Minute, p.config.Timeout)
}

func TestSessionPurger_RunOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := &fakeSessionStore{n: 4}
	p, err := NewSessionPurger(DefaultSessionPurgerConfig(), store, zap.New(core))
	require.NoError(t, err)

	p.RunOnce(context.Background())

	assert.EqualValues(t, 1, store.calls.Load())
	entries := logs.FilterMessage("Expired sessions purged").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 4, entries[0].ContextMap()["count"])
}

func TestSessionPurger_RunOnce_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := &fakeSessionStore{err: errors.New("database is down")}
	p, err := NewSessionPurger(DefaultSessionPurgerConfig(), store, zap.New(core))
	require.NoError(t, err)

	p.RunOnce(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("Failed to purge expired sessions").Len())
	assert.Equal(t, 0, logs.FilterMessage("Expired sessions purged").Len())
}

func TestSessionPurger_StartStop(t *testing.T) {
	p, err := NewSessionPurger(DefaultSessionPurgerConfig(), &fakeSessionStore{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsRunning())
	p.Start()
	p.Start()
	assert.True(t, p.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))
	assert.False(t, p.IsRunning())

	// stopping twice is a no-op
	assert.NoError(t, p.Stop(ctx))
}
