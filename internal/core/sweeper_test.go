// ABOUTME: Tests for the maintenance sweeper
// ABOUTME: Checks session expiry, preference decay, and clean shutdown
package core

import (
	"context"
	"testing"
	"time"

	"github.com/harper/tweak-my-meal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestNewSweeper_RejectsBadSchedule(t *testing.T) {
	_, err := NewSweeper(newHydratorStorage(t), "every tuesday", 1, zap.NewNop())
	assert.Error(t, err)
}

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	store := newHydratorStorage(t)

	start := time.Now()
	clock := start
	store.Sessions.SetClock(func() time.Time { return clock })
	require.NoError(t, store.Sessions.Put(ctx, models.NewSessionState("old", "u1")))
	clock = start.Add(23 * time.Hour)
	require.NoError(t, store.Sessions.Put(ctx, models.NewSessionState("fresh", "u1")))
	clock = start.Add(25 * time.Hour)

	require.NoError(t, store.Preferences.ApplyDelta(ctx, "u1", "likes:spicy", 1.0, ""))

	sweeper, err := NewSweeper(store, "*/15 * * * *", 0.5, zap.NewNop())
	require.NoError(t, err)

	stats, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SessionsDeleted)
	assert.Equal(t, int64(1), stats.FactsDecayed)

	_, err = store.Sessions.Get(ctx, "fresh")
	assert.NoError(t, err)

	fact, err := store.Preferences.Get(ctx, "u1", "likes:spicy")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fact.Strength, 1e-9)
}

func TestSweeper_NoDecayByDefault(t *testing.T) {
	ctx := context.Background()
	store := newHydratorStorage(t)
	require.NoError(t, store.Preferences.ApplyDelta(ctx, "u1", "likes:spicy", 1.0, ""))

	sweeper, err := NewSweeper(store, "* * * * *", 1, zap.NewNop())
	require.NoError(t, err)

	stats, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.FactsDecayed)

	fact, err := store.Preferences.Get(ctx, "u1", "likes:spicy")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fact.Strength, 1e-9)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	store := newHydratorStorage(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sweeper, err := NewSweeper(store, "* * * * *", 1, zap.NewNop())
	require.NoError(t, err)
	sweeper.interval = 5 * time.Millisecond
	sweeper.isDue = func(string, ...time.Time) (bool, error) { return true, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
