package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiterWithinBudget(t *testing.T) {
	l := NewTokenLimiter(100)

	require.NoError(t, l.Wait(context.Background(), 40))
	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiterDisabled(t *testing.T) {
	l := NewTokenLimiter(0)

	require.NoError(t, l.Wait(context.Background(), 1_000_000))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiterOversizedRequestAdmittedAlone(t *testing.T) {
	l := NewTokenLimiter(100)

	// A request bigger than the whole budget still proceeds on a fresh
	// window instead of blocking forever.
	require.NoError(t, l.Wait(context.Background(), 500))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiterBlocksUntilCancelled(t *testing.T) {
	l := NewTokenLimiter(100)
	require.NoError(t, l.Wait(context.Background(), 100))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenLimiterGetRemaining(t *testing.T) {
	l := NewTokenLimiter(100)
	assert.Equal(t, 100, l.GetRemaining())

	require.NoError(t, l.Wait(context.Background(), 30))
	assert.Equal(t, 70, l.GetRemaining())
}
