package delay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestSleep_NonPositive(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), -time.Second))
	require.NoError(t, Sleep(context.Background(), 0))
}

func TestBetween(t *testing.T) {
	for i := 0; i < 1000; i++ {
		d := Between(10*time.Second, 20*time.Second)
		require.GreaterOrEqual(t, d, 10*time.Second)
		require.LessOrEqual(t, d, 20*time.Second)
	}
	require.Equal(t, 5*time.Second, Between(5*time.Second, 5*time.Second))
}
