package delay

import (
	"context"
	"math/rand"
	"time"
)

// Sleep ждёт d или отмену контекста. d <= 0 возвращает сразу.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Between равномерно случайная длительность в [min, max].
func Between(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// Random спит случайное время из [min, max].
func Random(ctx context.Context, min, max time.Duration) error {
	return Sleep(ctx, Between(min, max))
}
