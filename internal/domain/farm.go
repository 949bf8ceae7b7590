package domain

import "time"

// DefaultFarmDuration 8 часов, FARM_TIME_IN_SECONDS по умолчанию.
const DefaultFarmDuration = 28800 * time.Second

type FarmStage int

const (
	FarmNeedStart FarmStage = iota // started_at пустой, фарм не запущен
	FarmActive                     // finish_at в будущем
	FarmDue                        // пора клеймить
)

func (s FarmStage) String() string {
	switch s {
	case FarmNeedStart:
		return "need_start"
	case FarmActive:
		return "active"
	case FarmDue:
		return "due"
	default:
		return "unknown"
	}
}

// FarmState то, что вендор отдаёт про фарм. StartedAt в миллисекундах.
type FarmState struct {
	StartedAt *int64
}

// FinishAt = ceil(started_at/1000) + duration.
func (s FarmState) FinishAt(duration time.Duration) (time.Time, bool) {
	if s.StartedAt == nil {
		return time.Time{}, false
	}
	ms := *s.StartedAt
	sec := ms / 1000
	if ms%1000 > 0 {
		sec++
	}
	return time.Unix(sec, 0).Add(duration), true
}

func (s FarmState) Stage(now time.Time, duration time.Duration) FarmStage {
	finish, ok := s.FinishAt(duration)
	if !ok {
		return FarmNeedStart
	}
	if finish.After(now) {
		return FarmActive
	}
	return FarmDue
}

// Remaining сколько ждать до finish_at, никогда не отрицательное.
func (s FarmState) Remaining(now time.Time, duration time.Duration) time.Duration {
	finish, ok := s.FinishAt(duration)
	if !ok {
		return 0
	}
	d := finish.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
