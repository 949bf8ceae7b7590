package useCases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/pkg/delay"
)

const (
	// пауза после неизвестной ошибки в цикле
	loopErrorDelay = 10 * time.Second
	// перед таким сном отпускаем HTTP-соединения
	longSleep = time.Minute
)

// Policy один шаг игровой логики. Возвращает, сколько спать до следующего шага.
type Policy interface {
	Name() string
	Step(ctx context.Context, initData domain.InitData) (time.Duration, error)
}

type initDataSource interface {
	Extract(ctx context.Context) (domain.InitData, error)
	Close()
}

type idleCloser interface {
	CloseIdleConnections()
}

// Scheduler цикл одной сессии: init data один раз, дальше шаги политики до отмены или InvalidSession.
type Scheduler struct {
	auth   initDataSource
	policy Policy
	idle   idleCloser
	log    *slog.Logger

	errorDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewScheduler(auth initDataSource, policy Policy, idle idleCloser, log *slog.Logger) *Scheduler {
	return &Scheduler{
		auth:       auth,
		policy:     policy,
		idle:       idle,
		log:        log,
		errorDelay: loopErrorDelay,
		sleep:      delay.Sleep,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	defer s.auth.Close()

	initData, err := s.auth.Extract(ctx)
	if err != nil {
		return err
	}
	s.log.Info("init data received", "policy", s.policy.Name(), "user_id", initData.User.ID)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := s.policy.Step(ctx, initData)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidSession) {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.log.Error("Unknown error", "error", err)
			if err := s.sleep(ctx, s.errorDelay); err != nil {
				return err
			}
			continue
		}

		if next <= 0 {
			continue
		}
		if next >= longSleep && s.idle != nil {
			s.idle.CloseIdleConnections()
		}
		s.log.Info("Sleep", "duration", next.Round(time.Second).String())
		if err := s.sleep(ctx, next); err != nil {
			return err
		}
	}
}
