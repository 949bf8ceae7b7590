package useCases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/pkg/delay"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

// Session то, что запускает раннер на одну сессию (обычно *Scheduler).
type Session interface {
	Run(ctx context.Context) error
}

type SessionFactory func(ctx context.Context, cfg *ports.SessionConfig, log *slog.Logger) (Session, error)

type Runner struct {
	cfgRepo ports.SessionConfigRepo
	log     *slog.Logger
	factory SessionFactory

	startDelay   [2]time.Duration
	restartDelay time.Duration
}

func NewRunner(
	cfgRepo ports.SessionConfigRepo,
	log *slog.Logger,
	factory SessionFactory,
	startDelay [2]time.Duration,
	restartDelay time.Duration,
) *Runner {
	return &Runner{
		cfgRepo:      cfgRepo,
		log:          log,
		factory:      factory,
		startDelay:   startDelay,
		restartDelay: restartDelay,
	}
}

// StartAll запускает по горутине на каждую сессию и ждёт, пока все остановятся
func (r *Runner) StartAll(ctx context.Context) error {
	sessions, err := r.cfgRepo.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return errors.New("no sessions found")
	}
	r.log.Info("starting sessions", "count", len(sessions))

	var wg sync.WaitGroup
	for _, sName := range sessions {
		wg.Add(1)
		go func(sName string) {
			defer wg.Done()
			r.runSession(ctx, sName)
		}(sName)
	}
	wg.Wait()

	return nil
}

func (r *Runner) runSession(ctx context.Context, sName string) {
	log := r.log.With("session", sName)

	// разносим старт, чтобы сессии не ходили синхронно
	if err := delay.Random(ctx, r.startDelay[0], r.startDelay[1]); err != nil {
		return
	}

	for {
		runLog := log.With("run_id", uuid.NewString())

		cfg, err := r.cfgRepo.GetSessionConfig(ctx, sName)
		if err != nil {
			runLog.Error("GetSessionConfig failed", "error", err)
			return
		}

		err = r.runOnce(ctx, cfg, runLog)
		switch {
		case ctx.Err() != nil:
			runLog.Info("session stopped")
			return
		case errors.Is(err, domain.ErrInvalidSession):
			runLog.Error("Invalid Session", "error", err)
			return
		case err == nil:
			runLog.Warn("session finished without error, restarting")
		default:
			runLog.Error("session failed, restarting", "error", err, "delay", r.restartDelay.String())
		}

		if err := delay.Sleep(ctx, r.restartDelay); err != nil {
			runLog.Info("session stopped")
			return
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, cfg *ports.SessionConfig, log *slog.Logger) error {
	sess, err := r.factory(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	log.Info("session started", "proxy", cfg.Proxy.String())
	return sess.Run(ctx)
}
