package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/pkg/delay"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

const (
	claimJitterMin = 10 * time.Second
	claimJitterMax = 20 * time.Second
)

// FarmPolicy login -> (start | sleep до finish_at | claim + jitter + start).
type FarmPolicy struct {
	api      ports.FarmAPI
	duration time.Duration
	log      *slog.Logger

	now    func() time.Time
	jitter func() time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewFarmPolicy(api ports.FarmAPI, duration time.Duration, log *slog.Logger) *FarmPolicy {
	if duration <= 0 {
		duration = domain.DefaultFarmDuration
	}
	return &FarmPolicy{
		api:      api,
		duration: duration,
		log:      log,
		now:      time.Now,
		jitter:   func() time.Duration { return delay.Between(claimJitterMin, claimJitterMax) },
		sleep:    delay.Sleep,
	}
}

func (p *FarmPolicy) Name() string { return "farm" }

func (p *FarmPolicy) Step(ctx context.Context, initData domain.InitData) (time.Duration, error) {
	login, err := p.api.Login(ctx, initData)
	if err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}

	now := p.now()
	stage := login.Farm.Stage(now, p.duration)
	p.log.Debug("farm state", "stage", stage.String(), "balance", login.Balance)

	switch stage {
	case domain.FarmNeedStart:
		p.log.Info("Farm is not started, starting")
		if _, err := p.api.StartFarm(ctx, initData); err != nil {
			return 0, fmt.Errorf("start farm: %w", err)
		}
		return 0, nil

	case domain.FarmActive:
		finish, _ := login.Farm.FinishAt(p.duration)
		p.log.Info("Farming", "balance", login.Balance, "finish_at", finish.Format(time.RFC3339))
		return login.Farm.Remaining(now, p.duration), nil

	default:
		p.log.Info("Claiming farm", "balance", login.Balance)
		if err := p.api.Claim(ctx, initData); err != nil {
			return 0, fmt.Errorf("claim: %w", err)
		}

		if err := p.sleep(ctx, p.jitter()); err != nil {
			return 0, err
		}

		p.log.Info("Start farm")
		if _, err := p.api.StartFarm(ctx, initData); err != nil {
			return 0, fmt.Errorf("start farm: %w", err)
		}
		return 0, nil
	}
}
