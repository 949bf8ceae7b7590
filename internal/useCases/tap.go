package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

type randSource interface {
	Int63n(n int64) int64
}

type TapSettings struct {
	MinEnergy int64
	// LowEnergySleep сон, когда энергии меньше MinEnergy
	LowEnergySleep [2]time.Duration
	BetweenTaps    [2]time.Duration
}

// TapPolicy держит локальную копию профиля; после каждой пачки копия = ответ сервера.
type TapPolicy struct {
	api      ports.TapAPI
	settings TapSettings
	log      *slog.Logger

	token domain.AccessToken
	state domain.TapState
	// fresh профиль актуален, иначе перед пачкой перечитываем
	fresh bool

	now func() time.Time
	rnd randSource
}

func NewTapPolicy(api ports.TapAPI, settings TapSettings, log *slog.Logger) *TapPolicy {
	return &TapPolicy{
		api:      api,
		settings: settings,
		log:      log,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *TapPolicy) Name() string { return "tap" }

func (p *TapPolicy) Step(ctx context.Context, initData domain.InitData) (time.Duration, error) {
	if !p.token.Valid(p.now()) {
		login, err := p.api.Login(ctx, strconv.FormatInt(initData.User.ID, 10), initData.Hash)
		if err != nil {
			return 0, fmt.Errorf("login: %w", err)
		}
		p.token = login.Token
		p.fresh = false
		p.log.Info("Logged in", "user_id", login.UserID)
	}

	if !p.fresh {
		state, err := p.api.Profile(ctx, p.token)
		if err != nil {
			return 0, fmt.Errorf("profile: %w", err)
		}
		p.state = state
		p.fresh = true
	}

	if p.state.Energy <= 0 || p.state.Energy < p.settings.MinEnergy {
		d := p.between(p.settings.LowEnergySleep)
		p.log.Info("Minimum energy reached", "energy", p.state.Energy, "sleep", d.Round(time.Second).String())
		// после сна берём реальную энергию с сервера
		p.fresh = false
		return d, nil
	}

	draw := domain.MinTapBatch + p.rnd.Int63n(domain.MaxTapBatch-domain.MinTapBatch+1)
	batch := p.state.BatchSize(draw)

	res, err := p.api.SubmitTaps(ctx, p.token, p.state.Apply(batch))
	if err != nil {
		p.fresh = false
		return 0, fmt.Errorf("submit taps: %w", err)
	}

	if res.Rejected {
		p.log.Warn("Taps rejected", "taps", batch, "response", string(res.Raw))
		p.fresh = false
	} else {
		p.state = res.State
		p.log.Info("Successful tapped",
			"taps", batch,
			"balance", p.state.Balance,
			"energy", p.state.Energy,
		)
	}

	return p.between(p.settings.BetweenTaps), nil
}

func (p *TapPolicy) between(r [2]time.Duration) time.Duration {
	lo, hi := r[0], r[1]
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(p.rnd.Int63n(int64(hi-lo)+1))
}
