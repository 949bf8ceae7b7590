package ports

import (
	"context"
	"encoding/json"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
)

type FarmLogin struct {
	Farm    domain.FarmState
	Balance float64
}

// FarmAPI вендор с механикой фарма (login / claim / start-farming).
type FarmAPI interface {
	Login(ctx context.Context, initData domain.InitData) (FarmLogin, error)
	Claim(ctx context.Context, initData domain.InitData) error
	StartFarm(ctx context.Context, initData domain.InitData) (domain.FarmState, error)
	CloseIdleConnections()
}

type TapLogin struct {
	Token  domain.AccessToken
	UserID int64
}

// TapResult ответ на отправку тапов. Rejected=true на HTTP 422: State пустой, тело в Raw.
type TapResult struct {
	State    domain.TapState
	Rejected bool
	Raw      json.RawMessage
}

// TapAPI вендор с механикой тапалки.
type TapAPI interface {
	Login(ctx context.Context, identifier, password string) (TapLogin, error)
	Profile(ctx context.Context, token domain.AccessToken) (domain.TapState, error)
	SubmitTaps(ctx context.Context, token domain.AccessToken, state domain.TapState) (TapResult, error)
	CloseIdleConnections()
}
