package useCases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/pkg/delay"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

// AuthExtractor получает init data web app от имени сессии.
type AuthExtractor struct {
	session   string
	platform  ports.ChatPlatform
	bot       string
	webAppURL string
	log       *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewAuthExtractor(session string, platform ports.ChatPlatform, bot, webAppURL string, log *slog.Logger) *AuthExtractor {
	return &AuthExtractor{
		session:   session,
		platform:  platform,
		bot:       bot,
		webAppURL: webAppURL,
		log:       log,
		sleep:     delay.Sleep,
	}
}

// Extract connect -> resolve бота -> web view -> parse -> disconnect.
// Неавторизованная учётка превращается в InvalidSessionError и не ретраится.
func (a *AuthExtractor) Extract(ctx context.Context) (domain.InitData, error) {
	data, err := a.extract(ctx)
	if err == nil {
		return data, nil
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		a.platform.Disconnect()
		return domain.InitData{}, &domain.InvalidSessionError{Session: a.session, Err: err}
	}
	if ctx.Err() == nil {
		a.log.Error("Unknown error during Authorization", "error", err)
	}
	return domain.InitData{}, fmt.Errorf("extract init data: %w", err)
}

func (a *AuthExtractor) extract(ctx context.Context) (domain.InitData, error) {
	if !a.platform.IsConnected() {
		if err := a.platform.Connect(ctx); err != nil {
			return domain.InitData{}, fmt.Errorf("connect: %w", err)
		}
	}

	peer, err := a.resolve(ctx)
	if err != nil {
		return domain.InitData{}, err
	}

	url, err := a.platform.RequestWebView(ctx, peer, a.webAppURL)
	if err != nil {
		return domain.InitData{}, fmt.Errorf("request web view: %w", err)
	}

	data, err := domain.ParseWebAppURL(url)
	if err != nil {
		return domain.InitData{}, err
	}

	a.platform.Disconnect()
	return data, nil
}

// Close рвёт соединение, если Extract не дошёл до конца.
func (a *AuthExtractor) Close() {
	if a.platform.IsConnected() {
		a.platform.Disconnect()
	}
}

// resolve ретраит флуд-лимит бесконечно: ждём 2*retry_after, дальше удваиваем.
func (a *AuthExtractor) resolve(ctx context.Context) (ports.Peer, error) {
	var wait time.Duration
	for {
		peer, err := a.platform.ResolveBot(ctx, a.bot)
		if err == nil {
			return peer, nil
		}

		var rl *domain.RateLimitedError
		if !errors.As(err, &rl) {
			return ports.Peer{}, fmt.Errorf("resolve @%s: %w", a.bot, err)
		}

		wait = max(wait*2, rl.RetryAfter*2)
		a.log.Warn("FloodWait while resolving bot", "bot", a.bot, "retry_after", rl.RetryAfter, "sleep", wait)
		if err := a.sleep(ctx, wait); err != nil {
			return ports.Peer{}, err
		}
	}
}
