package tg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/larriantoniy/tg_farm_bot/internal/adapters/tg/tgerr"
	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
	"github.com/zelenin/go-tdlib/client"
)

// платформа, от имени которой открываем web app
const webAppPlatform = "android"

// TelegramClient реализует ports.ChatPlatform через TDLib
type TelegramClient struct {
	mu     sync.Mutex
	client *client.Client
	logger *slog.Logger

	apiID   int32
	apiHash string
	baseDir string
	session *ports.SessionConfig
	mode    ClientMode
}

type ClientMode int

const (
	ClientModeRuntime ClientMode = iota // боевой режим: сессия уже авторизована, промптов нет
	ClientModeAuth                      // режим авторизации: CliInteractor спрашивает телефон/код в консоли
)

var _ ports.ChatPlatform = (*TelegramClient)(nil)

// NewClient ничего не поднимает, TDLib стартует в Connect.
func NewClient(
	apiID int32,
	apiHash string,
	baseDir string, // "/sessions"
	sc *ports.SessionConfig,
	log *slog.Logger,
	mode ClientMode,
) *TelegramClient {
	// app_id из конфига сессии важнее общего
	if sc.AppID != 0 && sc.AppHash != "" {
		apiID, apiHash = sc.AppID, sc.AppHash
	}
	return &TelegramClient{
		logger:  log,
		apiID:   apiID,
		apiHash: apiHash,
		baseDir: baseDir,
		session: sc,
		mode:    mode,
	}
}

func (t *TelegramClient) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return nil
	}

	sessionDir := filepath.Join(t.baseDir, t.session.SessionName)
	dbDir := filepath.Join(sessionDir, "database")
	filesDir := filepath.Join(sessionDir, "files")

	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return fmt.Errorf("mkdir files dir: %w", err)
	}

	if _, err := client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	}); err != nil {
		t.logger.Error("TDLib SetLogVerbosityLevel", "error", err)
	}

	params := tdParams(t.session, t.apiID, t.apiHash, dbDir, filesDir)

	probeNetwork(t.logger, t.session.Proxy)

	var opts []client.Option
	if req := tdProxy(t.session.Proxy); req != nil {
		opts = append(opts, client.WithProxy(req))
	}

	var handler client.AuthorizationStateHandler
	if t.mode == ClientModeAuth {
		authorizer := client.ClientAuthorizer(params)
		go client.CliInteractor(authorizer)
		handler = authorizer
	} else {
		handler = &sessionAuthorizer{params: params}
	}

	type result struct {
		cli *client.Client
		err error
	}
	done := make(chan result, 1)
	go func() {
		cli, err := client.NewClient(handler, opts...)
		done <- result{cli: cli, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		// клиент всё равно поднимется, закрываем его в фоне
		go func() {
			if r := <-done; r.cli != nil {
				r.cli.Close()
			}
		}()
		return ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		t.logger.Error("TDLib NewClient error", "error", res.err)
		return tgerr.Classify(res.err)
	}

	me, err := res.cli.GetMe()
	if err != nil {
		res.cli.Close()
		t.logger.Error("GetMe failed", "error", err)
		return tgerr.Classify(err)
	}

	t.logger.Info("TDLib client initialized and authorized",
		"self_id", me.Id,
		"phone", t.session.Phone,
	)
	t.client = res.cli
	return nil
}

func (t *TelegramClient) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client != nil
}

func (t *TelegramClient) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return
	}
	t.client.Close()
	t.client = nil
	t.logger.Info("TDLib client closed")
}

func (t *TelegramClient) tdClient() (*client.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil, errors.New("tdlib client is not connected")
	}
	return t.client, nil
}

// ResolveBot ищет бота по username через SearchPublicChat
func (t *TelegramClient) ResolveBot(ctx context.Context, username string) (ports.Peer, error) {
	if err := ctx.Err(); err != nil {
		return ports.Peer{}, err
	}
	cli, err := t.tdClient()
	if err != nil {
		return ports.Peer{}, err
	}

	chat, err := cli.SearchPublicChat(&client.SearchPublicChatRequest{
		Username: strings.TrimPrefix(username, "@"),
	})
	if err != nil {
		t.logger.Error("SearchPublicChat failed", "username", username, "error", err)
		return ports.Peer{}, tgerr.Classify(err)
	}

	private, ok := chat.Type.(*client.ChatTypePrivate)
	if !ok {
		return ports.Peer{}, fmt.Errorf("@%s is not a bot chat (%s)", username, chat.Type.ChatTypeType())
	}

	return ports.Peer{ChatID: chat.Id, UserID: private.UserId}, nil
}

// RequestWebView открывает web app бота и возвращает url с tgWebAppData
func (t *TelegramClient) RequestWebView(ctx context.Context, bot ports.Peer, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cli, err := t.tdClient()
	if err != nil {
		return "", err
	}

	info, err := cli.OpenWebApp(&client.OpenWebAppRequest{
		ChatId:    bot.ChatID,
		BotUserId: bot.UserID,
		Url:       url,
		Parameters: &client.WebAppOpenParameters{
			ApplicationName: webAppPlatform,
		},
	})
	if err != nil {
		t.logger.Error("OpenWebApp failed", "bot_user_id", bot.UserID, "error", err)
		return "", tgerr.Classify(err)
	}
	return info.Url, nil
}

// sessionAuthorizer не интерактивный: только выставляет параметры TDLib.
// Если TDLib просит телефон/код/пароль, сессия не авторизована.
type sessionAuthorizer struct {
	params *client.SetTdlibParametersRequest
}

func (a *sessionAuthorizer) Handle(c *client.Client, state client.AuthorizationState) error {
	switch state.AuthorizationStateType() {
	case client.TypeAuthorizationStateWaitTdlibParameters:
		_, err := c.SetTdlibParameters(a.params)
		return err

	case client.TypeAuthorizationStateWaitPhoneNumber,
		client.TypeAuthorizationStateWaitCode,
		client.TypeAuthorizationStateWaitPassword,
		client.TypeAuthorizationStateWaitRegistration,
		client.TypeAuthorizationStateWaitOtherDeviceConfirmation,
		client.TypeAuthorizationStateLoggingOut:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, state.AuthorizationStateType())
	}
	return nil
}

func (a *sessionAuthorizer) Close() {}
