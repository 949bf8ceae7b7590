package ports

import "context"

// Peer адресуемый бот на платформе.
type Peer struct {
	ChatID int64
	UserID int64
}

// ChatPlatform определяет то, что нужно от Telegram для получения init data.
// Реализуется адаптером TDLib, в тестах подменяется фейком.
type ChatPlatform interface {
	// Connect поднимает клиента. Неавторизованная учётка -> domain.ErrUnauthorized
	Connect(ctx context.Context) error
	IsConnected() bool
	// ResolveBot ищет бота по username. Флуд-лимит -> *domain.RateLimitedError
	ResolveBot(ctx context.Context, username string) (Peer, error)
	// RequestWebView возвращает url web app с tgWebAppData
	RequestWebView(ctx context.Context, bot Peer, url string) (string, error)
	Disconnect()
}
