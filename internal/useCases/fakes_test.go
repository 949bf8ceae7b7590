package useCases

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
	// cancel отменяет контекст после n-го сна
	cancelAfter int
	cancel      context.CancelFunc
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	n := len(s.calls)
	s.mu.Unlock()

	if s.cancel != nil && n >= s.cancelAfter {
		s.cancel()
	}
	return ctx.Err()
}

type fakePlatform struct {
	connected    bool
	connectErr   error
	resolveErrs  []error
	resolveCalls int
	webViewURL   string
	webViewErr   error
	disconnects  int
}

func (f *fakePlatform) Connect(ctx context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakePlatform) IsConnected() bool { return f.connected }

func (f *fakePlatform) ResolveBot(ctx context.Context, username string) (ports.Peer, error) {
	f.resolveCalls++
	if len(f.resolveErrs) > 0 {
		err := f.resolveErrs[0]
		f.resolveErrs = f.resolveErrs[1:]
		return ports.Peer{}, err
	}
	return ports.Peer{ChatID: 42, UserID: 42}, nil
}

func (f *fakePlatform) RequestWebView(ctx context.Context, bot ports.Peer, url string) (string, error) {
	return f.webViewURL, f.webViewErr
}

func (f *fakePlatform) Disconnect() {
	f.connected = false
	f.disconnects++
}

type fakeFarm struct {
	logins     []ports.FarmLogin
	loginErrs  []error
	claims     int
	starts     int
	calls      []string
	idleClosed int
}

func (f *fakeFarm) Login(ctx context.Context, initData domain.InitData) (ports.FarmLogin, error) {
	f.calls = append(f.calls, "login")
	if len(f.loginErrs) > 0 {
		err := f.loginErrs[0]
		f.loginErrs = f.loginErrs[1:]
		if err != nil {
			return ports.FarmLogin{}, err
		}
	}
	if len(f.logins) == 0 {
		return ports.FarmLogin{}, nil
	}
	l := f.logins[0]
	if len(f.logins) > 1 {
		f.logins = f.logins[1:]
	}
	return l, nil
}

func (f *fakeFarm) Claim(ctx context.Context, initData domain.InitData) error {
	f.calls = append(f.calls, "claim")
	f.claims++
	return nil
}

func (f *fakeFarm) StartFarm(ctx context.Context, initData domain.InitData) (domain.FarmState, error) {
	f.calls = append(f.calls, "start")
	f.starts++
	return domain.FarmState{}, nil
}

func (f *fakeFarm) CloseIdleConnections() { f.idleClosed++ }

type fakeTap struct {
	token     domain.AccessToken
	logins    int
	profiles  []domain.TapState
	profileN  int
	submitted []domain.TapState
	results   []ports.TapResult
}

func (f *fakeTap) Login(ctx context.Context, identifier, password string) (ports.TapLogin, error) {
	f.logins++
	return ports.TapLogin{Token: f.token, UserID: 7}, nil
}

func (f *fakeTap) Profile(ctx context.Context, token domain.AccessToken) (domain.TapState, error) {
	s := f.profiles[min(f.profileN, len(f.profiles)-1)]
	f.profileN++
	return s, nil
}

func (f *fakeTap) SubmitTaps(ctx context.Context, token domain.AccessToken, state domain.TapState) (ports.TapResult, error) {
	f.submitted = append(f.submitted, state)
	if len(f.results) == 0 {
		return ports.TapResult{State: state}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

func (f *fakeTap) CloseIdleConnections() {}

type fixedRand struct {
	values []int64
}

// Int63n отдаёт заранее заданные смещения, дальше 0.
func (r *fixedRand) Int63n(n int64) int64 {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

type staticAuth struct {
	data   domain.InitData
	err    error
	closed int
}

func (s *staticAuth) Extract(ctx context.Context) (domain.InitData, error) { return s.data, s.err }
func (s *staticAuth) Close()                                               { s.closed++ }
