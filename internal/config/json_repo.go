package config

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

// ProxySource выдаёт прокси сессии из общего списка (proxies.txt).
type ProxySource interface {
	For(session string) *ports.ProxyConfig
}

type JSONSessionConfigRepo struct {
	baseDir string // "./sessions"
	proxies ProxySource
}

// NewJSONSessionConfigRepo proxies может быть nil, тогда берётся прокси из config.json сессии.
func NewJSONSessionConfigRepo(baseDir string, proxies ProxySource) *JSONSessionConfigRepo {
	return &JSONSessionConfigRepo{baseDir: baseDir, proxies: proxies}
}

func (r *JSONSessionConfigRepo) ListSessions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *JSONSessionConfigRepo) GetSessionConfig(ctx context.Context, sessionName string) (*ports.SessionConfig, error) {
	raw, err := LoadRawSessionConfig(r.baseDir, sessionName)
	if err != nil {
		return nil, err
	}

	proxyCfg, err := raw.ToProxyConfig()
	if err != nil {
		return nil, fmt.Errorf("proxy parse: %w", err)
	}
	if r.proxies != nil {
		if p := r.proxies.For(raw.SessionFile); p != nil {
			proxyCfg = p
		}
	}

	return &ports.SessionConfig{
		SessionName:        raw.SessionFile,
		Phone:              raw.Phone,
		AppID:              raw.AppID,
		AppHash:            raw.AppHash,
		DeviceModel:        raw.Device,
		SystemVersion:      raw.SDK,
		ApplicationVersion: raw.AppVersion,
		LangCode:           raw.LangCode,
		Proxy:              proxyCfg,
	}, nil
}
