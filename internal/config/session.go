package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

// RawSessionConfig <base_dir>/<session>/config.json
type RawSessionConfig struct {
	SessionFile string `json:"session_file"`
	Phone       string `json:"phone"`
	UserID      int64  `json:"user_id"`

	AppID   int32  `json:"app_id"`
	AppHash string `json:"app_hash"`

	SDK        string `json:"sdk"`         // SystemVersion
	AppVersion string `json:"app_version"` // ApplicationVersion
	Device     string `json:"device"`      // DeviceModel
	LangCode   string `json:"lang_code"`   // SystemLanguageCode

	Proxy []any `json:"proxy"` // [type, host, port, useAuth, user, pass]
}

// ToProxyConfig разбирает кортеж прокси. type: строка (socks5/http/https) или число (socks5).
func (c *RawSessionConfig) ToProxyConfig() (*ports.ProxyConfig, error) {
	if len(c.Proxy) == 0 {
		return nil, nil
	}
	if len(c.Proxy) < 6 {
		return nil, fmt.Errorf("invalid proxy length: %d", len(c.Proxy))
	}

	scheme := "socks5"
	if s, ok := c.Proxy[0].(string); ok && s != "" {
		scheme = strings.ToLower(s)
	}
	switch scheme {
	case "socks5", "http", "https":
	default:
		return nil, fmt.Errorf("unsupported proxy type %q", scheme)
	}

	host, _ := c.Proxy[1].(string)

	// port из json.Unmarshal приходит float64
	var port int32
	switch v := c.Proxy[2].(type) {
	case float64:
		port = int32(v)
	case int:
		port = int32(v)
	default:
		return nil, fmt.Errorf("invalid proxy port type %T", c.Proxy[2])
	}

	if host == "" || port == 0 {
		return nil, nil
	}

	p := &ports.ProxyConfig{
		Enabled: true,
		Scheme:  scheme,
		Server:  host,
		Port:    port,
	}
	if useAuth, _ := c.Proxy[3].(bool); useAuth {
		p.Username, _ = c.Proxy[4].(string)
		p.Password, _ = c.Proxy[5].(string)
	}
	return p, nil
}

// LoadRawSessionConfig читает config.json сессии, для старых сессий <session>.json.
func LoadRawSessionConfig(baseDir, sessionName string) (*RawSessionConfig, error) {
	path := filepath.Join(baseDir, sessionName, "config.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		path = filepath.Join(baseDir, sessionName, sessionName+".json")
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg RawSessionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = sessionName
	}
	return &cfg, nil
}
