package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
	xproxy "golang.org/x/net/proxy"
)

// Parse разбирает строку вида [scheme://][user:pass@]host:port. Схема по умолчанию http.
func Parse(raw string) (*ports.ProxyConfig, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil, fmt.Errorf("empty proxy line")
	}

	p := &ports.ProxyConfig{Enabled: true, Scheme: "http"}

	if scheme, rest, ok := strings.Cut(line, "://"); ok {
		p.Scheme = strings.ToLower(scheme)
		line = rest
	}
	switch p.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("unsupported proxy protocol: %s", p.Scheme)
	}

	if i := strings.LastIndex(line, "@"); i >= 0 {
		user, pass, ok := strings.Cut(line[:i], ":")
		if !ok {
			return nil, fmt.Errorf("invalid proxy credentials format")
		}
		p.Username = user
		p.Password = pass
		line = line[i+1:]
	}

	host, portStr, err := net.SplitHostPort(strings.TrimSuffix(line, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", line, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("invalid proxy port %q", portStr)
	}
	if host == "" {
		return nil, fmt.Errorf("empty proxy host")
	}

	p.Server = host
	p.Port = int32(port)
	return p, nil
}

// NewTransport транспорт с выходом через прокси; nil или выключенный прокси: напрямую.
func NewTransport(cfg *ports.ProxyConfig) (*http.Transport, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        10,
	}

	u := cfg.URL()
	if u == nil {
		return tr, nil
	}

	switch u.Scheme {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
	case "socks5":
		var auth *xproxy.Auth
		if cfg.Username != "" {
			auth = &xproxy.Auth{User: cfg.Username, Password: cfg.Password}
		}
		d, err := xproxy.SOCKS5("tcp", u.Host, auth, xproxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("socks5 dialer: %w", err)
		}
		tr.Proxy = nil
		if cd, ok := d.(xproxy.ContextDialer); ok {
			tr.DialContext = cd.DialContext
		} else {
			tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}

	return tr, nil
}
