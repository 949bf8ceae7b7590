package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ports.ProxyConfig
	}{
		{
			name: "bare host defaults to http",
			in:   "10.0.0.1:8080",
			want: ports.ProxyConfig{Enabled: true, Scheme: "http", Server: "10.0.0.1", Port: 8080},
		},
		{
			name: "socks5 with auth",
			in:   "SOCKS5://user:p@ss@proxy.example.com:1080",
			want: ports.ProxyConfig{Enabled: true, Scheme: "socks5", Server: "proxy.example.com", Port: 1080, Username: "user", Password: "p@ss"},
		},
		{
			name: "https with auth",
			in:   " https://u:p@1.2.3.4:3128 ",
			want: ports.ProxyConfig{Enabled: true, Scheme: "https", Server: "1.2.3.4", Port: 3128, Username: "u", Password: "p"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, *got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "socks4://1.2.3.4:1080", "1.2.3.4", "user@1.2.3.4:80", "1.2.3.4:0", "1.2.3.4:99999"} {
		_, err := Parse(in)
		require.Error(t, err, in)
	}
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(nil)
	require.NoError(t, err)
	require.NotNil(t, tr.DialContext)

	p, err := Parse("http://u:p@10.0.0.1:8080")
	require.NoError(t, err)
	tr, err = NewTransport(p)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "https://api.gleam.bot/auth", nil)
	got, err := tr.Proxy(req)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1:8080", got.Host)
	require.Equal(t, "u", got.User.Username())

	p, err = Parse("socks5://10.0.0.1:1080")
	require.NoError(t, err)
	tr, err = NewTransport(p)
	require.NoError(t, err)
	require.Nil(t, tr.Proxy)
	require.NotNil(t, tr.DialContext)
}

func TestCheckIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"origin": "203.0.113.7"}`))
	}))
	defer srv.Close()

	ip, err := CheckIP(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "203.0.113.7", ip)
}

func TestCheckIP_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := CheckIP(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
}

func TestPool_Sticky(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proxies.txt")
	content := "# list\nsocks5://a:b@1.1.1.1:1080\n\nbroken\nhttp://2.2.2.2:8080\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pool, err := LoadFile(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, 2, pool.Len())

	first := pool.For("acc1")
	second := pool.For("acc2")
	third := pool.For("acc3")
	require.Equal(t, "1.1.1.1", first.Server)
	require.Equal(t, "2.2.2.2", second.Server)
	require.Same(t, first, third)
	require.Same(t, first, pool.For("acc1"))

	require.Nil(t, NewPool(nil).For("acc1"))
}
