package proxy

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

// Pool раздаёт прокси из файла по сессиям по кругу. Сессия держит свой прокси до рестарта процесса.
type Pool struct {
	mu       sync.Mutex
	proxies  []*ports.ProxyConfig
	next     int
	assigned map[string]*ports.ProxyConfig
}

func NewPool(proxies []*ports.ProxyConfig) *Pool {
	return &Pool{
		proxies:  proxies,
		assigned: make(map[string]*ports.ProxyConfig),
	}
}

// LoadFile читает proxies.txt: одна строка = один прокси, пустые строки и # пропускаются.
func LoadFile(path string, log *slog.Logger) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var proxies []*ports.ProxyConfig
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := Parse(line)
		if err != nil {
			log.Warn("skipping invalid proxy line", "line", line, "error", err)
			continue
		}
		proxies = append(proxies, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewPool(proxies), nil
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}

// For прокси для сессии; nil если пул пустой.
func (p *Pool) For(session string) *ports.ProxyConfig {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cfg, ok := p.assigned[session]; ok {
		return cfg
	}
	if len(p.proxies) == 0 {
		return nil
	}
	cfg := p.proxies[p.next%len(p.proxies)]
	p.next++
	p.assigned[session] = cfg
	return cfg
}
