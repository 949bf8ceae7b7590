package tg

import (
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/ports"
)

const probeTimeout = 5 * time.Second

// probeNetwork пишет в лог, что вообще доступно перед стартом TDLib. Ничего не блокирует.
func probeNetwork(logger *slog.Logger, proxyCfg *ports.ProxyConfig) {
	if dial(logger, "tcp4", "8.8.8.8:53") {
		logger.Debug("IPv4 OK")
	}
	if dial(logger, "tcp6", "[2606:4700:4700::1111]:53") {
		logger.Debug("IPv6 OK")
	}

	if proxyCfg == nil || !proxyCfg.Enabled {
		logger.Info("proxy disabled, skipping check")
		return
	}

	addr := net.JoinHostPort(proxyCfg.Server, strconv.Itoa(int(proxyCfg.Port)))

	// литерал IP: проверяем только его семейство
	if ip := net.ParseIP(proxyCfg.Server); ip != nil {
		network := "tcp6"
		if ip.To4() != nil {
			network = "tcp4"
		}
		if dial(logger, network, addr) {
			logger.Info("proxy reachable", "proxy", proxyCfg.String(), "network", network)
		} else {
			logger.Error("proxy unreachable", "proxy", proxyCfg.String(), "network", network)
		}
		return
	}

	// hostname: сначала IPv6, потом IPv4
	for _, network := range []string{"tcp6", "tcp4"} {
		if dial(logger, network, addr) {
			logger.Info("proxy reachable via hostname", "proxy", proxyCfg.String(), "network", network)
			return
		}
	}
	logger.Error("proxy unreachable via hostname on both IPv6 and IPv4", "proxy", proxyCfg.String())
}

func dial(logger *slog.Logger, network, addr string) bool {
	conn, err := net.DialTimeout(network, addr, probeTimeout)
	if err != nil {
		logger.Debug("dial failed", "network", network, "addr", addr, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}
