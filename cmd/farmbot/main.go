package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/adapters/proxy"
	"github.com/larriantoniy/tg_farm_bot/internal/config"
	"github.com/larriantoniy/tg_farm_bot/internal/useCases"
	"github.com/pterm/pterm"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath, authSession string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&authSession, "auth", "", "authorize session interactively and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)

	// прокси из файла перекрывают прокси из config.json сессий
	var proxies config.ProxySource
	if cfg.Proxy.UseFromFile {
		pool, err := proxy.LoadFile(cfg.Proxy.Path, logger)
		if err != nil {
			logger.Error("load proxies", "error", err)
			os.Exit(1)
		}
		logger.Info("proxies loaded", "count", pool.Len())
		proxies = pool
	}

	cfgRepo := config.NewJSONSessionConfigRepo(cfg.BaseDir, proxies)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	if authSession != "" {
		if err := authorize(ctx, cfg, cfgRepo, authSession, logger); err != nil {
			logger.Error("authorization failed", "session", authSession, "error", err)
			os.Exit(1)
		}
		logger.Info("session authorized", "session", authSession)
		return
	}

	startMin, startMax := config.Range(cfg.Runner.StartDelay)
	runner := useCases.NewRunner(
		cfgRepo,
		logger,
		newSessionFactory(cfg),
		[2]time.Duration{startMin, startMax},
		time.Duration(cfg.Runner.RestartDelay)*time.Second,
	)

	logger.Info("starting farm bot", "vendor", cfg.Vendor, "env", cfg.Env)
	if err := runner.StartAll(ctx); err != nil {
		logger.Error("runner.StartAll error", "error", err)
		os.Exit(1)
	}

	logger.Info("exit")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		// local: цветной вывод в консоль
		return slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(pterm.LogLevelDebug)))
	}
}
