package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/adapters/proxy"
	"github.com/larriantoniy/tg_farm_bot/internal/adapters/tg"
	"github.com/larriantoniy/tg_farm_bot/internal/adapters/vendor"
	"github.com/larriantoniy/tg_farm_bot/internal/config"
	"github.com/larriantoniy/tg_farm_bot/internal/domain"
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
	"github.com/larriantoniy/tg_farm_bot/internal/useCases"
)

// newSessionFactory собирает на каждый запуск сессии: транспорт -> TDLib -> вендор -> планировщик.
func newSessionFactory(cfg *config.AppConfig) useCases.SessionFactory {
	return func(ctx context.Context, sc *ports.SessionConfig, log *slog.Logger) (useCases.Session, error) {
		tr, err := proxy.NewTransport(sc.Proxy)
		if err != nil {
			return nil, fmt.Errorf("proxy transport: %w", err)
		}

		if sc.Proxy != nil && cfg.Proxy.CheckIP {
			ip, err := proxy.CheckIP(ctx, &http.Client{Transport: tr}, cfg.Proxy.CheckURL)
			if err != nil {
				log.Warn("Proxy check failed", "proxy", sc.Proxy.String(), "error", err)
			} else {
				log.Info("Proxy IP", "proxy", sc.Proxy.String(), "ip", ip)
			}
		}

		platform := tg.NewClient(cfg.ApiID, cfg.ApiHash, cfg.BaseDir, sc, log, tg.ClientModeRuntime)

		switch domain.Vendor(cfg.Vendor) {
		case domain.VendorTap:
			api := vendor.NewTapper(cfg.Tap.BaseURL, tr, log)
			lowMin, lowMax := config.Range(cfg.Tap.SleepByMinEnergy)
			tapMin, tapMax := config.Range(cfg.Tap.SleepBetweenTap)
			policy := useCases.NewTapPolicy(api, useCases.TapSettings{
				MinEnergy:      cfg.Tap.MinEnergy,
				LowEnergySleep: [2]time.Duration{lowMin, lowMax},
				BetweenTaps:    [2]time.Duration{tapMin, tapMax},
			}, log)
			auth := useCases.NewAuthExtractor(sc.SessionName, platform, cfg.Tap.Bot, cfg.Tap.WebAppURL, log)
			return useCases.NewScheduler(auth, policy, api, log), nil

		default:
			api := vendor.NewGleam(cfg.Farm.BaseURL, cfg.Farm.Project, tr, log)
			policy := useCases.NewFarmPolicy(api, cfg.Farm.Duration(), log)
			auth := useCases.NewAuthExtractor(sc.SessionName, platform, cfg.Farm.Bot, cfg.Farm.WebAppURL, log)
			return useCases.NewScheduler(auth, policy, api, log), nil
		}
	}
}

// authorize поднимает TDLib с промптами в консоли, чтобы завести новую сессию.
func authorize(ctx context.Context, cfg *config.AppConfig, repo ports.SessionConfigRepo, name string, log *slog.Logger) error {
	sc, err := repo.GetSessionConfig(ctx, name)
	if errors.Is(err, os.ErrNotExist) {
		// новая сессия без config.json
		sc = &ports.SessionConfig{SessionName: name}
	} else if err != nil {
		return err
	}

	cli := tg.NewClient(cfg.ApiID, cfg.ApiHash, cfg.BaseDir, sc, log.With("session", name), tg.ClientModeAuth)
	if err := cli.Connect(ctx); err != nil {
		return err
	}
	cli.Disconnect()
	return nil
}
