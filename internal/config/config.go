package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	ApiID   int32  `yaml:"api_id" env:"TELEGRAM_API_ID" validate:"required"`
	ApiHash string `yaml:"api_hash" env:"TELEGRAM_API_HASH" validate:"required"`
	Env     string `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	BaseDir string `yaml:"base_dir" env:"BASE_DIR" env-default:"./sessions" validate:"required"`
	// Vendor farm или tap
	Vendor string `yaml:"vendor" env:"VENDOR" env-default:"farm" validate:"oneof=farm tap"`

	Farm   FarmConfig   `yaml:"farm"`
	Tap    TapConfig    `yaml:"tap"`
	Proxy  ProxyConfig  `yaml:"proxy"`
	Runner RunnerConfig `yaml:"runner"`
}

type FarmConfig struct {
	BaseURL       string `yaml:"base_url" env:"FARM_BASE_URL" env-default:"https://api.gleam.bot" validate:"url"`
	Project       string `yaml:"project" env:"FARM_PROJECT" env-default:"Aqua Protocol"`
	Bot           string `yaml:"bot" env:"FARM_BOT" env-default:"Gleam_AquaProtocol_Bot" validate:"required"`
	WebAppURL     string `yaml:"web_app_url" env:"FARM_WEB_APP_URL" env-default:"https://api.gleam.bot/" validate:"url"`
	TimeInSeconds int    `yaml:"time_in_seconds" env:"FARM_TIME_IN_SECONDS" env-default:"28800" validate:"gt=0"`
}

func (c FarmConfig) Duration() time.Duration {
	return time.Duration(c.TimeInSeconds) * time.Second
}

type TapConfig struct {
	BaseURL   string `yaml:"base_url" env:"TAP_BASE_URL" validate:"omitempty,url"`
	Bot       string `yaml:"bot" env:"TAP_BOT"`
	WebAppURL string `yaml:"web_app_url" env:"TAP_WEB_APP_URL" validate:"omitempty,url"`
	MinEnergy int64  `yaml:"min_energy" env:"MIN_AVAILABLE_ENERGY" env-default:"25" validate:"gte=0"`
	// диапазоны в секундах [min, max]
	SleepByMinEnergy []int `yaml:"sleep_by_min_energy" env:"SLEEP_BY_MIN_ENERGY" env-default:"200,500" validate:"len=2,dive,gte=0"`
	SleepBetweenTap  []int `yaml:"sleep_between_tap" env:"SLEEP_BETWEEN_TAP" env-default:"10,25" validate:"len=2,dive,gte=0"`
}

type ProxyConfig struct {
	UseFromFile bool   `yaml:"use_from_file" env:"USE_PROXY_FROM_FILE" env-default:"false"`
	Path        string `yaml:"path" env:"PROXY_FILE" env-default:"proxies.txt"`
	CheckIP     bool   `yaml:"check_ip" env:"PROXY_CHECK_IP" env-default:"true"`
	CheckURL    string `yaml:"check_url" env:"PROXY_CHECK_URL" env-default:"https://httpbin.org/ip" validate:"url"`
}

type RunnerConfig struct {
	// StartDelay разнос старта сессий, секунды [min, max]
	StartDelay   []int `yaml:"start_delay" env:"START_DELAY" env-default:"1,30" validate:"len=2,dive,gte=0"`
	RestartDelay int   `yaml:"restart_delay" env:"RESTART_DELAY" env-default:"60" validate:"gte=0"`
}

// Range переводит [min, max] секунд в длительности.
func Range(v []int) (time.Duration, time.Duration) {
	if len(v) < 2 {
		return 0, 0
	}
	return time.Duration(v[0]) * time.Second, time.Duration(v[1]) * time.Second
}

// Load читает .env, затем yaml (флаг --config или CONFIG_PATH), затем накладывает ENV поверх.
// Без файла конфиг собирается только из ENV.
func Load(path string) (*AppConfig, error) {
	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg AppConfig
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Vendor == "tap" && (c.Tap.BaseURL == "" || c.Tap.Bot == "" || c.Tap.WebAppURL == "") {
		return fmt.Errorf("invalid config: tap.base_url, tap.bot and tap.web_app_url are required for vendor tap")
	}

	for name, r := range map[string][]int{
		"tap.sleep_by_min_energy": c.Tap.SleepByMinEnergy,
		"tap.sleep_between_tap":   c.Tap.SleepBetweenTap,
		"runner.start_delay":      c.Runner.StartDelay,
	} {
		if r[0] > r[1] {
			return fmt.Errorf("invalid config: %s min %d > max %d", name, r[0], r[1])
		}
	}
	return nil
}
