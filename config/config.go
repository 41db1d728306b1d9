package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	DB           Database     `mapstructure:"database"`
	API          API          `mapstructure:"api"`
	Backtest     Backtest     `mapstructure:"backtest"`
	Sweep        Sweep        `mapstructure:"sweep"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	Cache        Cache        `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Backtest holds the default simulation parameters. Every request may
// override them; these are the values used when a field is omitted.
type Backtest struct {
	InitialCash    float64 `mapstructure:"initial_cash"`
	FeeBps         float64 `mapstructure:"fee_bps"`
	SlippageBps    float64 `mapstructure:"slippage_bps"`
	PeriodsPerYear float64 `mapstructure:"periods_per_year"`
	ShareMode      string  `mapstructure:"share_mode"`
}

type Sweep struct {
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	Objective      string `mapstructure:"objective"`
}

type Scheduler struct {
	Enabled        bool     `mapstructure:"enabled"`
	CronSpec       string   `mapstructure:"cron_spec"`
	TrackedSymbols []string `mapstructure:"tracked_symbols"`
	MaxConcurrency int      `mapstructure:"max_concurrency"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backtest.InitialCash == 0 {
		c.Backtest.InitialCash = 100_000
	}
	if c.Backtest.PeriodsPerYear == 0 {
		c.Backtest.PeriodsPerYear = 252
	}
	if c.Backtest.ShareMode == "" {
		c.Backtest.ShareMode = "integer"
	}
	if c.Sweep.MaxConcurrency == 0 {
		c.Sweep.MaxConcurrency = 4
	}
	if c.Sweep.Objective == "" {
		c.Sweep.Objective = "sharpe"
	}
	if c.Scheduler.MaxConcurrency == 0 {
		c.Scheduler.MaxConcurrency = 2
	}
	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.YahooFinance.Timeout == 0 {
		c.YahooFinance.Timeout = 30 * time.Second
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 30
	}
}
