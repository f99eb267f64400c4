package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		ForecastTopic string   `yaml:"forecast_topic"`
		RequestTopic  string   `yaml:"request_topic"`
		LogTopic      string   `yaml:"log_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Queue struct {
		Workers    int           `yaml:"workers"`
		QueueSize  int           `yaml:"queue_size"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	MarketData struct {
		APIKey       string   `yaml:"api_key"`
		BaseURL      string   `yaml:"base_url"`
		SecretsFile  string   `yaml:"secrets_file"`
		Exchanges    []string `yaml:"exchanges"`
		ETFOnly      bool     `yaml:"etf_only"`
		RateBurst    float64  `yaml:"rate_burst"`
		RatePerSec   float64  `yaml:"rate_per_sec"`
		LookbackDays int      `yaml:"lookback_days"`
	} `yaml:"marketdata"`
	Forecast struct {
		Horizon      int           `yaml:"horizon"`
		Criterion    string        `yaml:"criterion"`
		Alpha        float64       `yaml:"alpha"`
		Trend        string        `yaml:"trend"`
		Parallelism  int           `yaml:"parallelism"`
		MaxP         int           `yaml:"max_p"`
		MaxD         int           `yaml:"max_d"`
		MaxQ         int           `yaml:"max_q"`
		MaxSeasonalP int           `yaml:"max_seasonal_p"`
		MaxSeasonalD int           `yaml:"max_seasonal_d"`
		MaxSeasonalQ int           `yaml:"max_seasonal_q"`
		Period       int           `yaml:"period"`
		ExogSeriesID int           `yaml:"exog_series_id"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
	} `yaml:"forecast"`
	Smoothing struct {
		Window     int `yaml:"window"`
		Iterations int `yaml:"iterations"`
	} `yaml:"smoothing"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("FORECAST_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Forecast.Parallelism = n
		}
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Forecast.Horizon == 0 {
		c.Forecast.Horizon = 15
	}
	if c.Forecast.Criterion == "" {
		c.Forecast.Criterion = "aic"
	}
	if c.Forecast.Alpha == 0 {
		c.Forecast.Alpha = 0.05
	}
	if c.Forecast.MaxP == 0 {
		c.Forecast.MaxP = 3
	}
	if c.Forecast.MaxD == 0 {
		c.Forecast.MaxD = 2
	}
	if c.Forecast.MaxQ == 0 {
		c.Forecast.MaxQ = 3
	}
	if c.Forecast.CacheTTL == 0 {
		c.Forecast.CacheTTL = 6 * time.Hour
	}
	if c.Smoothing.Window == 0 {
		c.Smoothing.Window = 30
	}
	if c.Smoothing.Iterations == 0 {
		c.Smoothing.Iterations = 3
	}
	if c.MarketData.LookbackDays == 0 {
		c.MarketData.LookbackDays = 365
	}
	if c.MarketData.RateBurst == 0 {
		c.MarketData.RateBurst = 30
	}
	if c.MarketData.RatePerSec == 0 {
		c.MarketData.RatePerSec = 0.5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.Forecast.Criterion != "aic" && c.Forecast.Criterion != "bic" {
		return fmt.Errorf("forecast.criterion must be 'aic' or 'bic', got '%s'", c.Forecast.Criterion)
	}
	if c.Forecast.Alpha <= 0 || c.Forecast.Alpha >= 1 {
		return fmt.Errorf("forecast.alpha must be in (0, 1), got %v", c.Forecast.Alpha)
	}
	seasonal := c.Forecast.MaxSeasonalP > 0 || c.Forecast.MaxSeasonalD > 0 || c.Forecast.MaxSeasonalQ > 0
	if seasonal && c.Forecast.Period <= 0 {
		return fmt.Errorf("forecast.period is required when seasonal limits are set")
	}
	return nil
}
