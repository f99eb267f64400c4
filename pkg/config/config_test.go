package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
clickhouse:
  host: localhost
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Forecast.Horizon != 15 {
		t.Fatalf("default horizon: got %d want 15", c.Forecast.Horizon)
	}
	if c.Forecast.Criterion != "aic" {
		t.Fatalf("default criterion: got %q want aic", c.Forecast.Criterion)
	}
	if c.Forecast.Alpha != 0.05 {
		t.Fatalf("default alpha: got %v want 0.05", c.Forecast.Alpha)
	}
	if c.Forecast.MaxP != 3 || c.Forecast.MaxD != 2 || c.Forecast.MaxQ != 3 {
		t.Fatalf("default order limits: got (%d,%d,%d)", c.Forecast.MaxP, c.Forecast.MaxD, c.Forecast.MaxQ)
	}
	if c.Forecast.CacheTTL != 6*time.Hour {
		t.Fatalf("default cache TTL: got %v", c.Forecast.CacheTTL)
	}
	if c.Smoothing.Window != 30 || c.Smoothing.Iterations != 3 {
		t.Fatalf("default smoothing: got (%d, %d)", c.Smoothing.Window, c.Smoothing.Iterations)
	}
	if c.MarketData.LookbackDays != 365 {
		t.Fatalf("default lookback: got %d", c.MarketData.LookbackDays)
	}
	if c.Logging.Level != "info" || c.Logging.Format != "json" {
		t.Fatalf("default logging: got (%q, %q)", c.Logging.Level, c.Logging.Format)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "clickhouse:\n  host: localhost\n")); err == nil {
		t.Fatalf("expected error for missing environment")
	}
}

func TestLoadRejectsMissingClickHouseHost(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected error for missing clickhouse host")
	}
}

func TestLoadRejectsUnknownCriterion(t *testing.T) {
	body := minimalYAML + `
forecast:
  criterion: hqic
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for unknown criterion")
	}
}

func TestLoadRejectsAlphaOutOfRange(t *testing.T) {
	body := minimalYAML + `
forecast:
  alpha: 1.5
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for alpha outside (0, 1)")
	}
}

func TestLoadRejectsSeasonalWithoutPeriod(t *testing.T) {
	body := minimalYAML + `
forecast:
  max_seasonal_p: 1
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for seasonal limits without period")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FORECAST_PARALLELISM", "4")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ClickHouse.Host != "ch.internal" {
		t.Fatalf("clickhouse host override: got %q", c.ClickHouse.Host)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "k1:9092" {
		t.Fatalf("kafka brokers override: got %v", c.Kafka.Brokers)
	}
	if c.Forecast.Parallelism != 4 {
		t.Fatalf("parallelism override: got %d", c.Forecast.Parallelism)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
