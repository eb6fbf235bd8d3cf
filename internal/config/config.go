package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/climatesense/climatesense/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string `validate:"required"`
	GeminiAPIKey      string
	GeminiModel       string
	NewsAPIKey        string
	GeocoderAPIKey    string

	// DefaultLocation is monitored until the control file says otherwise.
	DefaultLocation weather.Location `validate:"required"`

	// CycleInterval controls how often a full monitoring cycle runs.
	CycleInterval time.Duration `validate:"gt=0"`

	// DirectivePollInterval is how often the idle loop re-reads the
	// control file between cycles.
	DirectivePollInterval time.Duration `validate:"gt=0"`

	ControlFilePath string `validate:"required"`
	MemoryFilePath  string `validate:"required"`

	// Trend analysis window.
	TrendWindow int `validate:"gte=2"`

	// Memory store retention (0 = unlimited).
	StoreMaxHistory     int
	StoreMaxAge         time.Duration
	MaintenanceInterval time.Duration `validate:"gt=0"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	Port        string `validate:"required"`
	MetricsAddr string `validate:"required"`

	LogLevel  string
	LogFormat string

	// Kafka alert publishing is enabled only when brokers are set.
	AlertKafkaBrokers []string
	AlertKafkaTopic   string
}

// AlertsViaKafka reports whether elevated-risk records should also be
// published to Kafka.
func (c *AppConfig) AlertsViaKafka() bool {
	return len(c.AlertKafkaBrokers) > 0 && c.AlertKafkaTopic != ""
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	rawLocation := getenvDefault("DEFAULT_LOCATION", "Kerala,IN")
	loc := weather.ParseLocation(rawLocation)
	if loc.City == "" || loc.Country == "" {
		return nil, fmt.Errorf("invalid DEFAULT_LOCATION %q: expected \"City,CC\"", rawLocation)
	}
	cfg.DefaultLocation = loc

	var err error

	cfg.CycleInterval, err = getenvDuration("CYCLE_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.DirectivePollInterval, err = getenvDuration("DIRECTIVE_POLL_INTERVAL", "2s")
	if err != nil {
		return nil, err
	}

	cfg.ControlFilePath = getenvDefault("CONTROL_FILE", "control_file.json")
	cfg.MemoryFilePath = getenvDefault("MEMORY_FILE", "memory_log.json")

	cfg.TrendWindow = getenvInt("TREND_WINDOW", 5)

	// Store retention: unlimited by default, the log is append-only unless
	// the operator opts in to pruning.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 0)
	cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0s")
	if err != nil {
		return nil, err
	}
	cfg.MaintenanceInterval, err = getenvDuration("MAINTENANCE_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.MetricsAddr = getenvDefault("METRICS_ADDR", ":9090")

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	if brokers := os.Getenv("ALERTS_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.AlertKafkaBrokers = append(cfg.AlertKafkaBrokers, b)
			}
		}
	}
	cfg.AlertKafkaTopic = getenvDefault("ALERTS_KAFKA_TOPIC", "climatesense.alerts")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
