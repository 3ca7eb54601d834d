package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Rutas fijas del job: no hay flags ni variables para cambiarlas.
const (
	DataPath = "skygeni_sales_data.csv"
	OutDir   = "skygeni_charts"
)

type Config struct {
	DataPath        string
	OutDir          string
	LogLevel        string
	MetricsTextfile string
}

// Lo único que sale del entorno: nivel de log y archivo de métricas.
type ambient struct {
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE" validate:"omitempty,endswith=.prom"`
}

var validate = validator.New()

func Default() Config {
	return Config{
		DataPath: DataPath,
		OutDir:   OutDir,
		LogLevel: "info",
	}
}

// Si hay error se devuelve Default() igual, usable.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	var amb ambient
	if err := envconfig.Process("", &amb); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	amb.LogLevel = strings.ToLower(strings.TrimSpace(amb.LogLevel))
	if amb.LogLevel == "" {
		// LOG_LEVEL= vacío no aplica el default de envconfig
		amb.LogLevel = cfg.LogLevel
	}
	if err := validate.Struct(amb); err != nil {
		return cfg, fmt.Errorf("invalid env: %w", err)
	}
	cfg.LogLevel = amb.LogLevel
	cfg.MetricsTextfile = amb.MetricsTextfile
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
