package main

import (
	"log/slog"
	"time"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	MetricsPort     uint16        `env:"METRICS_PORT" envDefault:"9091"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PostgresDSN     string        `env:"PG_DSN"`
}
