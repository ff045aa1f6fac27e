package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/internal/observability/logger"
	"github.com/welltrack/welltrack/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		provideRegistry,
		metrics.New,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	}
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}
