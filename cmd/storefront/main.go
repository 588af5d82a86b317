package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/app"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const (
	envCatalogPath = "STOREFRONT_CATALOG"
	envMetricsAddr = "STOREFRONT_METRICS_ADDR"
	envLogLevel    = "STOREFRONT_LOG_LEVEL"
)

// envLookup абстрагирует os.LookupEnv для тестов.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("неизвестный уровень логирования, используем info")
		return
	}
	log.SetLevel(parsed)
}

// readConfigFromEnv формирует конфигурацию приложения из переменных окружения.
func readConfigFromEnv(lookup envLookup) (app.Config, string) {
	cfg := app.DefaultConfig()
	logLevel := "info"

	if v, ok := lookup(envCatalogPath); ok && strings.TrimSpace(v) != "" {
		cfg.CatalogPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envLogLevel); ok && strings.TrimSpace(v) != "" {
		logLevel = strings.ToLower(strings.TrimSpace(v))
	}

	return cfg, logLevel
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Println(version.String())
		return
	}

	cfg, logLevel := readConfigFromEnv(os.LookupEnv)
	setupLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fields := log.Fields{"catalog": cfg.CatalogPath}
	if cfg.MetricsAddr != "" {
		fields["metrics_addr"] = cfg.MetricsAddr
	}
	log.WithFields(fields).Info("запускаем storefront")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("storefront остановлен")
}
