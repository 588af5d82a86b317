// Package app собирает зависимости storefront и запускает меню магазина.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/cli"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/order"
	"github.com/vladislavdragonenkov/storefront/internal/store"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	// CatalogPath — путь к YAML-каталогу; пустое значение включает демо-ассортимент.
	CatalogPath string
	// MetricsAddr — адрес HTTP-листенера /metrics и /healthz; пустое значение отключает его.
	MetricsAddr string

	// In и Out подменяются в тестах; по умолчанию stdin/stdout.
	In  io.Reader
	Out io.Writer
}

// DefaultConfig возвращает конфигурацию для интерактивного запуска без метрик.
func DefaultConfig() Config {
	return Config{}
}

// Run строит магазин, поднимает опциональный листенер метрик и крутит меню
// до выхода пользователя или отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storeInstance, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	processor := order.NewProcessor(storeInstance, logger.WithField("component", "order"))

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("store", healthcheck.NewStoreChecker(storeInstance))

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	}

	in := cfg.In
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	menu := cli.NewMenu(storeInstance, processor, in, out, logger.WithField("component", "cli"))
	runErr := menu.Run(ctx)

	shutdownHTTP(metricsSrv, logger)
	return runErr
}

// buildStore загружает каталог из файла или собирает демо-ассортимент.
func buildStore(cfg Config, logger *log.Entry) (*store.Store, error) {
	if cfg.CatalogPath == "" {
		logger.Info("файл каталога не задан, используем демо-ассортимент")
		return catalog.DemoStore()
	}

	s, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"catalog":  cfg.CatalogPath,
		"products": s.Len(),
	}).Info("каталог загружен")
	return s, nil
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
