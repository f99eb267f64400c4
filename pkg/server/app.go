// Package server owns the application lifecycle: schema init, queue and
// consumer startup, the HTTP server and graceful shutdown.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Condor/internal/domain/repository"
	"Condor/internal/usecase"
	"Condor/pkg/config"
	xhttp "Condor/pkg/http"
	pkgkafka "Condor/pkg/kafka"
	applogger "Condor/pkg/logger"
	"Condor/pkg/queue"
)

// schemaIniter is implemented by stores that create their own tables.
type schemaIniter interface {
	Init(ctx context.Context) error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	runner     *queue.RedisQueue
	refresher  *usecase.HistoryRefresher
	httpServer *xhttp.Server

	prices    repository.PriceStore
	forecasts repository.ForecastStore
	exogenous repository.ExogenousStore
	publisher repository.Publisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	runner *queue.RedisQueue,
	prices repository.PriceStore,
	forecasts repository.ForecastStore,
	exogenous repository.ExogenousStore,
	publisher repository.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		consumer:  consumer,
		kh:        kh,
		runner:    runner,
		prices:    prices,
		forecasts: forecasts,
		exogenous: exogenous,
		publisher: publisher,
	}
}

// SetRefresher attaches the daily history refresh sweep.
func (a *App) SetRefresher(r *usecase.HistoryRefresher) { a.refresher = r }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.initSchemas(ctx); err != nil {
		return err
	}

	if a.runner != nil {
		if err := a.runner.Start(); err != nil {
			a.log.Error("queue start failed", applogger.Error(err))
			return err
		}
	}

	if a.consumer != nil && a.kh != nil && a.kh.Topic() != "" {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if a.refresher != nil && len(a.cfg.MarketData.Exchanges) > 0 {
		go a.refreshLoop(ctx)
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// refreshLoop runs the provider history sweep once at startup and then
// every 24 hours.
func (a *App) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if err := a.refresher.RefreshExchanges(ctx, a.cfg.MarketData.Exchanges, a.cfg.MarketData.ETFOnly); err != nil {
			a.log.Error("history refresh sweep failed", applogger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// initSchemas ensures every store's tables exist before serving.
func (a *App) initSchemas(ctx context.Context) error {
	for _, store := range []interface{}{a.prices, a.forecasts, a.exogenous} {
		s, ok := store.(schemaIniter)
		if !ok || s == nil {
			continue
		}
		if err := s.Init(ctx); err != nil {
			a.log.Error("schema init failed", applogger.Error(err))
			return err
		}
	}
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.runner != nil {
		if err := a.runner.Stop(shutdownCtx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.prices != nil {
		if err := a.prices.Close(); err != nil {
			a.log.Warn("price store close error", applogger.Error(err))
		}
	}
	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}
