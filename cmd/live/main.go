package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-core/internal/engine"
	"github.com/rxtech-lab/argo-core/internal/feed"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/metrics"
	"github.com/rxtech-lab/argo-core/internal/strategy"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// newRouter serves the Prometheus registry and the last published snapshot.
func newRouter(registry *prometheus.Registry, snapshot *atomic.Pointer[types.Snapshot]) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	}).Methods("GET")
	router.HandleFunc("/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		current := snapshot.Load()
		if current == nil {
			http.Error(w, "engine not started", http.StatusServiceUnavailable)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(current)
	}).Methods("GET")

	return router
}

func liveAction(ctx context.Context, cmd *cli.Command) error {
	config := engine.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			return err
		}

		config = loaded
	}

	log, err := logger.NewLoggerWithLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer func() { _ = log.Sync() }()

	registry := prometheus.NewRegistry()

	m, err := metrics.New(registry, "live")
	if err != nil {
		return err
	}

	sma, err := strategy.NewSMACrossover(config.Strategy)
	if err != nil {
		return err
	}

	liveFeed, producer := feed.NewLiveFeed(int(cmd.Int("buffer")))

	ingestor, err := feed.NewStreamIngestor(feed.StreamIngestorConfig{
		URL:         cmd.String("url"),
		Exchange:    config.Portfolio.Exchange,
		Instrument:  cmd.String("instrument"),
		ReadTimeout: cmd.Duration("read-timeout"),
	}, producer, log)
	if err != nil {
		return err
	}

	ingestor.OnDecodeError = func(error) {
		m.Error(metrics.StageFeed)
	}

	trader, err := engine.NewEngine(config, engine.Components{
		Feed:     liveFeed,
		Strategy: sma,
		Metrics:  m,
	}, log)
	if err != nil {
		return err
	}

	var snapshot atomic.Pointer[types.Snapshot]

	publish := func() {
		current := trader.Portfolio().Snapshot()
		snapshot.Store(&current)
	}

	srv := &http.Server{
		Addr:              cmd.String("listen"),
		Handler:           newRouter(registry, &snapshot),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Serving metrics", zap.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := ingestor.Run(ctx); err != nil {
			log.Error("Stream ingestor stopped", zap.Error(err))
		}
	}()

	onStart := engine.OnEngineStartCallback(func(engineID string, _ types.Snapshot) error {
		publish()
		log.Info("Live trading started", zap.String("engine_id", engineID), zap.String("url", cmd.String("url")))

		return nil
	})
	onAccountEvents := engine.OnAccountEventsCallback(func(_ []types.AccountEvent) error {
		publish()

		return nil
	})
	onError := engine.OnErrorCallback(func(err error) {
		log.Warn("Trading loop error", zap.Error(err))
	})

	err = trader.Run(ctx, engine.Callbacks{
		OnEngineStart:   &onStart,
		OnAccountEvents: &onAccountEvents,
		OnError:         &onError,
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if errors.Is(err, context.Canceled) {
		log.Info("Live trading stopped by user")

		return nil
	}

	return err
}

func main() {
	cmd := &cli.Command{
		Name:  "live",
		Usage: "Run the trading loop against a websocket candle stream",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "Websocket endpoint streaming JSON candles",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a yaml config, defaults are used when empty",
			},
			&cli.StringFlag{
				Name:    "instrument",
				Aliases: []string{"i"},
				Usage:   "Instrument assigned to candles that do not carry one",
				Value:   "btc_usdt",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address of the metrics server",
				Value: ":9090",
			},
			&cli.IntFlag{
				Name:  "buffer",
				Usage: "Initial capacity of the live feed buffer",
				Value: 256,
			},
			&cli.DurationFlag{
				Name:  "read-timeout",
				Usage: "Maximum silence between two frames, zero disables it",
				Value: time.Minute,
			},
		},
		Action: liveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
