package main

import (
	"context"
	"fmt"
	"iter"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-core/internal/engine"
	"github.com/rxtech-lab/argo-core/internal/feed"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/metrics"
	"github.com/rxtech-lab/argo-core/internal/portfolio/repository"
	"github.com/rxtech-lab/argo-core/internal/strategy"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// marketData resolves the candle source: a parquet or csv file when --data is
// set, a seeded random walk otherwise.
func marketData(cmd *cli.Command, config engine.Config, log *logger.Logger) (iter.Seq2[types.MarketEvent, error], int, func(), error) {
	dataPath := cmd.String("data")
	if dataPath == "" {
		walk := feed.DefaultRandomWalkConfig()
		walk.Seed = int64(cmd.Int("seed"))
		walk.Count = int(cmd.Int("count"))
		walk.Exchange = config.Portfolio.Exchange
		walk.Instrument = cmd.String("instrument")

		seq := func(yield func(types.MarketEvent, error) bool) {
			for event := range feed.RandomWalk(walk) {
				if !yield(event, nil) {
					return
				}
			}
		}

		return seq, walk.Count, func() {}, nil
	}

	source, err := feed.NewDuckDBSource(config.Portfolio.Exchange, log)
	if err != nil {
		return nil, 0, nil, err
	}

	if err := source.Load(dataPath); err != nil {
		_ = source.Close()

		return nil, 0, nil, err
	}

	symbol := optional.None[string]()
	if cmd.IsSet("instrument") {
		symbol = optional.Some(cmd.String("instrument"))
	}

	count, err := source.Count(symbol)
	if err != nil {
		_ = source.Close()

		return nil, 0, nil, err
	}

	return source.Events(symbol), count, func() { _ = source.Close() }, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
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

	events, count, closeSource, err := marketData(cmd, config, log)
	if err != nil {
		return fmt.Errorf("failed to open market data: %w", err)
	}
	defer closeSource()

	sma, err := strategy.NewSMACrossover(config.Strategy)
	if err != nil {
		return err
	}

	m, err := metrics.New(prometheus.NewRegistry(), "backtest")
	if err != nil {
		return err
	}

	journal, err := repository.NewDuckDBJournal(log)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	historical := feed.NewHistoricalFeedWithErrors(events)
	defer historical.Close()

	backtester, err := engine.NewEngine(config, engine.Components{
		Feed:     historical,
		Strategy: sma,
		Journal:  journal,
		Metrics:  m,
	}, log)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(count))
	bar.Describe(fmt.Sprintf("Backtesting %s", sma.Name()))

	fills := 0

	onMarket := engine.OnMarketCallback(func(_ types.MarketEvent, _ optional.Option[types.PositionUpdate]) error {
		return bar.Add(1)
	})
	onFill := engine.OnFillCallback(func(trade types.Trade) error {
		fills++

		log.Debug("Fill",
			zap.String("instrument", trade.Instrument),
			zap.String("side", string(trade.Side)),
			zap.Float64("quantity", trade.Quantity),
			zap.Float64("price", trade.Price),
		)

		return nil
	})
	onStop := engine.OnEngineStopCallback(func(snapshot types.Snapshot, err error) {
		_ = bar.Finish()

		fmt.Println()
		fmt.Printf("Fills:          %d\n", fills)
		fmt.Printf("Cash:           %.4f %s\n", snapshot.Balance.Total, config.Portfolio.Currency)
		fmt.Printf("Equity:         %.4f\n", snapshot.Equity)
		fmt.Printf("Realised PnL:   %.4f\n", snapshot.RealisedPnL)
		fmt.Printf("Unrealised PnL: %.4f\n", snapshot.UnrealisedPnL)
		fmt.Printf("Total fees:     %.4f\n", snapshot.TotalFees)
		fmt.Printf("Open positions: %d\n", len(snapshot.Positions))

		if err != nil {
			fmt.Printf("Stopped with error: %v\n", err)
		}
	})

	start := time.Now()

	if err := backtester.Run(ctx, engine.Callbacks{
		OnMarket:     &onMarket,
		OnFill:       &onFill,
		OnEngineStop: &onStop,
	}); err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	log.Info("Backtest completed", zap.Duration("elapsed", time.Since(start)))

	if dir := cmd.String("results"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}

		path, err := journal.ExportParquet(dir)
		if err != nil {
			return err
		}

		fmt.Printf("Account events written to %s\n", path)
	}

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	config := engine.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay historical candles through the trading loop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a yaml config, defaults are used when empty",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Parquet or csv file with time, symbol, open, high, low, close and volume columns",
			},
			&cli.StringFlag{
				Name:    "instrument",
				Aliases: []string{"i"},
				Usage:   "Instrument to replay; filters --data when set",
				Value:   "btc_usdt",
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Directory to export account events to as parquet",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed of the random walk used when --data is empty",
				Value: 42,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of random walk candles",
				Value: 1000,
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
