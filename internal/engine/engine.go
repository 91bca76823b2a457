// Package engine runs the trading loop: it pulls the market feed, marks the
// portfolio, asks the strategy for signals, turns them into orders, executes
// them and applies the fills, one market event at a time.
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/execution"
	"github.com/rxtech-lab/argo-core/internal/feed"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/metrics"
	"github.com/rxtech-lab/argo-core/internal/portfolio"
	"github.com/rxtech-lab/argo-core/internal/portfolio/repository"
	"github.com/rxtech-lab/argo-core/internal/strategy"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"go.uber.org/zap"
)

// Lifecycle callback types.
// Callbacks returning an error abort the loop.

// OnEngineStartCallback is called once before the first feed pull.
type OnEngineStartCallback func(engineID string, snapshot types.Snapshot) error

// OnEngineStopCallback is called when Run returns (always called via defer).
type OnEngineStopCallback func(snapshot types.Snapshot, err error)

// OnMarketCallback is called for each market event after the portfolio has been marked.
type OnMarketCallback func(event types.MarketEvent, update optional.Option[types.PositionUpdate]) error

// OnSignalCallback is called for each strategy signal before it is sized.
type OnSignalCallback func(signal types.Signal) error

// OnOrderCallback is called when an order is handed to execution.
type OnOrderCallback func(order types.Order) error

// OnFillCallback is called after a fill has been applied to the ledger.
type OnFillCallback func(trade types.Trade) error

// OnAccountEventsCallback is called with every batch of ledger events.
type OnAccountEventsCallback func(events []types.AccountEvent) error

// OnErrorCallback is called when a non-fatal error occurs.
type OnErrorCallback func(err error)

// Callbacks holds all lifecycle callback functions for the engine.
// All fields are pointers - nil means no callback will be invoked.
type Callbacks struct {
	OnEngineStart   *OnEngineStartCallback
	OnEngineStop    *OnEngineStopCallback
	OnMarket        *OnMarketCallback
	OnSignal        *OnSignalCallback
	OnOrder         *OnOrderCallback
	OnFill          *OnFillCallback
	OnAccountEvents *OnAccountEventsCallback
	OnError         *OnErrorCallback
}

// Components are the collaborators of the loop. Feed and Strategy are
// required. A nil Portfolio or Execution is built from the Config; Journal and
// Metrics are optional.
type Components struct {
	Feed      feed.MarketGenerator
	Strategy  strategy.SignalGenerator
	Portfolio portfolio.Manager
	Execution execution.ExecutionClient
	Journal   repository.Journal
	Metrics   *metrics.Metrics
}

// Engine drives one portfolio. Run must not be called concurrently;
// ExitPosition may be called from any goroutine.
type Engine struct {
	id        string
	config    Config
	feed      feed.MarketGenerator
	strategy  strategy.SignalGenerator
	portfolio portfolio.Manager
	execution execution.ExecutionClient
	journal   repository.Journal
	metrics   *metrics.Metrics
	logger    *logger.Logger

	exits   *feed.Buffer[types.SignalForceExit]
	running atomic.Bool
}

// NewEngine validates config and wires the components into an engine.
func NewEngine(config Config, components Components, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if components.Feed == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "engine requires a market feed")
	}

	if components.Strategy == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "engine requires a signal generator")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if components.Portfolio == nil {
		// size orders against the fees execution will actually charge
		fees := execution.NewFeeEstimator(execution.GetFeeModel(config.Execution))
		risk := portfolio.NewDefaultRiskWithFees(config.Portfolio.Risk, config.Portfolio.Allocator.DecimalPrecision, fees)

		p, err := portfolio.NewPortfolioWithPolicies(config.Portfolio, portfolio.NewAllocator(config.Portfolio.Allocator), risk, log)
		if err != nil {
			return nil, err
		}

		components.Portfolio = p
	}

	if components.Execution == nil {
		client, err := execution.NewSimulatedExecution(config.Execution, log)
		if err != nil {
			return nil, err
		}

		components.Execution = client
	}

	return &Engine{
		id:        uuid.New().String(),
		config:    config,
		feed:      components.Feed,
		strategy:  components.Strategy,
		portfolio: components.Portfolio,
		execution: components.Execution,
		journal:   components.Journal,
		metrics:   components.Metrics,
		logger:    log,
		exits:     feed.NewBuffer[types.SignalForceExit](8),
	}, nil
}

// ID returns the engine id.
func (e *Engine) ID() string {
	return e.id
}

// Portfolio returns the ledger the engine drives.
func (e *Engine) Portfolio() portfolio.Manager {
	return e.portfolio
}

// ExitPosition queues a force exit for the position on exchange and
// instrument. It is applied at the start of the next tick, after the market
// update. Returns false if the queue is closed.
func (e *Engine) ExitPosition(exchange, instrument string) bool {
	// a zero timestamp prices the exit at the position's last mark
	return e.exits.Send(types.NewSignalForceExit(exchange, instrument, time.Time{}))
}

// Run pulls the feed until it is Finished (returns nil) or Unhealthy (returns
// an ErrCodeFeedUnhealthy error), the context is cancelled, or a fatal error
// occurs.
func (e *Engine) Run(ctx context.Context, callbacks Callbacks) (runErr error) {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeEngineNotReady, "engine is already running")
	}

	ticks := 0

	defer func() {
		e.running.Store(false)

		snapshot := e.portfolio.Snapshot()
		e.logger.Info("Engine stopped",
			zap.String("engine_id", e.id),
			zap.Int("ticks", ticks),
			zap.Float64("equity", snapshot.Equity),
			zap.Float64("realised_pnl", snapshot.RealisedPnL),
			zap.Error(runErr),
		)

		if callbacks.OnEngineStop != nil {
			(*callbacks.OnEngineStop)(snapshot, runErr)
		}
	}()

	e.logger.Info("Engine started",
		zap.String("engine_id", e.id),
		zap.String("strategy", e.strategy.Name()),
	)

	if callbacks.OnEngineStart != nil {
		if err := (*callbacks.OnEngineStart)(e.id, e.portfolio.Snapshot()); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnEngineStart callback failed", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		next := e.feed.Generate()

		switch next.Status {
		case feed.StatusFinished:
			return nil
		case feed.StatusUnhealthy:
			return errors.New(errors.ErrCodeFeedUnhealthy, "market feed is unhealthy")
		case feed.StatusNext:
		}

		ticks++

		if err := e.tick(ctx, next.Event, callbacks); err != nil {
			return err
		}
	}
}

func (e *Engine) tick(ctx context.Context, event types.MarketEvent, callbacks Callbacks) error {
	e.metrics.Tick()

	if err := event.Validate(); err != nil {
		e.recoverable(metrics.StageFeed, err, callbacks)

		return nil
	}

	update := e.portfolio.UpdateFromMarket(event)

	if callbacks.OnMarket != nil {
		if err := (*callbacks.OnMarket)(event, update); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnMarket callback failed", err)
		}
	}

	for {
		exit, ok := e.exits.TryReceive()
		if !ok {
			break
		}

		order, err := e.portfolio.GenerateExitOrder(exit)
		if err != nil {
			e.recoverable(metrics.StageOrder, err, callbacks)

			continue
		}

		if order.IsNone() {
			e.logger.Debug("Force exit without open position", zap.String("position_id", exit.PositionID()))

			continue
		}

		if err := e.execute(ctx, order.Unwrap(), callbacks); err != nil {
			return err
		}
	}

	signal := e.strategy.GenerateSignal(event)
	if signal.IsSome() {
		if err := e.handleSignal(ctx, signal.Unwrap(), callbacks); err != nil {
			return err
		}
	}

	e.metrics.Snapshot(e.portfolio.Snapshot())

	return nil
}

func (e *Engine) handleSignal(ctx context.Context, signal types.Signal, callbacks Callbacks) error {
	e.metrics.Signal(signal)

	if callbacks.OnSignal != nil {
		if err := (*callbacks.OnSignal)(signal); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnSignal callback failed", err)
		}
	}

	order, err := e.portfolio.GenerateOrder(signal)
	if err != nil {
		e.recoverable(metrics.StageOrder, err, callbacks)

		return nil
	}

	if order.IsNone() {
		e.metrics.Veto()

		return nil
	}

	return e.execute(ctx, order.Unwrap(), callbacks)
}

// execute submits an order, fills it and applies the fill. Execution and
// ledger failures drop the order; only callback failures and, when
// configured, ledger failures are fatal.
func (e *Engine) execute(ctx context.Context, order types.Order, callbacks Callbacks) error {
	submitted, err := e.portfolio.SubmitOrder(order.ClientOrderID)
	if err != nil {
		e.recoverable(metrics.StageLedger, err, callbacks)

		return nil
	}

	e.metrics.Order(submitted)

	if callbacks.OnOrder != nil {
		if err := (*callbacks.OnOrder)(submitted); err != nil {
			e.drop(submitted.ClientOrderID, callbacks)

			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnOrder callback failed", err)
		}
	}

	trade, err := e.execution.GenerateFill(ctx, submitted)
	if err != nil {
		e.recoverable(metrics.StageExecution, err, callbacks)
		e.drop(submitted.ClientOrderID, callbacks)

		return nil
	}

	events, err := e.portfolio.UpdateFromTrade(trade)
	if err != nil {
		e.recoverable(metrics.StageLedger, err, callbacks)
		e.drop(submitted.ClientOrderID, callbacks)

		if e.config.HaltOnLedgerError {
			return errors.Wrap(errors.ErrCodeEngineHalted, "ledger rejected fill", err)
		}

		return nil
	}

	e.metrics.Fill(trade)

	if err := e.record(events, callbacks); err != nil {
		return err
	}

	if callbacks.OnFill != nil {
		if err := (*callbacks.OnFill)(trade); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnFill callback failed", err)
		}
	}

	return nil
}

// drop removes an order that will never fill. Orders that never reached
// the venue are rejected, acknowledged ones are cancelled.
func (e *Engine) drop(clientOrderID string, callbacks Callbacks) {
	events, err := e.portfolio.RejectOrder(clientOrderID)
	if errors.HasCode(err, errors.ErrCodeInvalidOrderTransition) {
		events, err = e.portfolio.CancelOrder(clientOrderID)
	}

	if err != nil {
		e.recoverable(metrics.StageLedger, err, callbacks)

		return
	}

	if err := e.record(events, callbacks); err != nil {
		e.recoverable(metrics.StageCallback, err, callbacks)
	}
}

// record journals a batch of account events. Journal failures are logged and
// reported but do not stop the loop.
func (e *Engine) record(events []types.AccountEvent, callbacks Callbacks) error {
	if len(events) == 0 {
		return nil
	}

	if e.journal != nil {
		if err := e.journal.Record(events); err != nil {
			e.recoverable(metrics.StageJournal, err, callbacks)
		}
	}

	if callbacks.OnAccountEvents != nil {
		if err := (*callbacks.OnAccountEvents)(events); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnAccountEvents callback failed", err)
		}
	}

	return nil
}

func (e *Engine) recoverable(stage metrics.Stage, err error, callbacks Callbacks) {
	e.metrics.Error(stage)

	e.logger.Warn("Recoverable error",
		zap.String("stage", string(stage)),
		zap.Int("code", int(errors.GetCode(err))),
		zap.Error(err),
	)

	if callbacks.OnError != nil {
		(*callbacks.OnError)(err)
	}
}
