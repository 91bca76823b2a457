// Package metrics exposes Prometheus collectors for the trading loop:
//
//   - argo_ticks_total            market events pulled from the feed
//   - argo_signals_total{decision} decisions carried by strategy signals
//   - argo_orders_total{side}     orders handed to execution
//   - argo_vetoes_total           signals that produced no order
//   - argo_fills_total{side}      fills applied to the ledger
//   - argo_errors_total{stage}    errors by loop stage
//   - argo_equity                 portfolio equity after the last tick
//   - argo_cash                   portfolio cash total after the last tick
//
// Every series carries a constant mode label (backtest or live). A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// Stage names a step of the trading loop in argo_errors_total.
type Stage string

const (
	StageFeed      Stage = "feed"
	StageStrategy  Stage = "strategy"
	StageOrder     Stage = "order"
	StageExecution Stage = "execution"
	StageLedger    Stage = "ledger"
	StageJournal   Stage = "journal"
	StageCallback  Stage = "callback"
)

// Metrics holds the loop collectors.
type Metrics struct {
	ticks   prometheus.Counter
	signals *prometheus.CounterVec
	orders  *prometheus.CounterVec
	vetoes  prometheus.Counter
	fills   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	equity  prometheus.Gauge
	cash    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer, mode string) (*Metrics, error) {
	labels := prometheus.Labels{"mode": mode}

	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "argo_ticks_total",
			Help:        "Market events pulled from the feed",
			ConstLabels: labels,
		}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "argo_signals_total",
			Help:        "Decisions carried by strategy signals",
			ConstLabels: labels,
		}, []string{"decision"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "argo_orders_total",
			Help:        "Orders handed to execution",
			ConstLabels: labels,
		}, []string{"side"}),
		vetoes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "argo_vetoes_total",
			Help:        "Signals that produced no order",
			ConstLabels: labels,
		}),
		fills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "argo_fills_total",
			Help:        "Fills applied to the ledger",
			ConstLabels: labels,
		}, []string{"side"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "argo_errors_total",
			Help:        "Errors by loop stage",
			ConstLabels: labels,
		}, []string{"stage"}),
		equity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "argo_equity",
			Help:        "Portfolio equity after the last tick",
			ConstLabels: labels,
		}),
		cash: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "argo_cash",
			Help:        "Portfolio cash total after the last tick",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{m.ticks, m.signals, m.orders, m.vetoes, m.fills, m.errors, m.equity, m.cash} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to register metrics", err)
		}
	}

	return m, nil
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}

	m.ticks.Inc()
}

func (m *Metrics) Signal(signal types.Signal) {
	if m == nil {
		return
	}

	for decision := range signal.Decisions {
		m.signals.WithLabelValues(string(decision)).Inc()
	}
}

func (m *Metrics) Order(order types.Order) {
	if m == nil {
		return
	}

	m.orders.WithLabelValues(string(order.Request.Side)).Inc()
}

func (m *Metrics) Veto() {
	if m == nil {
		return
	}

	m.vetoes.Inc()
}

func (m *Metrics) Fill(trade types.Trade) {
	if m == nil {
		return
	}

	m.fills.WithLabelValues(string(trade.Side)).Inc()
}

func (m *Metrics) Error(stage Stage) {
	if m == nil {
		return
	}

	m.errors.WithLabelValues(string(stage)).Inc()
}

// Snapshot sets the equity and cash gauges.
func (m *Metrics) Snapshot(snapshot types.Snapshot) {
	if m == nil {
		return
	}

	m.equity.Set(snapshot.Equity)
	m.cash.Set(snapshot.Balance.Total)
}
