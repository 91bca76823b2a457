// Package portfolio is the trading ledger: it sizes and risk checks signals
// into orders, tracks every order through its lifecycle and applies fills to
// positions and cash.
//
// A Portfolio has exactly one writer, the trading loop, and holds no locks.
// Independent portfolios share no state.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/internal/utils"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MarketUpdater marks open positions to market.
type MarketUpdater interface {
	UpdateFromMarket(event types.MarketEvent) optional.Option[types.PositionUpdate]
}

// OrderGenerator turns signals into order requests. None means no trade.
type OrderGenerator interface {
	GenerateOrder(signal types.Signal) (optional.Option[types.Order], error)
	GenerateExitOrder(signal types.SignalForceExit) (optional.Option[types.Order], error)
}

// FillUpdater applies fills to the ledger.
type FillUpdater interface {
	UpdateFromTrade(trade types.Trade) ([]types.AccountEvent, error)
}

// OrderBook drives order lifecycle transitions that do not come from fills.
type OrderBook interface {
	SubmitOrder(clientOrderID string) (types.Order, error)
	AcknowledgeOrder(clientOrderID string, orderID string, open types.OpenState) (types.Order, error)
	CancelOrder(clientOrderID string) ([]types.AccountEvent, error)
	RejectOrder(clientOrderID string) ([]types.AccountEvent, error)
}

// Manager is the full surface the trading loop drives.
type Manager interface {
	MarketUpdater
	OrderGenerator
	FillUpdater
	OrderBook
	Snapshot() types.Snapshot
}

var _ Manager = (*Portfolio)(nil)

// grossTolerance is the relative error allowed between a fill's gross value
// and quantity * price.
const grossTolerance = 1e-9

// Portfolio is the ledger of one account: cash in one currency, positions per
// exchange and instrument, and every order it has issued.
type Portfolio struct {
	config    Config
	allocator Allocator
	risk      RiskManager
	logger    *logger.Logger

	cash decimal.Decimal
	// reserved holds cash set aside for live buy-side orders, by client order id
	reserved  map[string]decimal.Decimal
	positions map[string]types.Position
	orders    map[string]types.Order
	realised  decimal.Decimal
	totalFees decimal.Decimal
	updatedAt time.Time
}

// NewPortfolio creates a portfolio with the allocator and risk manager named by config.
func NewPortfolio(config Config, log *logger.Logger) (*Portfolio, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return NewPortfolioWithPolicies(config, NewAllocator(config.Allocator), NewDefaultRisk(config.Risk, config.Allocator.DecimalPrecision), log)
}

// NewPortfolioWithPolicies creates a portfolio with custom sizing and risk policies.
func NewPortfolioWithPolicies(config Config, allocator Allocator, risk RiskManager, log *logger.Logger) (*Portfolio, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if allocator == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "portfolio requires an allocator")
	}

	if risk == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "portfolio requires a risk manager")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Portfolio{
		config:    config,
		allocator: allocator,
		risk:      risk,
		logger:    log,
		cash:      dec(config.StartingCash),
		reserved:  make(map[string]decimal.Decimal),
		positions: make(map[string]types.Position),
		orders:    make(map[string]types.Order),
		realised:  decimal.Zero,
		totalFees: decimal.Zero,
	}, nil
}

// Config returns the portfolio configuration.
func (p *Portfolio) Config() Config {
	return p.config
}

// UpdateFromMarket implements MarketUpdater. Cash is never touched.
func (p *Portfolio) UpdateFromMarket(event types.MarketEvent) optional.Option[types.PositionUpdate] {
	id := event.PositionID()

	position, ok := p.positions[id]
	if !ok {
		return optional.None[types.PositionUpdate]()
	}

	previous := position.UnrealisedPnL
	mark(&position, event.Close, event.Timestamp)
	p.positions[id] = position
	p.updatedAt = event.Timestamp

	return optional.Some(types.PositionUpdate{
		PositionID:    id,
		Timestamp:     event.Timestamp,
		CurrentPrice:  position.CurrentPrice,
		UnrealisedPnL: position.UnrealisedPnL,
		Change:        flt(dec(position.UnrealisedPnL).Sub(dec(previous))),
	})
}

// GenerateOrder implements OrderGenerator. The allocator sizes the order, then
// the risk manager may shrink or veto it. Nothing is recorded unless an order
// is returned.
func (p *Portfolio) GenerateOrder(signal types.Signal) (optional.Option[types.Order], error) {
	if err := signal.Validate(); err != nil {
		return optional.None[types.Order](), err
	}

	id := signal.PositionID()
	position := p.position(id)

	decision, strength, ok := parseDecisions(signal.Decisions, position)
	if !ok {
		p.logger.Debug("Signal has no actionable decision", zap.String("position_id", id))

		return optional.None[types.Order](), nil
	}

	balance := p.Balance()

	quantity := p.allocator.Allocate(AllocationRequest{
		Decision:   decision,
		Strength:   strength,
		MarketMeta: signal.MarketMeta,
		Balance:    balance,
		Position:   position,
	})
	if quantity < types.QuantityTolerance {
		p.logger.Debug("Allocator declined signal", zap.String("position_id", id), zap.String("decision", string(decision)))

		return optional.None[types.Order](), nil
	}

	candidate := types.NewOrderRequest(signal.Exchange, signal.Instrument, decision, signal.MarketMeta, p.config.orderKind(), decision.Side().Sign()*quantity)

	evaluated := p.risk.Evaluate(candidate, RiskState{
		Balance:    balance,
		Position:   position,
		LiveOrders: p.liveOrdersFor(id),
	})
	if evaluated.IsNone() {
		p.logger.Debug("Risk vetoed order",
			zap.String("position_id", id),
			zap.String("decision", string(decision)),
			zap.Float64("quantity", candidate.Request.Quantity),
		)

		return optional.None[types.Order](), nil
	}

	order := evaluated.Unwrap()
	if err := order.Validate(); err != nil {
		return optional.None[types.Order](), err
	}

	p.track(order)

	return optional.Some(order), nil
}

// GenerateExitOrder implements OrderGenerator. The order closes the whole
// position at market and bypasses the allocator and risk manager.
func (p *Portfolio) GenerateExitOrder(signal types.SignalForceExit) (optional.Option[types.Order], error) {
	id := signal.PositionID()

	position, ok := p.positions[id]
	if !ok {
		return optional.None[types.Order](), nil
	}

	ts := signal.Timestamp
	if ts.IsZero() {
		ts = position.UpdatedAt
	}

	meta := types.MarketMeta{Close: position.CurrentPrice, Timestamp: ts}
	order := types.NewOrderRequest(position.Exchange, position.Instrument, position.ExitDecision(), meta, types.OrderKindMarket, -position.Quantity)

	if err := order.Validate(); err != nil {
		return optional.None[types.Order](), err
	}

	p.track(order)

	p.logger.Info("Force exit requested",
		zap.String("position_id", id),
		zap.Float64("quantity", order.Request.Quantity),
	)

	return optional.Some(order), nil
}

// SubmitOrder moves a tracked order from REQUEST to IN_FLIGHT.
func (p *Portfolio) SubmitOrder(clientOrderID string) (types.Order, error) {
	order, err := p.lookupOrder(clientOrderID)
	if err != nil {
		return types.Order{}, err
	}

	next, err := order.Submit()
	if err != nil {
		return order, err
	}

	p.orders[clientOrderID] = next

	return next, nil
}

// AcknowledgeOrder moves a tracked order from IN_FLIGHT to OPEN.
func (p *Portfolio) AcknowledgeOrder(clientOrderID string, orderID string, open types.OpenState) (types.Order, error) {
	order, err := p.lookupOrder(clientOrderID)
	if err != nil {
		return types.Order{}, err
	}

	next, err := order.Acknowledge(orderID, open)
	if err != nil {
		return order, err
	}

	p.orders[clientOrderID] = next

	return next, nil
}

// CancelOrder moves an OPEN or PARTIALLY_FILLED order to CANCELLED and
// releases its remaining cash reservation.
func (p *Portfolio) CancelOrder(clientOrderID string) ([]types.AccountEvent, error) {
	order, err := p.lookupOrder(clientOrderID)
	if err != nil {
		return nil, err
	}

	cancelled, err := order.Cancel()
	if err != nil {
		return nil, err
	}

	ts := p.updatedAt

	var events []types.AccountEvent
	if p.release(clientOrderID) {
		events = append(events, balanceEvent(p.Balance(), ts))
	}

	p.orders[clientOrderID] = cancelled
	events = append(events, orderEvent(cancelled, ts))

	p.logger.Info("Order cancelled",
		zap.String("client_order_id", clientOrderID),
		zap.Float64("filled_quantity", cancelled.FilledQuantity),
	)

	return events, nil
}

// RejectOrder drops a REQUEST or IN_FLIGHT order that never reached the venue
// and releases its cash reservation.
func (p *Portfolio) RejectOrder(clientOrderID string) ([]types.AccountEvent, error) {
	order, err := p.lookupOrder(clientOrderID)
	if err != nil {
		return nil, err
	}

	if order.State != types.OrderStateRequest && order.State != types.OrderStateInFlight {
		return nil, errors.Newf(errors.ErrCodeInvalidOrderTransition, "order %s in state %s cannot be rejected", clientOrderID, order.State)
	}

	delete(p.orders, clientOrderID)

	var events []types.AccountEvent
	if p.release(clientOrderID) {
		events = append(events, balanceEvent(p.Balance(), p.updatedAt))
	}

	p.logger.Warn("Order rejected", zap.String("client_order_id", clientOrderID))

	return events, nil
}

// UpdateFromTrade implements FillUpdater. The fill is validated against its
// order, applied to copies of the position and cash, and committed only when
// free cash stays non-negative. Events are returned in mutation order:
// position changes, then the balance, then the order.
func (p *Portfolio) UpdateFromTrade(trade types.Trade) ([]types.AccountEvent, error) {
	order, err := p.lookupOrder(trade.ClientOrderID)
	if err != nil {
		return nil, err
	}

	if err := p.checkTrade(order, trade); err != nil {
		return nil, err
	}

	if order.State == types.OrderStateInFlight {
		order, err = order.Acknowledge(trade.OrderID, types.OpenState{
			Side:     order.Request.Side,
			Price:    order.Request.Price,
			Quantity: order.Quantity(),
		})
		if err != nil {
			return nil, err
		}
	}

	remainingBefore := dec(order.RemainingQuantity())

	filled, err := order.Fill(trade.Quantity)
	if err != nil {
		return nil, err
	}

	gross := dec(trade.FillValueGross)
	if gross.IsZero() {
		gross = dec(trade.Quantity).Mul(dec(trade.Price))
	}

	fees := dec(trade.Fees.Total())

	// buys pay gross plus fees, sells receive gross minus fees
	cashFlow := gross.Neg().Sub(fees)
	if trade.Side == types.SideSell {
		cashFlow = gross.Sub(fees)
	}

	cash := p.cash.Add(cashFlow)

	reservation := p.reserved[trade.ClientOrderID]
	remainingReservation := decimal.Zero

	if filled.IsLive() && reservation.IsPositive() && remainingBefore.IsPositive() {
		released := reservation.Mul(dec(trade.Quantity)).Div(remainingBefore)
		remainingReservation = decimal.Max(reservation.Sub(released), decimal.Zero)
	}

	used := p.usedCash().Sub(reservation).Add(remainingReservation)
	if free := cash.Sub(used); free.LessThan(quantityTolerance.Neg()) {
		required, _ := cashFlow.Neg().Float64()
		available, _ := p.cash.Sub(p.usedCash()).Add(reservation).Float64()

		return nil, errors.Wrapf(errors.ErrCodeCashInvariant,
			errors.NewInsufficientFundsError(required, available, p.config.Currency),
			"fill %s would leave free cash at %s", trade.ID, free.String())
	}

	outcome := applyFill(p.position(trade.PositionID()), trade)

	// commit
	p.cash = cash
	if remainingReservation.IsPositive() {
		p.reserved[trade.ClientOrderID] = remainingReservation
	} else {
		delete(p.reserved, trade.ClientOrderID)
	}

	if outcome.position.IsSome() {
		p.positions[trade.PositionID()] = outcome.position.Unwrap()
	} else {
		delete(p.positions, trade.PositionID())
	}

	p.orders[trade.ClientOrderID] = filled
	p.realised = p.realised.Add(outcome.realised)
	p.totalFees = p.totalFees.Add(fees)
	p.updatedAt = trade.Timestamp

	events := make([]types.AccountEvent, 0, len(outcome.events)+2)
	events = append(events, outcome.events...)
	events = append(events, balanceEvent(p.Balance(), trade.Timestamp), orderEvent(filled, trade.Timestamp))

	p.logFill(trade, outcome)

	return events, nil
}

func (p *Portfolio) checkTrade(order types.Order, trade types.Trade) error {
	if order.IsTerminal() {
		return errors.Newf(errors.ErrCodeOrderTerminal, "trade %s references %s order %s", trade.ID, order.State, order.ClientOrderID)
	}

	if order.State == types.OrderStateRequest {
		return errors.Newf(errors.ErrCodeInvalidOrderTransition, "trade %s references order %s that was never submitted", trade.ID, order.ClientOrderID)
	}

	if trade.PositionID() != order.PositionID() {
		return errors.Newf(errors.ErrCodeUnknownInstrument, "trade %s is for %s but order %s is for %s", trade.ID, trade.PositionID(), order.ClientOrderID, order.PositionID())
	}

	if trade.Side != order.Request.Side {
		return errors.Newf(errors.ErrCodeTradeMismatch, "trade %s side %s does not match order side %s", trade.ID, trade.Side, order.Request.Side)
	}

	if trade.Quantity <= 0 || trade.Price <= 0 || !trade.Fees.IsNonNegative() {
		return errors.Newf(errors.ErrCodeTradeMismatch, "trade %s has invalid quantity, price or fees", trade.ID)
	}

	// a zero gross value is derived from quantity and price
	expected := trade.Quantity * trade.Price
	if trade.FillValueGross != 0 && !utils.ApproxEqual(trade.FillValueGross, expected, grossTolerance*math.Max(1, expected)) {
		return errors.Newf(errors.ErrCodeTradeMismatch, "trade %s gross value %v does not match quantity %v at price %v", trade.ID, trade.FillValueGross, trade.Quantity, trade.Price)
	}

	return nil
}

func (p *Portfolio) logFill(trade types.Trade, outcome fillOutcome) {
	for _, event := range outcome.events {
		switch event.Kind {
		case types.AccountEventPositionOpened:
			p.logger.Info("Position opened",
				zap.String("position_id", event.Position.ID),
				zap.Float64("quantity", event.Position.Quantity),
				zap.Float64("price", event.Position.AverageEntryPrice),
			)
		case types.AccountEventPositionExited:
			p.logger.Info("Position reduced",
				zap.String("position_id", event.Exit.PositionID),
				zap.Float64("closed", event.Exit.Quantity),
				zap.Float64("remaining", event.Exit.Remaining),
				zap.Float64("realised_pnl", event.Exit.RealisedPnL),
			)
		default:
		}
	}

	p.logger.Debug("Fill applied",
		zap.String("trade_id", trade.ID),
		zap.String("client_order_id", trade.ClientOrderID),
		zap.Float64("quantity", trade.SignedQuantity()),
		zap.Float64("price", trade.Price),
	)
}

// track records a freshly issued order and reserves cash for buys.
func (p *Portfolio) track(order types.Order) {
	p.orders[order.ClientOrderID] = order

	if order.Request.Side != types.SideBuy {
		return
	}

	required := dec(order.Request.Quantity).Abs().
		Mul(dec(order.MarketMeta.Close)).
		Mul(decimal.NewFromInt(1).Add(dec(p.config.Risk.FeeBufferPct)))

	free := p.cash.Sub(p.usedCash())
	reservation := decimal.Min(required, decimal.Max(free, decimal.Zero))

	if reservation.IsPositive() {
		p.reserved[order.ClientOrderID] = reservation
	}
}

// release frees any cash reserved for the order. Reports whether anything was released.
func (p *Portfolio) release(clientOrderID string) bool {
	if _, ok := p.reserved[clientOrderID]; !ok {
		return false
	}

	delete(p.reserved, clientOrderID)

	return true
}

func (p *Portfolio) usedCash() decimal.Decimal {
	used := decimal.Zero
	for _, amount := range p.reserved {
		used = used.Add(amount)
	}

	return used
}

func (p *Portfolio) lookupOrder(clientOrderID string) (types.Order, error) {
	order, ok := p.orders[clientOrderID]
	if !ok {
		return types.Order{}, errors.Newf(errors.ErrCodeUnknownOrder, "unknown client order id %s", clientOrderID)
	}

	return order, nil
}

func (p *Portfolio) position(id string) optional.Option[types.Position] {
	position, ok := p.positions[id]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(position)
}

func (p *Portfolio) liveOrdersFor(id string) []types.Order {
	var live []types.Order

	for _, order := range p.orders {
		if order.IsLive() && order.PositionID() == id {
			live = append(live, order)
		}
	}

	sortOrders(live)

	return live
}

// Balance returns the cash balance. Total == Free + Used.
func (p *Portfolio) Balance() types.Balance {
	used := p.usedCash()

	return types.Balance{
		Asset: p.config.Currency,
		Total: flt(p.cash),
		Free:  flt(p.cash.Sub(used)),
		Used:  flt(used),
	}
}

// Position returns the open position for an exchange and instrument.
func (p *Portfolio) Position(exchange, instrument string) optional.Option[types.Position] {
	return p.position(types.PositionID(exchange, instrument))
}

// Positions returns every open position ordered by id.
func (p *Portfolio) Positions() []types.Position {
	positions := make([]types.Position, 0, len(p.positions))
	for _, position := range p.positions {
		positions = append(positions, position)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].ID < positions[j].ID
	})

	return positions
}

// Order returns a tracked order, including terminal ones.
func (p *Portfolio) Order(clientOrderID string) optional.Option[types.Order] {
	order, ok := p.orders[clientOrderID]
	if !ok {
		return optional.None[types.Order]()
	}

	return optional.Some(order)
}

// LiveOrders returns every non-terminal order.
func (p *Portfolio) LiveOrders() []types.Order {
	var live []types.Order

	for _, order := range p.orders {
		if order.IsLive() {
			live = append(live, order)
		}
	}

	sortOrders(live)

	return live
}

// RealisedPnL returns the profit and loss realised by closed quantity, net of fees.
func (p *Portfolio) RealisedPnL() float64 {
	return flt(p.realised)
}

// Equity returns cash plus the market value of every open position.
func (p *Portfolio) Equity() float64 {
	equity := p.cash
	for _, position := range p.positions {
		equity = equity.Add(dec(position.Quantity).Mul(dec(position.CurrentPrice)))
	}

	return flt(equity)
}

// Snapshot implements Manager.
func (p *Portfolio) Snapshot() types.Snapshot {
	unrealised := decimal.Zero
	for _, position := range p.positions {
		unrealised = unrealised.Add(dec(position.UnrealisedPnL))
	}

	return types.Snapshot{
		Timestamp:     p.updatedAt,
		Balance:       p.Balance(),
		Positions:     p.Positions(),
		Orders:        p.LiveOrders(),
		Equity:        p.Equity(),
		RealisedPnL:   flt(p.realised),
		UnrealisedPnL: flt(unrealised),
		TotalFees:     flt(p.totalFees),
	}
}

func sortOrders(orders []types.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].Timestamp.Equal(orders[j].Timestamp) {
			return orders[i].Timestamp.Before(orders[j].Timestamp)
		}

		return orders[i].ClientOrderID < orders[j].ClientOrderID
	})
}
