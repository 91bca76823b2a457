package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign returns +1 for buys and -1 for sells.
func (s Side) Sign() float64 {
	if s == SideBuy {
		return 1
	}

	return -1
}

// OrderKind is the execution style requested from the venue.
type OrderKind string

const (
	OrderKindMarket            OrderKind = "MARKET"
	OrderKindLimit             OrderKind = "LIMIT"
	OrderKindPostOnly          OrderKind = "POST_ONLY"
	OrderKindImmediateOrCancel OrderKind = "IMMEDIATE_OR_CANCEL"
)

// OrderState is the lifecycle stage of an order.
//
//	REQUEST -> IN_FLIGHT -> OPEN -> {CANCELLED | PARTIALLY_FILLED | FILLED}
//	PARTIALLY_FILLED -> {CANCELLED | FILLED}
type OrderState string

const (
	OrderStateRequest         OrderState = "REQUEST"
	OrderStateInFlight        OrderState = "IN_FLIGHT"
	OrderStateOpen            OrderState = "OPEN"
	OrderStatePartiallyFilled OrderState = "PARTIALLY_FILLED"
	OrderStateFilled          OrderState = "FILLED"
	OrderStateCancelled       OrderState = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible from the state.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateFilled || s == OrderStateCancelled
}

// QuantityTolerance absorbs float noise when comparing filled and ordered quantities.
const QuantityTolerance = 1e-9

// RequestState is the order as issued by the portfolio.
type RequestState struct {
	Kind  OrderKind `yaml:"kind" json:"kind" csv:"kind" validate:"required,oneof=MARKET LIMIT POST_ONLY IMMEDIATE_OR_CANCEL"`
	Side  Side      `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL"`
	Price float64   `yaml:"price" json:"price" csv:"price" validate:"gt=0"`
	// Quantity is signed: positive buys, negative sells
	Quantity float64 `yaml:"quantity" json:"quantity" csv:"quantity" validate:"ne=0"`
}

// OpenState is the order as acknowledged by the venue. Quantity is unsigned.
type OpenState struct {
	Side     Side    `yaml:"side" json:"side" csv:"side"`
	Price    float64 `yaml:"price" json:"price" csv:"price"`
	Quantity float64 `yaml:"quantity" json:"quantity" csv:"quantity"`
}

// Order is a sized trading instruction. Transition methods take the order by
// value and return the next order, leaving the receiver untouched.
type Order struct {
	// ClientOrderID is unique for the lifetime of the order
	ClientOrderID string `yaml:"client_order_id" json:"client_order_id" csv:"client_order_id" validate:"required"`
	// OrderID is the venue id, empty until acknowledged
	OrderID        string                      `yaml:"order_id" json:"order_id" csv:"order_id"`
	Exchange       string                      `yaml:"exchange" json:"exchange" csv:"exchange" validate:"required"`
	Instrument     string                      `yaml:"instrument" json:"instrument" csv:"instrument" validate:"required"`
	Decision       Decision                    `yaml:"decision" json:"decision" csv:"decision" validate:"required,oneof=long close_long short close_short"`
	MarketMeta     MarketMeta                  `yaml:"market_meta" json:"market_meta" csv:"market_meta"`
	State          OrderState                  `yaml:"state" json:"state" csv:"state"`
	Request        RequestState                `yaml:"request" json:"request" csv:"request"`
	Open           optional.Option[OpenState]  `yaml:"open" json:"open" csv:"open"`
	FilledQuantity float64                     `yaml:"filled_quantity" json:"filled_quantity" csv:"filled_quantity"`
	Timestamp      time.Time                   `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
}

// NewOrderRequest creates an order in the REQUEST state priced at the market close.
// The sign of quantity selects the side.
func NewOrderRequest(exchange, instrument string, decision Decision, meta MarketMeta, kind OrderKind, quantity float64) Order {
	side := SideBuy
	if quantity < 0 {
		side = SideSell
	}

	return Order{
		ClientOrderID: uuid.New().String(),
		Exchange:      exchange,
		Instrument:    instrument,
		Decision:      decision,
		MarketMeta:    meta,
		State:         OrderStateRequest,
		Request: RequestState{
			Kind:     kind,
			Side:     side,
			Price:    meta.Close,
			Quantity: quantity,
		},
		Open:      optional.None[OpenState](),
		Timestamp: meta.Timestamp,
	}
}

// PositionID returns the id of the position the order trades.
func (o Order) PositionID() string {
	return PositionID(o.Exchange, o.Instrument)
}

// IsTerminal reports whether the order is Filled or Cancelled.
func (o Order) IsTerminal() bool {
	return o.State.IsTerminal()
}

// IsLive reports whether the order may still produce fills.
func (o Order) IsLive() bool {
	return !o.IsTerminal()
}

// Quantity returns the unsigned size the order is expected to fill. Once
// acknowledged this is the venue's confirmed quantity.
func (o Order) Quantity() float64 {
	if o.Open.IsSome() {
		return o.Open.Unwrap().Quantity
	}

	return math.Abs(o.Request.Quantity)
}

// RemainingQuantity returns the unsigned quantity still to fill.
func (o Order) RemainingQuantity() float64 {
	remaining := o.Quantity() - o.FilledQuantity
	if remaining < QuantityTolerance {
		return 0
	}

	return remaining
}

// Submit moves a REQUEST order to IN_FLIGHT once it has been handed to execution.
func (o Order) Submit() (Order, error) {
	if o.State != OrderStateRequest {
		return o, o.transitionError(OrderStateInFlight)
	}

	o.State = OrderStateInFlight

	return o, nil
}

// Acknowledge moves an IN_FLIGHT order to OPEN with the venue's confirmation.
func (o Order) Acknowledge(orderID string, open OpenState) (Order, error) {
	if o.State != OrderStateInFlight {
		return o, o.transitionError(OrderStateOpen)
	}

	if open.Quantity <= 0 {
		return o, errors.Newf(errors.ErrCodeInvalidOrder, "order %s acknowledged with non-positive quantity %f", o.ClientOrderID, open.Quantity)
	}

	if open.Side != o.Request.Side {
		return o, errors.Newf(errors.ErrCodeInvalidOrder, "order %s acknowledged as %s, requested %s", o.ClientOrderID, open.Side, o.Request.Side)
	}

	o.OrderID = orderID
	o.Open = optional.Some(open)
	o.State = OrderStateOpen

	return o, nil
}

// Fill applies an unsigned fill quantity to an OPEN or PARTIALLY_FILLED order.
// The order becomes FILLED once the filled quantity reaches the order quantity.
func (o Order) Fill(quantity float64) (Order, error) {
	if o.IsTerminal() {
		return o, errors.Newf(errors.ErrCodeOrderTerminal, "order %s is %s", o.ClientOrderID, o.State)
	}

	if o.State != OrderStateOpen && o.State != OrderStatePartiallyFilled {
		return o, o.transitionError(OrderStatePartiallyFilled)
	}

	if quantity <= 0 {
		return o, errors.Newf(errors.ErrCodeInvalidOrder, "fill quantity must be positive, got %f", quantity)
	}

	if o.FilledQuantity+quantity > o.Quantity()+QuantityTolerance {
		return o, errors.Newf(errors.ErrCodeOverfill, "fill of %f overfills order %s (filled %f of %f)", quantity, o.ClientOrderID, o.FilledQuantity, o.Quantity())
	}

	o.FilledQuantity += quantity
	if o.RemainingQuantity() == 0 {
		o.State = OrderStateFilled
	} else {
		o.State = OrderStatePartiallyFilled
	}

	return o, nil
}

// Cancel moves an OPEN or PARTIALLY_FILLED order to CANCELLED.
func (o Order) Cancel() (Order, error) {
	if o.IsTerminal() {
		return o, errors.Newf(errors.ErrCodeOrderTerminal, "order %s is %s", o.ClientOrderID, o.State)
	}

	if o.State != OrderStateOpen && o.State != OrderStatePartiallyFilled {
		return o, o.transitionError(OrderStateCancelled)
	}

	o.State = OrderStateCancelled

	return o, nil
}

func (o Order) transitionError(to OrderState) error {
	return errors.Newf(errors.ErrCodeInvalidOrderTransition, "order %s cannot move from %s to %s", o.ClientOrderID, o.State, to)
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	if (o.Request.Quantity > 0) != (o.Request.Side == SideBuy) {
		return errors.Newf(errors.ErrCodeInvalidOrder, "order side %s does not match quantity %f", o.Request.Side, o.Request.Quantity)
	}

	return nil
}
