// Package execution turns order requests into fills.
package execution

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExecutionClient fills orders. Live implementations perform a venue round
// trip and must return the same Trade contract as the simulation: non-negative
// fees and FillValueGross = |quantity| * price.
type ExecutionClient interface {
	GenerateFill(ctx context.Context, order types.Order) (types.Trade, error)
}

// SimulatedExecution fills every order in full, immediately, at the close of
// the market event that produced it. It is a pure function of the order and
// the fee model.
type SimulatedExecution struct {
	fees   FeeModel
	logger *logger.Logger
}

var _ ExecutionClient = (*SimulatedExecution)(nil)

// NewSimulatedExecution creates a simulated execution client from config.
func NewSimulatedExecution(config Config, log *logger.Logger) (*SimulatedExecution, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SimulatedExecution{
		fees:   GetFeeModel(config),
		logger: log,
	}, nil
}

// NewSimulatedExecutionWithFeeModel creates a simulated execution client charging fees.
func NewSimulatedExecutionWithFeeModel(fees FeeModel, log *logger.Logger) *SimulatedExecution {
	return &SimulatedExecution{
		fees:   fees,
		logger: log,
	}
}

// GenerateFill implements ExecutionClient.
func (s *SimulatedExecution) GenerateFill(_ context.Context, order types.Order) (types.Trade, error) {
	if order.State != types.OrderStateRequest && order.State != types.OrderStateInFlight {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidExecutionOrder, "cannot fill order %s in state %s", order.ClientOrderID, order.State)
	}

	if order.Request.Quantity == 0 {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidExecutionOrder, "order %s has zero quantity", order.ClientOrderID)
	}

	if order.MarketMeta.Close <= 0 {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidExecutionOrder, "order %s has no market price", order.ClientOrderID)
	}

	quantity := decimal.NewFromFloat(order.Request.Quantity).Abs()
	closePrice := decimal.NewFromFloat(order.MarketMeta.Close)
	gross := quantity.Mul(closePrice)

	qty, _ := quantity.Float64()
	grossValue, _ := gross.Float64()
	fees := s.fees.Calculate(qty, gross)

	trade := types.Trade{
		ID:             TradeID(order.ClientOrderID),
		OrderID:        VenueOrderID(order.ClientOrderID),
		ClientOrderID:  order.ClientOrderID,
		Exchange:       order.Exchange,
		Instrument:     order.Instrument,
		Side:           order.Request.Side,
		Price:          order.MarketMeta.Close,
		Quantity:       qty,
		Fees:           fees,
		FillValueGross: grossValue,
		Decision:       order.Decision,
		MarketMeta:     order.MarketMeta,
		Timestamp:      order.MarketMeta.Timestamp,
	}

	s.logger.Debug("Simulated fill",
		zap.String("client_order_id", order.ClientOrderID),
		zap.String("instrument", order.Instrument),
		zap.String("side", string(trade.Side)),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("price", trade.Price),
		zap.Float64("fees", fees.Total()),
	)

	return trade, nil
}

// TradeID derives the simulated trade id from the client order id.
func TradeID(clientOrderID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("trade:"+clientOrderID)).String()
}

// VenueOrderID derives the simulated venue order id from the client order id.
func VenueOrderID(clientOrderID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("order:"+clientOrderID)).String()
}
