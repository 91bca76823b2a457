package portfolio

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/internal/utils"
)

// RiskState is the portfolio state a risk manager evaluates an order against.
type RiskState struct {
	Balance  types.Balance
	Position optional.Option[types.Position]
	// LiveOrders are the non-terminal orders for the same position
	LiveOrders []types.Order
}

// RiskManager returns the order unchanged, returns it with a smaller quantity,
// or vetoes it by returning None. It is evaluated for every order.
type RiskManager interface {
	Evaluate(order types.Order, state RiskState) optional.Option[types.Order]
}

// DefaultRisk applies, in order: duplicate rejection, free cash, max order
// value and max position quantity.
type DefaultRisk struct {
	config    RiskConfig
	precision int
	fees      utils.FeeEstimator
}

var _ RiskManager = (*DefaultRisk)(nil)

// NewDefaultRisk creates the default risk manager. Free cash is checked with
// FeeBufferPct of notional held back for fees. Shrunk entry quantities are
// rounded down to precision decimals.
func NewDefaultRisk(config RiskConfig, precision int) *DefaultRisk {
	return NewDefaultRiskWithFees(config, precision, nil)
}

// NewDefaultRiskWithFees creates the default risk manager checking free cash
// against the larger of the fees estimated by fees and FeeBufferPct of notional.
func NewDefaultRiskWithFees(config RiskConfig, precision int, fees utils.FeeEstimator) *DefaultRisk {
	buffer := utils.PercentageFeeEstimator(config.FeeBufferPct)

	estimator := buffer
	if fees != nil {
		estimator = utils.FeeEstimatorFunc(func(quantity float64, price float64) float64 {
			return math.Max(fees.Estimate(quantity, price), buffer.Estimate(quantity, price))
		})
	}

	return &DefaultRisk{
		config:    config,
		precision: precision,
		fees:      estimator,
	}
}

// Evaluate implements RiskManager.
func (r *DefaultRisk) Evaluate(order types.Order, state RiskState) optional.Option[types.Order] {
	if r.config.RejectDuplicateOrders && hasLiveOrder(state.LiveOrders, order.Request.Side) {
		return optional.None[types.Order]()
	}

	price := order.MarketMeta.Close
	if price <= 0 {
		return optional.None[types.Order]()
	}

	quantity := math.Abs(order.Request.Quantity)
	entry := order.Decision.IsEntry()

	// buys spend cash, short entries are backed one-to-one by free cash
	if order.Request.Side == types.SideBuy || entry {
		affordable := utils.CalculateMaxQuantity(state.Balance.Free, price, r.fees)
		if quantity > affordable {
			quantity = r.round(affordable, entry)
		}
	}

	if entry && r.config.MaxOrderValue > 0 && quantity*price > r.config.MaxOrderValue {
		quantity = r.round(r.config.MaxOrderValue/price, true)
	}

	if entry && r.config.MaxPositionQuantity > 0 {
		held := 0.0
		if state.Position.IsSome() {
			held = math.Abs(state.Position.Unwrap().Quantity)
		}

		if held+quantity > r.config.MaxPositionQuantity {
			quantity = r.round(math.Max(r.config.MaxPositionQuantity-held, 0), true)
		}
	}

	if quantity < types.QuantityTolerance {
		return optional.None[types.Order]()
	}

	order.Request.Quantity = order.Request.Side.Sign() * quantity

	return optional.Some(order)
}

// round truncates entries to the lot precision. Exits keep full precision so
// a shrunk close never leaves dust behind because of rounding alone.
func (r *DefaultRisk) round(quantity float64, entry bool) float64 {
	if !entry {
		return quantity
	}

	return utils.RoundToDecimalPrecision(quantity, r.precision)
}

func hasLiveOrder(orders []types.Order, side types.Side) bool {
	for _, order := range orders {
		if order.IsLive() && order.Request.Side == side {
			return true
		}
	}

	return false
}
