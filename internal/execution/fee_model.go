package execution

import (
	"math"

	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/internal/utils"
	"github.com/shopspring/decimal"
)

// FeeModel computes the fees charged on a fill.
type FeeModel interface {
	// Calculate returns the fees for filling the unsigned quantity at the given gross value
	Calculate(quantity float64, grossValue decimal.Decimal) types.Fees
}

// FeeModelType selects a FeeModel from configuration.
type FeeModelType string

const (
	FeeModelPercentage        FeeModelType = "percentage"
	FeeModelInteractiveBroker FeeModelType = "interactive_broker"
	FeeModelZero              FeeModelType = "zero"
)

// GetFeeModel returns the fee model for the given config. Unknown types fall
// back to percentage fees.
func GetFeeModel(config Config) FeeModel {
	switch config.FeeModel {
	case FeeModelZero:
		return NewZeroFees()
	case FeeModelInteractiveBroker:
		return NewInteractiveBrokerFees()
	default:
		return NewPercentageFees(config.SimulatedFeesPct)
	}
}

// NewFeeEstimator adapts a fee model so sizing can account for the fees a
// fill will be charged.
func NewFeeEstimator(model FeeModel) utils.FeeEstimator {
	return utils.FeeEstimatorFunc(func(quantity float64, price float64) float64 {
		qty := math.Abs(quantity)

		return model.Calculate(qty, decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))).Total()
	})
}

// PercentageFees charges a fixed fraction of the gross fill value per category.
type PercentageFees struct {
	pct FeesPct
}

// NewPercentageFees creates a percentage fee model.
func NewPercentageFees(pct FeesPct) FeeModel {
	return &PercentageFees{pct: pct}
}

// Calculate implements FeeModel.
func (p *PercentageFees) Calculate(_ float64, grossValue decimal.Decimal) types.Fees {
	charge := func(pct float64) float64 {
		fee, _ := grossValue.Mul(decimal.NewFromFloat(pct)).Float64()

		return fee
	}

	return types.Fees{
		Exchange: charge(p.pct.Exchange),
		Slippage: charge(p.pct.Slippage),
		Network:  charge(p.pct.Network),
	}
}

// InteractiveBrokerFees charges 0.005 per unit with a 1.0 minimum, booked as an exchange fee.
type InteractiveBrokerFees struct{}

// NewInteractiveBrokerFees creates the per-unit commission model.
func NewInteractiveBrokerFees() FeeModel {
	return &InteractiveBrokerFees{}
}

// Calculate implements FeeModel.
func (c *InteractiveBrokerFees) Calculate(quantity float64, _ decimal.Decimal) types.Fees {
	fee := 0.005 * math.Abs(quantity)
	if fee < 1.0 {
		fee = 1.0
	}

	return types.Fees{Exchange: fee}
}

// ZeroFees charges nothing.
type ZeroFees struct{}

// NewZeroFees creates a zero fee model.
func NewZeroFees() FeeModel {
	return &ZeroFees{}
}

// Calculate returns zero fees for any fill.
func (z *ZeroFees) Calculate(_ float64, _ decimal.Decimal) types.Fees {
	return types.Fees{}
}
