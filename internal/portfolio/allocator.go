package portfolio

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/internal/utils"
)

// AllocationRequest is everything an allocator may look at.
type AllocationRequest struct {
	Decision   types.Decision
	Strength   types.SignalStrength
	MarketMeta types.MarketMeta
	Balance    types.Balance
	Position   optional.Option[types.Position]
}

// Allocator sizes a candidate order. It returns an unsigned quantity and must
// be deterministic for identical requests. Zero means no order.
type Allocator interface {
	Allocate(request AllocationRequest) float64
}

// NewAllocator builds the allocator named by config.
func NewAllocator(config AllocatorConfig) Allocator {
	switch config.Type {
	case AllocatorFixedFraction:
		return &FixedFractionAllocator{
			Fraction:         config.Fraction,
			DecimalPrecision: config.DecimalPrecision,
		}
	default:
		return &FixedValueAllocator{
			DefaultOrderValue: config.DefaultOrderValue,
			DecimalPrecision:  config.DecimalPrecision,
		}
	}
}

// FixedValueAllocator spends DefaultOrderValue of quote currency on every entry.
type FixedValueAllocator struct {
	DefaultOrderValue float64
	DecimalPrecision  int
}

// Allocate implements Allocator.
func (a *FixedValueAllocator) Allocate(request AllocationRequest) float64 {
	if request.Decision.IsExit() {
		return exitQuantity(request)
	}

	if request.MarketMeta.Close <= 0 {
		return 0
	}

	return utils.RoundToDecimalPrecision(a.DefaultOrderValue/request.MarketMeta.Close, a.DecimalPrecision)
}

// FixedFractionAllocator commits Fraction of free cash, scaled by signal strength.
type FixedFractionAllocator struct {
	Fraction         float64
	DecimalPrecision int
}

// Allocate implements Allocator.
func (a *FixedFractionAllocator) Allocate(request AllocationRequest) float64 {
	if request.Decision.IsExit() {
		return exitQuantity(request)
	}

	if request.MarketMeta.Close <= 0 || request.Balance.Free <= 0 {
		return 0
	}

	strength := math.Min(float64(request.Strength), 1)
	value := request.Balance.Free * a.Fraction * strength

	return utils.RoundToDecimalPrecision(value/request.MarketMeta.Close, a.DecimalPrecision)
}

// exitQuantity closes the whole position when the decision matches its direction.
func exitQuantity(request AllocationRequest) float64 {
	if request.Position.IsNone() {
		return 0
	}

	position := request.Position.Unwrap()

	switch {
	case request.Decision == types.DecisionCloseLong && position.IsLong():
		return position.Quantity
	case request.Decision == types.DecisionCloseShort && position.IsShort():
		return -position.Quantity
	default:
		return 0
	}
}
