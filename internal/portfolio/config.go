package portfolio

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// AllocatorType selects the sizing policy.
type AllocatorType string

const (
	AllocatorFixedValue    AllocatorType = "fixed_value"
	AllocatorFixedFraction AllocatorType = "fixed_fraction"
)

// AllocatorConfig configures order sizing.
type AllocatorConfig struct {
	Type AllocatorType `yaml:"type" json:"type" jsonschema:"title=Allocator,enum=fixed_value,enum=fixed_fraction,default=fixed_value" validate:"required,oneof=fixed_value fixed_fraction"`
	// DefaultOrderValue is the quote value of every entry for fixed_value
	DefaultOrderValue float64 `yaml:"default_order_value" json:"default_order_value" jsonschema:"title=Default order value,description=Quote currency value of each entry order (fixed_value),minimum=0" validate:"required_if=Type fixed_value,gte=0"`
	// Fraction of free cash committed per entry, scaled by signal strength, for fixed_fraction
	Fraction float64 `yaml:"fraction" json:"fraction" jsonschema:"title=Fraction,description=Fraction of free cash per entry scaled by signal strength (fixed_fraction),minimum=0,maximum=1" validate:"required_if=Type fixed_fraction,gte=0,lte=1"`
	// DecimalPrecision is the number of quantity decimals; sizes are rounded down
	DecimalPrecision int `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal precision,minimum=0,maximum=12" validate:"gte=0,lte=12"`
}

// RiskConfig configures the default risk manager. Zero limits are disabled.
type RiskConfig struct {
	MaxPositionQuantity float64 `yaml:"max_position_quantity" json:"max_position_quantity" jsonschema:"title=Max position quantity,description=Absolute position size cap (0 disables),minimum=0" validate:"gte=0"`
	MaxOrderValue       float64 `yaml:"max_order_value" json:"max_order_value" jsonschema:"title=Max order value,description=Quote value cap per entry order (0 disables),minimum=0" validate:"gte=0"`
	// FeeBufferPct is held back from free cash on top of the notional and reserved with buy orders
	FeeBufferPct          float64 `yaml:"fee_buffer_pct" json:"fee_buffer_pct" jsonschema:"title=Fee buffer,description=Fraction of notional reserved for fees,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	RejectDuplicateOrders bool    `yaml:"reject_duplicate_orders" json:"reject_duplicate_orders" jsonschema:"title=Reject duplicate orders,default=true"`
}

// Config configures a Portfolio.
type Config struct {
	// Exchange is the default venue of the portfolio
	Exchange string `yaml:"exchange" json:"exchange" jsonschema:"title=Exchange" validate:"required"`
	// Currency is the quote asset cash is held in
	Currency     string          `yaml:"currency" json:"currency" jsonschema:"title=Currency" validate:"required"`
	StartingCash float64         `yaml:"starting_cash" json:"starting_cash" jsonschema:"title=Starting cash,minimum=0" validate:"gt=0"`
	OrderKind    types.OrderKind `yaml:"order_kind,omitempty" json:"order_kind,omitempty" jsonschema:"title=Order kind,enum=MARKET,enum=LIMIT,enum=POST_ONLY,enum=IMMEDIATE_OR_CANCEL,default=MARKET" validate:"omitempty,oneof=MARKET LIMIT POST_ONLY IMMEDIATE_OR_CANCEL"`
	Allocator    AllocatorConfig `yaml:"allocator" json:"allocator" jsonschema:"title=Allocator"`
	Risk         RiskConfig      `yaml:"risk" json:"risk" jsonschema:"title=Risk"`
}

// DefaultConfig returns a config holding 10000 usdt on binance.
func DefaultConfig() Config {
	return Config{
		Exchange:     "binance",
		Currency:     "usdt",
		StartingCash: 10000,
		OrderKind:    types.OrderKindMarket,
		Allocator: AllocatorConfig{
			Type:              AllocatorFixedValue,
			DefaultOrderValue: 1000,
			Fraction:          0.1,
			DecimalPrecision:  4,
		},
		Risk: RiskConfig{
			MaxPositionQuantity:   0,
			MaxOrderValue:         0,
			FeeBufferPct:          0.002,
			RejectDuplicateOrders: true,
		},
	}
}

// Validate validates the Config struct.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid portfolio config", err)
	}

	return nil
}

func (c Config) orderKind() types.OrderKind {
	if c.OrderKind == "" {
		return types.OrderKindMarket
	}

	return c.OrderKind
}
