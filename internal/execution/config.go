package execution

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// FeesPct are the fee rates applied to the gross value of a simulated fill.
type FeesPct struct {
	Exchange float64 `yaml:"exchange" json:"exchange" jsonschema:"title=Exchange fee,description=Fraction of gross fill value charged by the venue,minimum=0" validate:"gte=0"`
	Slippage float64 `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage,description=Fraction of gross fill value lost to slippage,minimum=0" validate:"gte=0"`
	Network  float64 `yaml:"network" json:"network" jsonschema:"title=Network fee,description=Fraction of gross fill value charged for settlement,minimum=0" validate:"gte=0"`
}

// Config configures simulated execution.
type Config struct {
	SimulatedFeesPct FeesPct `yaml:"simulated_fees_pct" json:"simulated_fees_pct" jsonschema:"title=Simulated fee rates"`
	// FeeModel defaults to percentage
	FeeModel FeeModelType `yaml:"fee_model,omitempty" json:"fee_model,omitempty" jsonschema:"title=Fee model,enum=percentage,enum=interactive_broker,enum=zero" validate:"omitempty,oneof=percentage interactive_broker zero"`
}

// Validate validates the Config struct.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid execution config", err)
	}

	return nil
}
