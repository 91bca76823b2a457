package engine

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-core/internal/execution"
	"github.com/rxtech-lab/argo-core/internal/portfolio"
	"github.com/rxtech-lab/argo-core/internal/strategy"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of a trading loop.
type Config struct {
	Portfolio portfolio.Config   `yaml:"portfolio" json:"portfolio" jsonschema:"title=Portfolio,description=Ledger currency and starting cash plus sizing and risk policy"`
	Execution execution.Config   `yaml:"execution" json:"execution" jsonschema:"title=Execution,description=Simulated execution fee model"`
	Strategy  strategy.SMAConfig `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Parameters of the reference moving average crossover"`
	// HaltOnLedgerError stops the loop when the ledger rejects a fill instead of skipping the order
	HaltOnLedgerError bool   `yaml:"halt_on_ledger_error" json:"halt_on_ledger_error" jsonschema:"title=Halt on ledger error,default=false"`
	LogLevel          string `yaml:"log_level,omitempty" json:"log_level,omitempty" jsonschema:"title=Log level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when a field is not set.
func DefaultConfig() Config {
	return Config{
		Portfolio: portfolio.DefaultConfig(),
		Execution: execution.Config{
			SimulatedFeesPct: execution.FeesPct{
				Exchange: 0.001,
				Slippage: 0.0005,
				Network:  0,
			},
			FeeModel: execution.FeeModelPercentage,
		},
		Strategy:          strategy.DefaultSMAConfig(),
		HaltOnLedgerError: false,
		LogLevel:          "info",
	}
}

// ParseConfig decodes yaml on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfig reads and parses the yaml file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return ParseConfig(data)
}

// Validate validates the Config struct and every nested config.
func (c Config) Validate() error {
	if err := c.Portfolio.Validate(); err != nil {
		return err
	}

	if err := c.Execution.Validate(); err != nil {
		return err
	}

	if err := c.Strategy.Validate(); err != nil {
		return err
	}

	validate := validator.New()
	if err := validate.Var(c.LogLevel, "omitempty,oneof=debug info warn error"); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid log level", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-core-config"
	schema.Description = "Configuration schema for the argo trading loop"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON returns the schema as indented JSON.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal schema", err)
	}

	return string(data), nil
}
