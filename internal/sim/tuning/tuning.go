package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	Hopper Hopper `yaml:"hopper"`
	Pump   Pump   `yaml:"pump"`

	// EjectEveryTicks is how often ejector tiles push their output slots out.
	EjectEveryTicks int `yaml:"eject_every_ticks"`
}

type Hopper struct {
	Block         string `yaml:"block"`
	PeriodTicks   int    `yaml:"period_ticks"`
	TransferCount int    `yaml:"transfer_count"`
}

type Pump struct {
	// Rate is the liquid amount a pump offers each neighbour per tick.
	Rate float64 `yaml:"rate"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz: 20,
		Hopper: Hopper{
			Block:         "HOPPER",
			PeriodTicks:   8,
			TransferCount: 1,
		},
		Pump:            Pump{Rate: 50},
		EjectEveryTicks: 4,
	}
}

// Load reads path over Defaults(). Keys missing from the file keep their
// default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be > 0")
	case t.Hopper.Block == "":
		return fmt.Errorf("hopper.block is required")
	case t.Hopper.PeriodTicks <= 0:
		return fmt.Errorf("hopper.period_ticks must be > 0")
	case t.Hopper.TransferCount <= 0:
		return fmt.Errorf("hopper.transfer_count must be > 0")
	case t.Pump.Rate < 0:
		return fmt.Errorf("pump.rate must be >= 0")
	case t.EjectEveryTicks <= 0:
		return fmt.Errorf("eject_every_ticks must be > 0")
	}
	return nil
}
