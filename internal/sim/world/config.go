package world

import "voxelstore.ai/internal/sim/tuning"

type WorldConfig struct {
	ID         string
	TickRateHz int

	HopperBlock         string
	HopperPeriodTicks   int
	HopperTransferCount int
	EjectEveryTicks     int
	PumpRate            float64
}

// ConfigFromTuning copies the tunable parameters into a world config.
func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                  id,
		TickRateHz:          t.TickRateHz,
		HopperBlock:         t.Hopper.Block,
		HopperPeriodTicks:   t.Hopper.PeriodTicks,
		HopperTransferCount: t.Hopper.TransferCount,
		EjectEveryTicks:     t.EjectEveryTicks,
		PumpRate:            t.Pump.Rate,
	}
}

func (c *WorldConfig) applyDefaults() {
	def := tuning.Defaults()
	if c.ID == "" {
		c.ID = "WORLD"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = def.TickRateHz
	}
	if c.HopperBlock == "" {
		c.HopperBlock = def.Hopper.Block
	}
	if c.HopperPeriodTicks <= 0 {
		c.HopperPeriodTicks = def.Hopper.PeriodTicks
	}
	if c.HopperTransferCount <= 0 {
		c.HopperTransferCount = def.Hopper.TransferCount
	}
	if c.EjectEveryTicks <= 0 {
		c.EjectEveryTicks = def.EjectEveryTicks
	}
	if c.PumpRate <= 0 {
		c.PumpRate = def.Pump.Rate
	}
}
