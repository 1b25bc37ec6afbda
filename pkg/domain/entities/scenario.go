package entities

import "github.com/shopspring/decimal"

// DefaultHorizonDays is the planning horizon used when a caller does not
// specify one.
const DefaultHorizonDays = 30

// ScenarioParams are the what-if knobs for one scenario computation.
// SaturationFactor scales the load generated per routing step (demand-side
// stress); ExtraShift raises every center's available capacity (supply-side);
// HorizonDays bounds which orders are considered at all.
type ScenarioParams struct {
	SaturationFactor decimal.Decimal
	ExtraShift       bool
	HorizonDays      int
}

// DefaultScenarioParams returns the baseline scenario: no stress factor, no
// extra shift, default horizon.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		SaturationFactor: decimal.NewFromInt(1),
		ExtraShift:       false,
		HorizonDays:      DefaultHorizonDays,
	}
}
