package entities

import "github.com/shopspring/decimal"

// SaturationRecord summarizes load versus capacity for one work center.
// Ephemeral: recomputed per scenario.
type SaturationRecord struct {
	Center         CenterID
	RequiredHours  decimal.Decimal
	AvailableHours decimal.Decimal
	SaturationPct  decimal.Decimal
	Bottleneck     bool
}

// KPISet carries the scenario-level indicators derived by the aggregator.
type KPISet struct {
	UrgentOrders       int
	TotalOrders        int
	AvgSaturationPct   decimal.Decimal
	BottleneckCount    int
	TotalRequiredHours decimal.Decimal
	ActiveCenters      int
}
