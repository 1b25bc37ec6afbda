package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// MaxSaturationPct is the display ceiling for saturation percentages. A
// center with load but zero available hours reports it directly (never a
// division fault), and computed percentages are capped at it so granting a
// starved center a few real hours cannot report worse than the ceiling.
var MaxSaturationPct = decimal.NewFromFloat(999.9)

var hundred = decimal.NewFromInt(100)

// Result is the complete outcome of one scenario computation. Ephemeral by
// design: it lives only until the caller is done with it.
type Result struct {
	Sequence    []entities.ManufacturingOrder
	Saturation  []entities.SaturationRecord
	KPIs        entities.KPISet
	Bottlenecks []entities.SaturationRecord
	// Warnings counts units that failed and were excluded from aggregation.
	Warnings int
}

// aggregate merges the partial results of all units into one canonical
// Result. The merge re-sorts before numbering, so the outcome is identical
// regardless of which worker finished first.
func aggregate(units []unitResult, failures []UnitFailure, pc *PlanContext) *Result {
	total := 0
	for _, u := range units {
		total += len(u.orders)
	}
	sequence := make([]entities.ManufacturingOrder, 0, total)
	load := make(map[entities.CenterID]decimal.Decimal)

	for _, u := range units {
		sequence = append(sequence, u.orders...)
		for center, hours := range u.load {
			load[center] = load[center].Add(hours)
		}
	}

	// Canonical order: most pressing first, ties broken by article then
	// center so the numbering is reproducible.
	sort.SliceStable(sequence, func(i, j int) bool {
		a, b := sequence[i], sequence[j]
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}
		if a.Article != b.Article {
			return a.Article < b.Article
		}
		return a.Center < b.Center
	})
	for i := range sequence {
		sequence[i].Sequence = i + 1
	}

	saturation := make([]entities.SaturationRecord, 0, len(load))
	for center, required := range load {
		saturation = append(saturation, saturationFor(center, required, pc.CapacityFor(center)))
	}
	// Highest saturation first for display stability; center id breaks ties.
	sort.SliceStable(saturation, func(i, j int) bool {
		if c := saturation[i].SaturationPct.Cmp(saturation[j].SaturationPct); c != 0 {
			return c > 0
		}
		return saturation[i].Center < saturation[j].Center
	})

	var bottlenecks []entities.SaturationRecord
	for _, rec := range saturation {
		if rec.Bottleneck {
			bottlenecks = append(bottlenecks, rec)
		}
	}

	return &Result{
		Sequence:    sequence,
		Saturation:  saturation,
		KPIs:        deriveKPIs(sequence, saturation, load),
		Bottlenecks: bottlenecks,
		Warnings:    len(failures),
	}
}

// saturationFor computes one center's record, guarding zero capacity.
func saturationFor(center entities.CenterID, required, available decimal.Decimal) entities.SaturationRecord {
	rec := entities.SaturationRecord{
		Center:         center,
		RequiredHours:  required,
		AvailableHours: available,
	}
	if available.IsZero() {
		if required.IsPositive() {
			rec.SaturationPct = MaxSaturationPct
			rec.Bottleneck = true
		}
		return rec
	}
	rec.SaturationPct = required.Div(available).Mul(hundred)
	if rec.SaturationPct.GreaterThan(MaxSaturationPct) {
		rec.SaturationPct = MaxSaturationPct
	}
	rec.Bottleneck = rec.SaturationPct.GreaterThan(hundred)
	return rec
}

func deriveKPIs(
	sequence []entities.ManufacturingOrder,
	saturation []entities.SaturationRecord,
	load map[entities.CenterID]decimal.Decimal,
) entities.KPISet {
	kpis := entities.KPISet{
		TotalOrders:   len(sequence),
		ActiveCenters: len(load),
	}
	for _, mo := range sequence {
		if mo.Status == entities.StatusUrgent {
			kpis.UrgentOrders++
		}
	}
	for _, hours := range load {
		kpis.TotalRequiredHours = kpis.TotalRequiredHours.Add(hours)
	}
	// Mean saturation over centers that actually carry load. Every record in
	// the table comes from the load map, so all of them qualify.
	if len(saturation) > 0 {
		pcts := make([]decimal.Decimal, len(saturation))
		for i, rec := range saturation {
			pcts[i] = rec.SaturationPct
			if rec.Bottleneck {
				kpis.BottleneckCount++
			}
		}
		kpis.AvgSaturationPct = decimal.Avg(pcts[0], pcts[1:]...)
	}
	return kpis
}
