// Package dto holds the wire representation of scenario results. Field names
// follow the contract the desktop frontend binds to, so they stay stable even
// where the Go identifiers do not.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/domain/entities"
	"github.com/plantops/mrpsim/pkg/planning"
)

func init() {
	// Consumers expect bare JSON numbers, not quoted decimal strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// SequenceEntry is one manufacturing order on the wire.
type SequenceEntry struct {
	Order         int             `json:"orden"`
	OrderID       string          `json:"numero_of"`
	Article       string          `json:"articulo"`
	Center        string          `json:"centro"`
	RoutingSeq    int             `json:"fase"`
	Quantity      decimal.Decimal `json:"cantidad"`
	DueDate       string          `json:"fecha_entrega"`
	Status        string          `json:"estado"`
	DaysRemaining int             `json:"dias_restantes"`
	RequiredHours decimal.Decimal `json:"carga_horas"`
	RawMaterial   string          `json:"mp,omitempty"`
}

// SaturationEntry is one center's load summary on the wire.
type SaturationEntry struct {
	Center         string          `json:"centro"`
	RequiredHours  decimal.Decimal `json:"horas_requeridas"`
	AvailableHours decimal.Decimal `json:"capacidad_disponible"`
	SaturationPct  decimal.Decimal `json:"saturacion_pct"`
	Bottleneck     bool            `json:"es_cuello_botella"`
}

// KPIs carries the scenario indicators on the wire.
type KPIs struct {
	UrgentOrders       int             `json:"articulos_urgentes"`
	TotalOrders        int             `json:"total_articulos"`
	AvgSaturationPct   decimal.Decimal `json:"saturacion_promedio"`
	BottleneckCount    int             `json:"cuellos_botella_count"`
	TotalRequiredHours decimal.Decimal `json:"horas_totales"`
	ActiveCenters      int             `json:"centros_activos"`
}

// ScenarioResult is the full response of one scenario computation.
type ScenarioResult struct {
	Sequence    []SequenceEntry   `json:"secuencia"`
	Saturation  []SaturationEntry `json:"saturacion"`
	KPIs        KPIs              `json:"kpis"`
	Bottlenecks []SaturationEntry `json:"cuellos_botella"`
	Warnings    int               `json:"warnings"`
}

// FromResult converts a planning result into its wire form, rounding hours
// and percentages to the display precision the consumers expect.
func FromResult(r *planning.Result) *ScenarioResult {
	out := &ScenarioResult{
		Sequence:    make([]SequenceEntry, len(r.Sequence)),
		Saturation:  make([]SaturationEntry, len(r.Saturation)),
		Bottlenecks: make([]SaturationEntry, 0, len(r.Bottlenecks)),
		Warnings:    r.Warnings,
		KPIs: KPIs{
			UrgentOrders:       r.KPIs.UrgentOrders,
			TotalOrders:        r.KPIs.TotalOrders,
			AvgSaturationPct:   r.KPIs.AvgSaturationPct.Round(1),
			BottleneckCount:    r.KPIs.BottleneckCount,
			TotalRequiredHours: r.KPIs.TotalRequiredHours.Round(1),
			ActiveCenters:      r.KPIs.ActiveCenters,
		},
	}
	for i, mo := range r.Sequence {
		out.Sequence[i] = newSequenceEntry(mo)
	}
	for i, rec := range r.Saturation {
		out.Saturation[i] = newSaturationEntry(rec)
	}
	for _, rec := range r.Bottlenecks {
		out.Bottlenecks = append(out.Bottlenecks, newSaturationEntry(rec))
	}
	return out
}

func newSequenceEntry(mo entities.ManufacturingOrder) SequenceEntry {
	return SequenceEntry{
		Order:         mo.Sequence,
		OrderID:       mo.OrderID,
		Article:       string(mo.Article),
		Center:        string(mo.Center),
		RoutingSeq:    mo.RoutingSeq,
		Quantity:      mo.Quantity,
		DueDate:       mo.DueDate.Format(time.RFC3339),
		Status:        mo.Status.String(),
		DaysRemaining: mo.DaysRemaining,
		RequiredHours: mo.RequiredHours.Round(2),
		RawMaterial:   mo.RawMaterial,
	}
}

func newSaturationEntry(rec entities.SaturationRecord) SaturationEntry {
	return SaturationEntry{
		Center:         string(rec.Center),
		RequiredHours:  rec.RequiredHours.Round(1),
		AvailableHours: rec.AvailableHours.Round(1),
		SaturationPct:  rec.SaturationPct.Round(1),
		Bottleneck:     rec.Bottleneck,
	}
}
