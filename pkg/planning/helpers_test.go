package planning

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// testToday is the fixed clock used across planning tests.
var testToday = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func daysFromToday(days int) time.Time {
	return testToday.Add(time.Duration(days) * 24 * time.Hour)
}

func defaultParams() entities.ScenarioParams {
	return entities.ScenarioParams{
		SaturationFactor: decimal.NewFromInt(1),
		HorizonDays:      entities.DefaultHorizonDays,
	}
}

// testSnapshot builds a small but complete dataset: two articles, one with a
// two-step routing and lot rule, one routeless, three centers.
func testSnapshot() *datastore.Snapshot {
	return datastore.NewSnapshot(
		[]entities.Order{
			{OrderRef: "P-1", Article: "ART-A", Quantity: dec("100"), DueDate: daysFromToday(5)},
			{OrderRef: "P-2", Article: "ART-B", Quantity: dec("40"), DueDate: daysFromToday(20)},
			{OrderRef: "P-3", Article: "ART-C", Quantity: dec("10"), DueDate: daysFromToday(10)},
		},
		[]entities.RoutingStep{
			{Article: "ART-A", Sequence: 20, Center: "920", SetupHours: dec("0.5"), HourlyRate: dec("30")},
			{Article: "ART-A", Sequence: 10, Center: "910", SetupHours: dec("0.0833"), HourlyRate: dec("60")},
			{Article: "ART-B", Sequence: 10, Center: "910", SetupHours: dec("1"), HourlyRate: dec("20")},
		},
		[]entities.StockLevel{
			{Article: "ART-A", Quantity: dec("20")},
			{Article: "ART-B", Quantity: dec("5")},
		},
		[]entities.WipRecord{
			{Article: "ART-A", Quantity: dec("10")},
		},
		[]entities.LotRule{
			{Article: "ART-A", LotSize: dec("50"), RawMaterial: "MP-STEEL"},
		},
		[]entities.CenterCapacity{
			{Center: "910", AvailableHours: dec("160")},
			{Center: "920", AvailableHours: dec("80")},
		},
	)
}

func testEngine(snap *datastore.Snapshot, opts ...Option) (*Engine, *datastore.Store) {
	store := datastore.NewStore(logr.Discard())
	if snap != nil {
		store.Replace(snap)
	}
	opts = append([]Option{WithClock(func() time.Time { return testToday })}, opts...)
	return NewEngine(store, logr.Discard(), opts...), store
}

func mustContext(snap *datastore.Snapshot) *PlanContext {
	pc, err := BuildContext(snap)
	if err != nil {
		panic(err)
	}
	return pc
}
