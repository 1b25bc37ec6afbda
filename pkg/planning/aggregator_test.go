package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/mrpsim/pkg/domain/entities"
)

func mo(article, center string, daysRemaining int, status entities.OrderStatus, hours string) entities.ManufacturingOrder {
	return entities.ManufacturingOrder{
		OrderID:       "OF-SIM-" + article,
		Article:       entities.ArticleID(article),
		Center:        entities.CenterID(center),
		Quantity:      dec("10"),
		RequiredHours: dec(hours),
		Status:        status,
		DaysRemaining: daysRemaining,
	}
}

func TestAggregate_CanonicalOrderingAndNumbering(t *testing.T) {
	pc := mustContext(testSnapshot())
	// Units arrive in an order a scheduler would never guarantee.
	units := []unitResult{
		{considered: true, orders: []entities.ManufacturingOrder{
			mo("ART-B", "920", 12, entities.StatusNormal, "4"),
		}},
		{considered: true, orders: []entities.ManufacturingOrder{
			mo("ART-B", "910", 3, entities.StatusUrgent, "2"),
			mo("ART-B", "920", 3, entities.StatusUrgent, "1"),
		}},
		{considered: true, orders: []entities.ManufacturingOrder{
			mo("ART-A", "910", 3, entities.StatusUrgent, "5"),
		}},
	}

	result := aggregate(units, nil, pc)
	require.Len(t, result.Sequence, 4)

	// daysRemaining asc, then article, then center.
	assert.Equal(t, entities.ArticleID("ART-A"), result.Sequence[0].Article)
	assert.Equal(t, entities.CenterID("910"), result.Sequence[1].Center)
	assert.Equal(t, entities.ArticleID("ART-B"), result.Sequence[1].Article)
	assert.Equal(t, entities.CenterID("920"), result.Sequence[2].Center)
	assert.Equal(t, 12, result.Sequence[3].DaysRemaining)

	for i, mo := range result.Sequence {
		assert.Equal(t, i+1, mo.Sequence)
	}
}

func TestAggregate_CountEqualsSumOfUnits(t *testing.T) {
	pc := mustContext(testSnapshot())
	units := []unitResult{
		{considered: true, orders: []entities.ManufacturingOrder{
			mo("ART-A", "910", 1, entities.StatusUrgent, "1"),
			mo("ART-A", "920", 1, entities.StatusUrgent, "1"),
		}},
		{considered: true},
		{considered: true, orders: []entities.ManufacturingOrder{
			mo("ART-B", "910", 9, entities.StatusNormal, "1"),
		}},
	}

	result := aggregate(units, nil, pc)
	assert.Len(t, result.Sequence, 3, "no drops, no duplicates")
}

func TestAggregate_SaturationAndBottlenecks(t *testing.T) {
	pc := mustContext(testSnapshot()) // 910: 160h, 920: 80h
	units := []unitResult{
		{considered: true, load: map[entities.CenterID]decimal.Decimal{
			"910": dec("80"),
			"920": dec("100"),
		}},
		{considered: true, load: map[entities.CenterID]decimal.Decimal{
			"910": dec("40"),
		}},
	}

	result := aggregate(units, nil, pc)
	require.Len(t, result.Saturation, 2)

	// Sorted by saturation descending: 920 at 125% first.
	top := result.Saturation[0]
	assert.Equal(t, entities.CenterID("920"), top.Center)
	assert.True(t, top.SaturationPct.Equal(dec("125")), "got %s", top.SaturationPct)
	assert.True(t, top.Bottleneck)

	second := result.Saturation[1]
	assert.Equal(t, entities.CenterID("910"), second.Center)
	assert.True(t, second.SaturationPct.Equal(dec("75")), "got %s", second.SaturationPct)
	assert.False(t, second.Bottleneck)

	require.Len(t, result.Bottlenecks, 1)
	assert.Equal(t, entities.CenterID("920"), result.Bottlenecks[0].Center)
}

func TestAggregate_ZeroCapacityIsSentinelNotFault(t *testing.T) {
	pc := mustContext(testSnapshot())
	units := []unitResult{
		{considered: true, load: map[entities.CenterID]decimal.Decimal{
			"UNKNOWN": dec("5"), // no capacity row at all
		}},
	}

	result := aggregate(units, nil, pc)
	require.Len(t, result.Saturation, 1)
	rec := result.Saturation[0]
	assert.True(t, rec.SaturationPct.Equal(MaxSaturationPct))
	assert.True(t, rec.Bottleneck)
	assert.True(t, rec.AvailableHours.IsZero())
}

func TestAggregate_SaturationIsCappedAtCeiling(t *testing.T) {
	pc := mustContext(testSnapshot()) // 920: 80h
	units := []unitResult{
		{considered: true, load: map[entities.CenterID]decimal.Decimal{
			"920": dec("9999"), // raw 9999/80*100 is far past the ceiling
		}},
	}

	result := aggregate(units, nil, pc)
	require.Len(t, result.Saturation, 1)
	rec := result.Saturation[0]
	assert.True(t, rec.SaturationPct.Equal(MaxSaturationPct), "got %s", rec.SaturationPct)
	assert.True(t, rec.Bottleneck)
	assert.True(t, rec.AvailableHours.Equal(dec("80")), "available hours stay real")
}

func TestAggregate_KPIs(t *testing.T) {
	pc := mustContext(testSnapshot())
	units := []unitResult{
		{considered: true,
			orders: []entities.ManufacturingOrder{
				mo("ART-A", "910", 2, entities.StatusUrgent, "120"),
				mo("ART-A", "920", 2, entities.StatusUrgent, "100"),
			},
			load: map[entities.CenterID]decimal.Decimal{
				"910": dec("120"),
				"920": dec("100"),
			}},
		{considered: true,
			orders: []entities.ManufacturingOrder{
				mo("ART-B", "910", 15, entities.StatusNormal, "40"),
			},
			load: map[entities.CenterID]decimal.Decimal{
				"910": dec("40"),
			}},
	}

	result := aggregate(units, []UnitFailure{{Unit: 9}}, pc)
	kpis := result.KPIs

	assert.Equal(t, 2, kpis.UrgentOrders)
	assert.Equal(t, 3, kpis.TotalOrders)
	assert.Equal(t, 2, kpis.ActiveCenters)
	assert.Equal(t, 1, kpis.BottleneckCount) // 920: 100/80 = 125%
	assert.True(t, kpis.TotalRequiredHours.Equal(dec("260")), "got %s", kpis.TotalRequiredHours)
	// Mean of 100% (910: 160/160) and 125% (920).
	assert.True(t, kpis.AvgSaturationPct.Equal(dec("112.5")), "got %s", kpis.AvgSaturationPct)
	assert.Equal(t, 1, result.Warnings)
}

func TestAggregate_EmptyUnitsYieldZeroedResult(t *testing.T) {
	pc := mustContext(testSnapshot())
	result := aggregate([]unitResult{{considered: true}}, nil, pc)

	assert.Empty(t, result.Sequence)
	assert.Empty(t, result.Saturation)
	assert.Empty(t, result.Bottlenecks)
	assert.Equal(t, entities.KPISet{}, result.KPIs)
	assert.Equal(t, 0, result.Warnings)
}
