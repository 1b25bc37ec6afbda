package planning

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// ZeroRateSentinelHours is the load charged for a routing step whose hourly
// rate is zero. A large finite value instead of a division fault: the step
// shows up as an obvious bottleneck rather than crashing the run.
var ZeroRateSentinelHours = decimal.NewFromInt(9999)

// minutesPerHour converts the production-time term of the load formula.
var minutesPerHour = decimal.NewFromInt(60)

// unitResult is the output of one worker invocation: the manufacturing
// orders for a single demand order plus its partial per-center load. Local
// to the unit; merged deterministically by the aggregator.
type unitResult struct {
	considered bool
	orders     []entities.ManufacturingOrder
	load       map[entities.CenterID]decimal.Decimal
}

// computeOrder runs the MRP algorithm for one demand order. Pure function
// over the read-only context: no shared state, no side effects, and it never
// fails on a data condition — irregular inputs resolve to documented
// fallbacks.
func computeOrder(order entities.Order, pc *PlanContext, params entities.ScenarioParams, today time.Time) unitResult {
	daysRemaining := int(order.DueDate.Sub(today).Hours() / 24)
	if daysRemaining > params.HorizonDays {
		// Due beyond the horizon: not considered in this scenario.
		return unitResult{}
	}
	result := unitResult{considered: true}

	net := order.Quantity.Sub(pc.StockFor(order.Article)).Sub(pc.WipFor(order.Article))
	if !net.IsPositive() {
		// Fully covered by stock plus WIP.
		return result
	}

	qtyToBuild := net
	if lot, ok := pc.LotSizeFor(order.Article); ok {
		// Round up to the next whole multiple of the lot size.
		qtyToBuild = net.Div(lot).Ceil().Mul(lot)
	}

	status := entities.ClassifyUrgency(daysRemaining)
	rawMaterial := pc.RawMaterialFor(order.Article)

	routing := pc.RoutingFor(order.Article)
	if len(routing) == 0 {
		// No routing defined: emit a single marker order so the article is
		// visible in the sequence, with no load against any center.
		result.orders = append(result.orders, entities.ManufacturingOrder{
			OrderID:       fmt.Sprintf("OF-ERR-%s", order.Article),
			Article:       order.Article,
			Center:        "SIN_RUTA",
			Quantity:      qtyToBuild,
			RequiredHours: decimal.Zero,
			DueDate:       order.DueDate,
			Status:        entities.StatusNoRouting,
			DaysRemaining: daysRemaining,
			RawMaterial:   rawMaterial,
		})
		return result
	}

	result.load = make(map[entities.CenterID]decimal.Decimal, len(routing))
	for _, step := range routing {
		var hours decimal.Decimal
		if step.HourlyRate.IsZero() {
			hours = ZeroRateSentinelHours
		} else {
			hours = step.SetupHours.Add(qtyToBuild.Div(step.HourlyRate).Mul(minutesPerHour))
		}
		// The stress factor scales load where it is generated, not capacity.
		hours = hours.Mul(params.SaturationFactor)

		result.orders = append(result.orders, entities.ManufacturingOrder{
			OrderID:       fmt.Sprintf("OF-SIM-%s-%d", order.Article, step.Sequence),
			Article:       order.Article,
			Center:        step.Center,
			RoutingSeq:    step.Sequence,
			Quantity:      qtyToBuild,
			RequiredHours: hours,
			DueDate:       order.DueDate,
			Status:        status,
			DaysRemaining: daysRemaining,
			RawMaterial:   rawMaterial,
		})
		if step.Center != "" {
			result.load[step.Center] = result.load[step.Center].Add(hours)
		}
	}

	return result
}
