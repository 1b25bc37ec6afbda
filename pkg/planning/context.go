package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// PlanContext is the indexed, read-only view of one snapshot: constant-time
// lookups by article and center. It is shared by every worker of a scenario
// run and never mutated after construction, which is what makes the parallel
// phase lock-free.
type PlanContext struct {
	snapshotID  string
	stock       map[entities.ArticleID]decimal.Decimal
	wip         map[entities.ArticleID]decimal.Decimal
	lotSize     map[entities.ArticleID]decimal.Decimal
	rawMaterial map[entities.ArticleID]string
	routing     map[entities.ArticleID][]entities.RoutingStep
	capacity    map[entities.CenterID]decimal.Decimal
}

// BuildContext indexes a snapshot into a PlanContext. It fails only when a
// required table is absent; an article or center missing from a present table
// is tolerated and resolved to a documented default at lookup time.
func BuildContext(snap *datastore.Snapshot) (*PlanContext, error) {
	if missing := snap.MissingTables(); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	pc := &PlanContext{
		snapshotID:  snap.ID,
		stock:       make(map[entities.ArticleID]decimal.Decimal, len(snap.Stock)),
		wip:         make(map[entities.ArticleID]decimal.Decimal, len(snap.Wip)),
		lotSize:     make(map[entities.ArticleID]decimal.Decimal, len(snap.LotRules)),
		rawMaterial: make(map[entities.ArticleID]string, len(snap.LotRules)),
		routing:     make(map[entities.ArticleID][]entities.RoutingStep),
		capacity:    make(map[entities.CenterID]decimal.Decimal, len(snap.Capacity)),
	}

	// Stock and WIP are summed across duplicate rows for an article.
	for _, row := range snap.Stock {
		pc.stock[row.Article] = pc.stock[row.Article].Add(row.Quantity)
	}
	for _, row := range snap.Wip {
		pc.wip[row.Article] = pc.wip[row.Article].Add(row.Quantity)
	}

	for _, rule := range snap.LotRules {
		if rule.LotSize.IsPositive() {
			pc.lotSize[rule.Article] = rule.LotSize
		}
		if rule.RawMaterial != "" {
			pc.rawMaterial[rule.Article] = rule.RawMaterial
		}
	}

	for _, step := range snap.Routing {
		pc.routing[step.Article] = append(pc.routing[step.Article], step)
	}
	for article := range pc.routing {
		steps := pc.routing[article]
		sort.SliceStable(steps, func(i, j int) bool {
			return steps[i].Sequence < steps[j].Sequence
		})
	}

	for _, row := range snap.Capacity {
		pc.capacity[row.Center] = row.AvailableHours
	}

	return pc, nil
}

// SnapshotID returns the id of the snapshot this context was built from.
func (pc *PlanContext) SnapshotID() string { return pc.snapshotID }

// StockFor returns on-hand stock for an article; zero when unknown.
func (pc *PlanContext) StockFor(article entities.ArticleID) decimal.Decimal {
	return pc.stock[article]
}

// WipFor returns work-in-progress quantity for an article; zero when unknown.
func (pc *PlanContext) WipFor(article entities.ArticleID) decimal.Decimal {
	return pc.wip[article]
}

// LotSizeFor returns the lot size for an article, and whether one is defined.
func (pc *PlanContext) LotSizeFor(article entities.ArticleID) (decimal.Decimal, bool) {
	size, ok := pc.lotSize[article]
	return size, ok
}

// RawMaterialFor returns the raw-material code for an article, if any.
func (pc *PlanContext) RawMaterialFor(article entities.ArticleID) string {
	return pc.rawMaterial[article]
}

// RoutingFor returns the article's routing steps in sequence order. The
// returned slice must not be modified.
func (pc *PlanContext) RoutingFor(article entities.ArticleID) []entities.RoutingStep {
	return pc.routing[article]
}

// CapacityFor returns available hours for a center; zero when unknown.
func (pc *PlanContext) CapacityFor(center entities.CenterID) decimal.Decimal {
	return pc.capacity[center]
}

// Empty reports whether the context carries no planning data at all.
func (pc *PlanContext) Empty() bool {
	return len(pc.stock) == 0 && len(pc.wip) == 0 && len(pc.routing) == 0 &&
		len(pc.lotSize) == 0 && len(pc.capacity) == 0
}

// withCapacityBonus returns a scenario-local variant of the context with the
// given hours added to every center's available capacity. The base context is
// shared, not copied: only the capacity index is rebuilt. Used for the extra
// shift, once per scenario, before aggregation.
func (pc *PlanContext) withCapacityBonus(bonus decimal.Decimal) *PlanContext {
	variant := *pc
	variant.capacity = make(map[entities.CenterID]decimal.Decimal, len(pc.capacity))
	for center, hours := range pc.capacity {
		variant.capacity[center] = hours.Add(bonus)
	}
	return &variant
}
