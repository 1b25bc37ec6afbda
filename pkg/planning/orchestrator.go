package planning

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// ExtraShiftHoursPerDay is the capacity bonus per horizon day granted to
// every center when the extra-shift knob is on.
const ExtraShiftHoursPerDay = 8

// Engine coordinates scenario computation over the current snapshot: it
// partitions the order set one unit per order, dispatches units across a
// bounded pool, collects every unit's result or failure, and hands the
// partials to the aggregator.
type Engine struct {
	store    *datastore.Store
	poolSize int
	log      logr.Logger
	now      func() time.Time

	// compute is the per-order worker function, replaceable in tests to
	// exercise unit-failure isolation.
	compute func(entities.Order, *PlanContext, entities.ScenarioParams, time.Time) unitResult

	// The context is rebuilt when the snapshot changes and reused across
	// scenario calls otherwise.
	mu     sync.Mutex
	cached *PlanContext
}

// Option configures an Engine.
type Option func(*Engine)

// WithPoolSize bounds the number of units computed concurrently.
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithClock overrides the time source used for horizon and urgency math.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine bound to a snapshot store. The default pool
// size matches the available parallel execution units.
func NewEngine(store *datastore.Store, log logr.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		poolSize: runtime.GOMAXPROCS(0),
		log:      log.WithName("planning"),
		now:      time.Now,
		compute:  computeOrder,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadContext returns the plan context for the current snapshot, building it
// if the snapshot changed since the last call. Fails with a SchemaError when
// a required table is absent.
func (e *Engine) LoadContext() (*PlanContext, error) {
	snap, ok := e.store.Current()
	if !ok {
		return nil, ErrNotLoaded
	}
	return e.contextFor(snap)
}

func (e *Engine) contextFor(snap *datastore.Snapshot) (*PlanContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cached != nil && e.cached.SnapshotID() == snap.ID {
		return e.cached, nil
	}
	pc, err := BuildContext(snap)
	if err != nil {
		return nil, fmt.Errorf("building plan context: %w", err)
	}
	e.log.V(1).Info("plan context built",
		"snapshot", snap.ID,
		"articles_with_routing", len(pc.routing),
		"centers", len(pc.capacity),
	)
	e.cached = pc
	return pc, nil
}

// CalculateScenario computes one what-if scenario. Synchronous: it blocks
// until every dispatched unit has completed or failed. Cancelling ctx
// abandons the run; results of in-flight units are discarded.
func (e *Engine) CalculateScenario(ctx context.Context, params entities.ScenarioParams) (*Result, error) {
	start := time.Now()
	if err := validateParams(params); err != nil {
		return nil, err
	}

	snap, ok := e.store.Current()
	if !ok {
		return nil, ErrNotLoaded
	}
	pc, err := e.contextFor(snap)
	if err != nil {
		return nil, err
	}

	today := e.now()
	orders := snap.Orders
	units := make([]unitResult, len(orders))

	var failMu sync.Mutex
	var failures []UnitFailure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.poolSize)
	for i := range orders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					failMu.Lock()
					failures = append(failures, UnitFailure{
						Unit:    i,
						Article: orders[i].Article,
						Err:     fmt.Errorf("unit panicked: %v", r),
					})
					failMu.Unlock()
				}
			}()
			units[i] = e.compute(orders[i], pc, params, today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scenario abandoned: %w", err)
	}

	considered := 0
	for _, u := range units {
		if u.considered {
			considered++
		}
	}
	if considered == 0 && pc.Empty() {
		return nil, ErrNoData
	}

	// Supply-side adjustment happens once, before aggregation, on a
	// scenario-local capacity variant. The base context is untouched.
	capCtx := pc
	if params.ExtraShift {
		bonus := decimal.NewFromInt(ExtraShiftHoursPerDay * int64(params.HorizonDays))
		capCtx = pc.withCapacityBonus(bonus)
	}

	result := aggregate(units, failures, capCtx)

	for _, f := range failures {
		e.log.Error(f.Err, "unit failed", "unit", f.Unit, "article", f.Article)
	}
	e.log.Info("scenario computed",
		"orders_considered", considered,
		"manufacturing_orders", len(result.Sequence),
		"active_centers", result.KPIs.ActiveCenters,
		"bottlenecks", result.KPIs.BottleneckCount,
		"warnings", result.Warnings,
		"elapsed", time.Since(start),
	)
	return result, nil
}
