package datastore

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// Table names used in load stats, schema errors and the raw-data API.
const (
	TableOrders   = "pedidos"
	TableRouting  = "rutas_ops"
	TableStock    = "stock"
	TableWip      = "wip"
	TableLotRules = "puntos_lotes"
	TableCapacity = "capacidad_centros"
)

// RequiredTables lists every table a snapshot must carry for planning.
var RequiredTables = []string{
	TableOrders, TableRouting, TableStock, TableWip, TableLotRules, TableCapacity,
}

// Stats describes one completed load.
type Stats struct {
	TableRows map[string]int `json:"table_rows"`
	LoadedAt  time.Time      `json:"loaded_at"`
	Elapsed   time.Duration  `json:"elapsed_ms"`
	Source    string         `json:"source"`
}

// Snapshot is one immutable set of the six planning tables. A nil table slice
// means the table was absent from the source (schema error at context build
// time); an empty non-nil slice is a present table with zero rows.
//
// Snapshots are never mutated after construction. Reload produces a fresh
// snapshot and swaps the store pointer; in-flight scenarios keep the one they
// started with.
type Snapshot struct {
	ID       string
	Orders   []entities.Order
	Routing  []entities.RoutingStep
	Stock    []entities.StockLevel
	Wip      []entities.WipRecord
	LotRules []entities.LotRule
	Capacity []entities.CenterCapacity

	// SourceModTimes records source-file modification times so a reload can
	// be skipped when nothing changed.
	SourceModTimes map[string]time.Time
	Stats          Stats
}

// NewSnapshot assembles a snapshot and stamps it with a fresh version id.
func NewSnapshot(
	orders []entities.Order,
	routing []entities.RoutingStep,
	stock []entities.StockLevel,
	wip []entities.WipRecord,
	lotRules []entities.LotRule,
	capacity []entities.CenterCapacity,
) *Snapshot {
	s := &Snapshot{
		ID:       uuid.NewString(),
		Orders:   orders,
		Routing:  routing,
		Stock:    stock,
		Wip:      wip,
		LotRules: lotRules,
		Capacity: capacity,
	}
	s.Stats = Stats{
		TableRows: map[string]int{
			TableOrders:   len(orders),
			TableRouting:  len(routing),
			TableStock:    len(stock),
			TableWip:      len(wip),
			TableLotRules: len(lotRules),
			TableCapacity: len(capacity),
		},
		LoadedAt: time.Now(),
	}
	return s
}

// MissingTables returns the names of required tables absent from the snapshot.
func (s *Snapshot) MissingTables() []string {
	var missing []string
	if s.Orders == nil {
		missing = append(missing, TableOrders)
	}
	if s.Routing == nil {
		missing = append(missing, TableRouting)
	}
	if s.Stock == nil {
		missing = append(missing, TableStock)
	}
	if s.Wip == nil {
		missing = append(missing, TableWip)
	}
	if s.LotRules == nil {
		missing = append(missing, TableLotRules)
	}
	if s.Capacity == nil {
		missing = append(missing, TableCapacity)
	}
	return missing
}

// SameSources reports whether the given source modification times match the
// ones this snapshot was loaded from.
func (s *Snapshot) SameSources(modTimes map[string]time.Time) bool {
	if len(s.SourceModTimes) != len(modTimes) {
		return false
	}
	for path, mtime := range modTimes {
		loaded, ok := s.SourceModTimes[path]
		if !ok || !mtime.Equal(loaded) {
			return false
		}
	}
	return true
}
