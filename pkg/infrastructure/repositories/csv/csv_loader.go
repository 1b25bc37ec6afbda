// Package csv loads the six planning tables from a directory of CSV files,
// one file per table, named after the table. A missing file leaves that table
// absent from the snapshot (nil); the schema check happens when the plan
// context is built, not here.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// Loader handles loading planning data from CSV files
type Loader struct {
	log logr.Logger
}

// NewLoader creates a new CSV loader
func NewLoader(log logr.Logger) *Loader {
	return &Loader{log: log.WithName("csv-loader")}
}

// dateLayouts accepted for fecha_entrega values.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// LoadDir reads every table file present under dir and assembles a snapshot.
func (l *Loader) LoadDir(dir string) (*datastore.Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", dir)
	}

	start := time.Now()
	modTimes := make(map[string]time.Time)

	orders, err := loadTable(l, dir, datastore.TableOrders, modTimes,
		[]string{"pedido", "articulo", "cantidad", "fecha_entrega"}, parseOrder)
	if err != nil {
		return nil, err
	}
	routing, err := loadTable(l, dir, datastore.TableRouting, modTimes,
		[]string{"articulo", "centro", "fase", "t_prep_horas", "prod_horaria"}, parseRoutingStep)
	if err != nil {
		return nil, err
	}
	stock, err := loadTable(l, dir, datastore.TableStock, modTimes,
		[]string{"articulo", "stock"}, parseStockLevel)
	if err != nil {
		return nil, err
	}
	wip, err := loadTable(l, dir, datastore.TableWip, modTimes,
		[]string{"articulo", "cantidad_total"}, parseWipRecord)
	if err != nil {
		return nil, err
	}
	lotRules, err := loadTable(l, dir, datastore.TableLotRules, modTimes,
		[]string{"articulo", "lote_produccion", "mp"}, parseLotRule)
	if err != nil {
		return nil, err
	}
	capacity, err := loadTable(l, dir, datastore.TableCapacity, modTimes,
		[]string{"centro", "capacidad_horas"}, parseCenterCapacity)
	if err != nil {
		return nil, err
	}

	snap := datastore.NewSnapshot(orders, routing, stock, wip, lotRules, capacity)
	snap.SourceModTimes = modTimes
	snap.Stats.Source = dir
	snap.Stats.Elapsed = time.Since(start)
	return snap, nil
}

// SourceModTimes returns the modification times of the table files currently
// present under dir, for change detection without a full load.
func (l *Loader) SourceModTimes(dir string) (map[string]time.Time, error) {
	modTimes := make(map[string]time.Time)
	for _, table := range datastore.RequiredTables {
		path := filepath.Join(dir, table+".csv")
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		modTimes[path] = info.ModTime()
	}
	return modTimes, nil
}

// loadTable reads one table file. Returns (nil, nil) when the file does not
// exist so the absence surfaces as a schema error downstream.
func loadTable[T any](
	l *Loader,
	dir, table string,
	modTimes map[string]time.Time,
	expectedHeader []string,
	parse func([]string) (T, error),
) ([]T, error) {
	path := filepath.Join(dir, table+".csv")
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		l.log.Info("table file absent", "table", table, "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", table, path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", table)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", table, expectedHeader, records[0])
	}

	rows := make([]T, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", table, i+2, len(expectedHeader), len(record))
		}
		row, err := parse(record)
		if err != nil {
			return nil, fmt.Errorf("%s CSV row %d: %w", table, i+2, err)
		}
		rows = append(rows, row)
	}

	modTimes[path] = info.ModTime()
	l.log.V(1).Info("table loaded", "table", table, "rows", len(rows))
	return rows, nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if header[i] != col {
			return false
		}
	}
	return true
}

func parseOrder(record []string) (entities.Order, error) {
	qty, err := decimal.NewFromString(record[2])
	if err != nil {
		return entities.Order{}, fmt.Errorf("invalid cantidad %q: %w", record[2], err)
	}
	due, err := parseDate(record[3])
	if err != nil {
		return entities.Order{}, err
	}
	order, err := entities.NewOrder(record[0], entities.ArticleID(record[1]), qty, due)
	if err != nil {
		return entities.Order{}, err
	}
	return *order, nil
}

func parseRoutingStep(record []string) (entities.RoutingStep, error) {
	seq, err := strconv.Atoi(record[2])
	if err != nil {
		return entities.RoutingStep{}, fmt.Errorf("invalid fase %q: %w", record[2], err)
	}
	setup, err := decimal.NewFromString(record[3])
	if err != nil {
		return entities.RoutingStep{}, fmt.Errorf("invalid t_prep_horas %q: %w", record[3], err)
	}
	rate, err := decimal.NewFromString(record[4])
	if err != nil {
		return entities.RoutingStep{}, fmt.Errorf("invalid prod_horaria %q: %w", record[4], err)
	}
	step, err := entities.NewRoutingStep(entities.ArticleID(record[0]), seq, entities.CenterID(record[1]), setup, rate)
	if err != nil {
		return entities.RoutingStep{}, err
	}
	return *step, nil
}

func parseStockLevel(record []string) (entities.StockLevel, error) {
	qty, err := decimal.NewFromString(record[1])
	if err != nil {
		return entities.StockLevel{}, fmt.Errorf("invalid stock %q: %w", record[1], err)
	}
	return entities.StockLevel{Article: entities.ArticleID(record[0]), Quantity: qty}, nil
}

func parseWipRecord(record []string) (entities.WipRecord, error) {
	qty, err := decimal.NewFromString(record[1])
	if err != nil {
		return entities.WipRecord{}, fmt.Errorf("invalid cantidad_total %q: %w", record[1], err)
	}
	return entities.WipRecord{Article: entities.ArticleID(record[0]), Quantity: qty}, nil
}

func parseLotRule(record []string) (entities.LotRule, error) {
	size, err := decimal.NewFromString(record[1])
	if err != nil {
		return entities.LotRule{}, fmt.Errorf("invalid lote_produccion %q: %w", record[1], err)
	}
	rule, err := entities.NewLotRule(entities.ArticleID(record[0]), size, record[2])
	if err != nil {
		return entities.LotRule{}, err
	}
	return *rule, nil
}

func parseCenterCapacity(record []string) (entities.CenterCapacity, error) {
	hours, err := decimal.NewFromString(record[1])
	if err != nil {
		return entities.CenterCapacity{}, fmt.Errorf("invalid capacidad_horas %q: %w", record[1], err)
	}
	capacity, err := entities.NewCenterCapacity(entities.CenterID(record[0]), hours)
	if err != nil {
		return entities.CenterCapacity{}, err
	}
	return *capacity, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid fecha_entrega %q", value)
}
