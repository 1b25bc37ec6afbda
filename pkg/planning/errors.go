package planning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantops/mrpsim/pkg/domain/entities"
)

// ErrNoData is returned when a scenario is requested with no orders in the
// horizon and an empty plan context. An empty-but-loaded dataset is not an
// error; a dataset with nothing at all to plan against is.
var ErrNoData = errors.New("no orders in horizon and no planning data loaded")

// ErrNotLoaded is returned when a scenario is requested before any snapshot
// has been installed.
var ErrNotLoaded = errors.New("no data snapshot loaded")

// SchemaError reports required tables absent from a snapshot. Fatal for that
// load only; a previously built context stays valid.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required tables missing from snapshot: %s", strings.Join(e.Missing, ", "))
}

// ScenarioValidationError reports a rejected scenario parameter. Raised
// before any dispatch, fatal for that call only.
type ScenarioValidationError struct {
	Field  string
	Reason string
}

func (e *ScenarioValidationError) Error() string {
	return fmt.Sprintf("invalid scenario parameter %s: %s", e.Field, e.Reason)
}

// UnitFailure records one dispatched unit that failed unexpectedly. Failures
// are isolated: the remaining units are still collected and aggregated.
type UnitFailure struct {
	Unit    int
	Article entities.ArticleID
	Err     error
}

func (f UnitFailure) Error() string {
	return fmt.Sprintf("unit %d (article %s): %v", f.Unit, f.Article, f.Err)
}

func validateParams(params entities.ScenarioParams) error {
	if !params.SaturationFactor.IsPositive() {
		return &ScenarioValidationError{
			Field:  "saturation_factor",
			Reason: fmt.Sprintf("must be > 0, got %s", params.SaturationFactor),
		}
	}
	if params.HorizonDays <= 0 {
		return &ScenarioValidationError{
			Field:  "horizon_days",
			Reason: fmt.Sprintf("must be > 0, got %d", params.HorizonDays),
		}
	}
	return nil
}
