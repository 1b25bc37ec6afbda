package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plantops/mrpsim/pkg/application/dto"
	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
	"github.com/plantops/mrpsim/pkg/planning"
)

type healthResponse struct {
	Status    string `json:"status"`
	Port      int    `json:"port"`
	Loaded    bool   `json:"loaded"`
	Timestamp string `json:"timestamp"`
}

type initLoadRequest struct {
	Path        string `json:"path"`
	ForceReload bool   `json:"force_reload"`
}

type initLoadResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Stats   datastore.Stats `json:"stats"`
}

type simulateRequest struct {
	SaturationFactor float64 `json:"factor_saturacion"`
	ExtraShift       bool    `json:"turno_extra"`
	HorizonDays      int     `json:"horizonte"`
}

type listResponse struct {
	Count int `json:"count"`
	Data  any `json:"data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Port:      s.port,
		Loaded:    s.store.IsLoaded(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleInitLoad(w http.ResponseWriter, r *http.Request) {
	var req initLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}

	// Skip the load when nothing changed on disk, unless forced.
	if snap, ok := s.store.Current(); ok && !req.ForceReload {
		modTimes, err := s.loader.SourceModTimes(req.Path)
		if err == nil && snap.SameSources(modTimes) {
			writeJSON(w, http.StatusOK, initLoadResponse{
				Status:  "cached",
				Message: "data already loaded, no changes detected",
				Stats:   snap.Stats,
			})
			return
		}
	}

	snap, err := s.loader.LoadDir(req.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Detail: err.Error()})
		return
	}
	s.store.Replace(snap)
	if s.metrics != nil {
		s.metrics.SnapshotLoads.Inc()
	}

	writeJSON(w, http.StatusOK, initLoadResponse{
		Status:  "ok",
		Message: "data loaded",
		Stats:   snap.Stats,
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req := simulateRequest{
		SaturationFactor: 1.0,
		HorizonDays:      entities.DefaultHorizonDays,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	params := entities.ScenarioParams{
		SaturationFactor: decimal.NewFromFloat(req.SaturationFactor),
		ExtraShift:       req.ExtraShift,
		HorizonDays:      req.HorizonDays,
	}
	result, ok := s.runScenario(w, r, params)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.FromResult(result))
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScenario(w, r, entities.DefaultScenarioParams())
	if !ok {
		return
	}
	resp := dto.FromResult(result)
	writeJSON(w, http.StatusOK, listResponse{Count: len(resp.Sequence), Data: resp.Sequence})
}

func (s *Server) handleSaturation(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScenario(w, r, entities.DefaultScenarioParams())
	if !ok {
		return
	}
	resp := dto.FromResult(result)
	writeJSON(w, http.StatusOK, listResponse{Count: len(resp.Saturation), Data: resp.Saturation})
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScenario(w, r, entities.DefaultScenarioParams())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.FromResult(result).KPIs)
}

func (s *Server) handleBottlenecks(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScenario(w, r, entities.DefaultScenarioParams())
	if !ok {
		return
	}
	resp := dto.FromResult(result)
	writeJSON(w, http.StatusOK, listResponse{Count: len(resp.Bottlenecks), Data: resp.Bottlenecks})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded": s.store.IsLoaded(),
		"stats":  s.store.Stats(),
	})
}

// runScenario executes one scenario and maps domain errors to HTTP statuses.
// Returns ok=false when a response has already been written.
func (s *Server) runScenario(w http.ResponseWriter, r *http.Request, params entities.ScenarioParams) (*planning.Result, bool) {
	start := time.Now()
	result, err := s.engine.CalculateScenario(r.Context(), params)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		orders := 0
		if result != nil {
			orders = len(result.Sequence)
		}
		s.metrics.ObserveRun(outcome, time.Since(start), orders)
	}
	if err == nil {
		return result, true
	}

	var validationErr *planning.ScenarioValidationError
	var schemaErr *planning.SchemaError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: validationErr.Error()})
	case errors.Is(err, planning.ErrNotLoaded):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "data not loaded, call /init-load first"})
	case errors.Is(err, planning.ErrNoData):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: schemaErr.Error()})
	default:
		s.log.Error(err, "scenario computation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
