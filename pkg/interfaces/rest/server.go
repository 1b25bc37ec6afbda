// Package rest exposes the engine over a local JSON API for the desktop
// shell: health probe, data load, scenario simulation and read endpoints.
package rest

import (
	"net/http"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/infrastructure/metrics"
	"github.com/plantops/mrpsim/pkg/infrastructure/repositories/csv"
	"github.com/plantops/mrpsim/pkg/planning"
)

// Server wires the HTTP surface to the store, loader and engine.
type Server struct {
	store    *datastore.Store
	engine   *planning.Engine
	loader   *csv.Loader
	metrics  *metrics.ScenarioMetrics
	gatherer prometheus.Gatherer
	log      logr.Logger
	port     int
}

// New creates the API server. metrics and gatherer may be nil to disable the
// /metrics endpoint.
func New(
	store *datastore.Store,
	engine *planning.Engine,
	loader *csv.Loader,
	m *metrics.ScenarioMetrics,
	gatherer prometheus.Gatherer,
	log logr.Logger,
	port int,
) *Server {
	return &Server{
		store:    store,
		engine:   engine,
		loader:   loader,
		metrics:  m,
		gatherer: gatherer,
		log:      log.WithName("rest"),
		port:     port,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /init-load", s.handleInitLoad)
	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("GET /data/secuencia", s.handleSequence)
	mux.HandleFunc("GET /data/saturacion", s.handleSaturation)
	mux.HandleFunc("GET /data/kpis", s.handleKPIs)
	mux.HandleFunc("GET /data/cuellos-botella", s.handleBottlenecks)
	mux.HandleFunc("GET /data/stats", s.handleStats)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
