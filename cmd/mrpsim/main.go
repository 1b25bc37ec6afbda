package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/infrastructure/metrics"
	"github.com/plantops/mrpsim/pkg/infrastructure/repositories/csv"
	"github.com/plantops/mrpsim/pkg/interfaces/rest"
	"github.com/plantops/mrpsim/pkg/planning"
)

func main() {
	var (
		dataDir   = pflag.String("data-dir", "", "Directory with the planning CSV tables to load at startup (optional)")
		portStart = pflag.Int("port-start", 8000, "Start of the port range to scan for a free listener")
		portEnd   = pflag.Int("port-end", 8100, "End (exclusive) of the port range")
		poolSize  = pflag.Int("pool-size", 0, "Worker pool size (0 = number of CPUs)")
		verbosity = pflag.Int("v", 0, "Log verbosity")
	)
	pflag.Parse()

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-*verbosity))
	zapLog, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLog.Sync() }()
	log := zapr.NewLogger(zapLog).WithName("mrpsim")

	store := datastore.NewStore(log)
	loader := csv.NewLoader(log)
	engine := planning.NewEngine(store, log, planning.WithPoolSize(*poolSize))

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	if *dataDir != "" {
		snap, err := loader.LoadDir(*dataDir)
		if err != nil {
			log.Error(err, "startup data load failed", "dir", *dataDir)
			os.Exit(1)
		}
		store.Replace(snap)
		m.SnapshotLoads.Inc()
	}

	listener, port, err := listenFreePort(*portStart, *portEnd)
	if err != nil {
		log.Error(err, "no free port available")
		os.Exit(1)
	}

	server := rest.New(store, engine, loader, m, registry, log, port)
	httpServer := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handshake line the desktop shell scans stdout for.
	fmt.Printf("BACKEND_READY|PORT=%d\n", port)
	log.Info("serving", "port", port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "server failed")
			os.Exit(1)
		}
	}
}

// listenFreePort binds the first free localhost port in [start, end).
func listenFreePort(start, end int) (net.Listener, int, error) {
	for port := start; port < end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			return listener, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port between %d and %d", start, end)
}
