package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	snapshotv1 "github.com/muhammadchandra19/market-sim/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

// SnapshotSource serves the current state on demand. The simulation
// controller implements this.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (snapshotv1.Snapshot, error)
}

const snapshotTimeout = 2 * time.Second

// Server exposes the read-only HTTP surface: the snapshot accessor, a
// health check and the metrics endpoint.
type Server struct {
	source SnapshotSource
	logger *logger.Logger
	mux    *http.ServeMux
}

// NewServer builds the HTTP handler. metricsHandler may be nil.
func NewServer(source SnapshotSource, metricsHandler http.Handler, logger *logger.Logger) *Server {
	s := &Server{
		source: source,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/health", s.handleHealth)
	if metricsHandler != nil {
		s.mux.Handle("/metrics", metricsHandler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleState returns the identical snapshot structure the push channel
// delivers, independent of it.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	defer cancel()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Error(err, logger.Field{Key: "action", Value: "serve_state"})
		http.Error(w, "state unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error(err, logger.Field{Key: "action", Value: "encode_state"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
