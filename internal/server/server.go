package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/copyleftdev/powell/internal/config"
	"github.com/copyleftdev/powell/internal/errors"
	"github.com/copyleftdev/powell/internal/logging"
	"github.com/copyleftdev/powell/internal/optimization"
	"github.com/copyleftdev/powell/internal/optimization/objectives"
	"github.com/copyleftdev/powell/internal/optimization/powell"
)

// Logger defines the logging interface used by the server
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
	Named(component string) *zap.Logger
}

// Job states.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// MinimizationState tracks one minimization job. Fields are guarded by the
// server's mutex.
type MinimizationState struct {
	ID          string
	Objective   string
	Status      string
	Start       []float64
	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time
	Result      *optimization.Result
	Err         error
	CancelFunc  context.CancelFunc
}

func (st *MinimizationState) terminal() bool {
	switch st.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// StartRequest is the body of a minimization request. Zero values select the
// objective's default dimension and start point and the server's configured
// tolerance and sweep budget.
type StartRequest struct {
	Objective     string    `json:"objective"`
	Dimension     int       `json:"dimension,omitempty"`
	Start         []float64 `json:"start,omitempty"`
	Tolerance     float64   `json:"tolerance,omitempty"`
	MaxIterations int       `json:"max_iterations,omitempty"`
}

// StartResponse acknowledges an accepted minimization.
type StartResponse struct {
	ID     string `json:"minimization_id"`
	Status string `json:"status"`
}

// StatusResponse reports the progress or outcome of a minimization.
type StatusResponse struct {
	ID          string    `json:"minimization_id"`
	Objective   string    `json:"objective"`
	Status      string    `json:"status"`
	StartTime   string    `json:"start_time"`
	LastUpdate  string    `json:"last_update"`
	EndTime     string    `json:"end_time,omitempty"`
	Point       []float64 `json:"point,omitempty"`
	Value       *float64  `json:"value,omitempty"`
	Iterations  int       `json:"iterations,omitempty"`
	Evaluations int       `json:"evaluations,omitempty"`
	Converged   bool      `json:"converged"`
	Termination string    `json:"termination,omitempty"`
	History     []float64 `json:"history,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// ObjectiveInfo describes a registered objective.
type ObjectiveInfo struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Start     []float64 `json:"start"`
	Minimum   []float64 `json:"minimum"`
	Value     float64   `json:"value"`
}

// Server implements the HTTP and JSON-RPC server for the minimization service.
// It manages minimization jobs and provides endpoints to start, monitor, and cancel them.
type Server struct {
	cfg     *config.Config
	logger  Logger
	base    powell.Config
	metrics *Metrics

	// workers bounds the number of concurrently running searches.
	workers chan struct{}
	wg      sync.WaitGroup
	seq     atomic.Uint64

	minimizations   map[string]*MinimizationState
	minimizationsMu sync.RWMutex
}

// NewServer creates a new server instance. Metrics are registered with reg.
func NewServer(cfg *config.Config, logger Logger, reg prometheus.Registerer) (*Server, error) {
	base, err := cfg.PowellConfig()
	if err != nil {
		return nil, errors.Wrap(err, "invalid minimizer configuration").WithComponent("server")
	}
	workers := cfg.Minimizer.WorkerCount
	if workers < 1 {
		workers = 1
	}
	return &Server{
		cfg:           cfg,
		logger:        logger,
		base:          base,
		metrics:       NewMetrics(reg),
		workers:       make(chan struct{}, workers),
		minimizations: make(map[string]*MinimizationState),
	}, nil
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/minimize", s.handleMinimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/minimization/{id}", s.handleCancel)
	})

	r.Get("/objectives", s.handleObjectives)

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// Start validates req and launches the minimization in the background.
func (s *Server) Start(req StartRequest) (*StartResponse, error) {
	obj, err := objectives.Lookup(req.Objective, req.Dimension)
	if err != nil {
		return nil, err
	}

	start := obj.Start
	if req.Start != nil {
		if len(req.Start) != obj.Function.InputDim() {
			return nil, optimization.InvalidArgument("start point has length %d, objective %s has dimension %d",
				len(req.Start), obj.Name, obj.Function.InputDim())
		}
		for i, v := range req.Start {
			if !optimization.IsFinite(v) {
				return nil, optimization.InvalidArgument("start[%d] is %v", i, v)
			}
		}
		start = append([]float64(nil), req.Start...)
	}

	id := fmt.Sprintf("min_%d_%d", time.Now().UnixNano(), s.seq.Add(1))

	pc := s.base
	if req.Tolerance != 0 {
		pc.Convergence.Tolerance = req.Tolerance
	}
	if req.MaxIterations != 0 {
		pc.MaxIterations = req.MaxIterations
	}
	pc.Logger = s.logger.Named("powell").With(zap.String("minimization_id", id))
	m, err := powell.New(pc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	state := &MinimizationState{
		ID:          id,
		Objective:   obj.Name,
		Status:      StatusPending,
		Start:       start,
		StartTime:   now,
		LastUpdated: now,
		CancelFunc:  cancel,
	}

	s.minimizationsMu.Lock()
	s.minimizations[id] = state
	s.minimizationsMu.Unlock()

	s.metrics.started.Inc()
	s.logger.Info("Minimization accepted", map[string]interface{}{
		"minimization_id": id,
		"objective":       obj.Name,
		"dimension":       len(start),
	})

	s.wg.Add(1)
	go s.run(ctx, state, m, obj.Function)

	return &StartResponse{ID: id, Status: StatusPending}, nil
}

// run executes a minimization once a worker slot is free.
func (s *Server) run(ctx context.Context, state *MinimizationState, m *powell.Minimizer, f optimization.VectorFunction) {
	defer s.wg.Done()

	select {
	case s.workers <- struct{}{}:
	case <-ctx.Done():
		s.finish(state, nil, ctx.Err(), 0)
		return
	}
	defer func() { <-s.workers }()

	s.minimizationsMu.Lock()
	if state.Status == StatusPending {
		state.Status = StatusRunning
		state.LastUpdated = time.Now()
	}
	s.minimizationsMu.Unlock()

	s.metrics.running.Inc()
	began := time.Now()
	res, err := m.Minimize(ctx, f, state.Start)
	s.metrics.running.Dec()

	s.finish(state, res, err, time.Since(began).Seconds())
}

func (s *Server) finish(state *MinimizationState, res *optimization.Result, err error, seconds float64) {
	s.minimizationsMu.Lock()
	defer s.minimizationsMu.Unlock()

	now := time.Now()
	state.LastUpdated = now
	if state.EndTime == nil {
		state.EndTime = &now
	}

	log := s.logger.WithFields(map[string]interface{}{
		"minimization_id": state.ID,
		"objective":       state.Objective,
	})

	switch {
	case state.Status == StatusCancelled:
		// Cancel already recorded the outcome.
		log.Info("Minimization stopped after cancellation")
	case err != nil:
		state.Status = StatusFailed
		state.Err = err
		s.metrics.finished.WithLabelValues("failed").Inc()
		log.Error("Minimization failed", map[string]interface{}{"error": err})
	default:
		state.Status = StatusCompleted
		state.Result = res
		s.metrics.observeResult(state.Objective, res, seconds)
		log.Info("Minimization completed", map[string]interface{}{
			"value":       res.Value,
			"iterations":  res.Iterations,
			"evaluations": res.Evaluations,
			"converged":   res.Converged,
		})
	}
}

// Status returns a snapshot of a minimization.
func (s *Server) Status(id string) (*StatusResponse, error) {
	s.minimizationsMu.RLock()
	defer s.minimizationsMu.RUnlock()

	state, ok := s.minimizations[id]
	if !ok {
		return nil, errors.Errorf("minimization %q: %w", id, errors.ErrNotFound)
	}

	resp := &StatusResponse{
		ID:         state.ID,
		Objective:  state.Objective,
		Status:     state.Status,
		StartTime:  state.StartTime.Format(time.RFC3339),
		LastUpdate: state.LastUpdated.Format(time.RFC3339),
	}
	if state.EndTime != nil {
		resp.EndTime = state.EndTime.Format(time.RFC3339)
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}
	if res := state.Result; res != nil {
		value := res.Value
		resp.Point = append([]float64(nil), res.Point...)
		resp.Value = &value
		resp.Iterations = res.Iterations
		resp.Evaluations = res.Evaluations
		resp.Converged = res.Converged
		resp.Termination = res.Status.String()
		resp.History = append([]float64(nil), res.History...)
	}
	return resp, nil
}

// Cancel stops a pending or running minimization.
func (s *Server) Cancel(id string) error {
	s.minimizationsMu.Lock()
	defer s.minimizationsMu.Unlock()

	state, ok := s.minimizations[id]
	if !ok {
		return errors.Errorf("minimization %q: %w", id, errors.ErrNotFound)
	}
	if state.terminal() {
		return errors.Errorf("cannot cancel minimization with status %s: %w", state.Status, errors.ErrConflict)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}
	now := time.Now()
	state.Status = StatusCancelled
	state.EndTime = &now
	state.LastUpdated = now
	s.metrics.finished.WithLabelValues(StatusCancelled).Inc()

	s.logger.Info("Minimization cancelled", map[string]interface{}{
		"minimization_id": id,
	})
	return nil
}

// Objectives lists the registered objectives at their default dimension.
func (s *Server) Objectives() []ObjectiveInfo {
	names := objectives.Names()
	out := make([]ObjectiveInfo, 0, len(names))
	for _, name := range names {
		o, err := objectives.Lookup(name, 0)
		if err != nil {
			continue
		}
		out = append(out, ObjectiveInfo{
			Name:      o.Name,
			Dimension: o.Function.InputDim(),
			Start:     o.Start,
			Minimum:   o.OptLoc,
			Value:     o.OptVal,
		})
	}
	return out
}

// Close cancels all outstanding minimizations and waits for them to stop.
func (s *Server) Close() error {
	s.minimizationsMu.Lock()
	for _, st := range s.minimizations {
		if st.CancelFunc != nil {
			st.CancelFunc()
		}
	}
	s.minimizationsMu.Unlock()

	s.wg.Wait()
	return nil
}

// handleMinimize handles POST /api/v1/minimize.
func (s *Server) handleMinimize(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	resp, err := s.Start(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// handleStatus handles GET /api/v1/status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Status(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCancel handles DELETE /api/v1/minimization/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.Cancel(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancellation requested"})
}

// handleObjectives handles GET /objectives.
func (s *Server) handleObjectives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Objectives())
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
