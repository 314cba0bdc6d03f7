package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/problem"
	"github.com/eugenenazirov/binpack-search/internal/report"
	"github.com/eugenenazirov/binpack-search/internal/search"
	"github.com/eugenenazirov/binpack-search/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxItems = 200

// Runner performs a single search run.
type Runner interface {
	Run(ctx context.Context, method search.Method, p *packing.Problem, seed int64) (engine.Record, error)
}

// Handler wires the search runner and run storage into HTTP handlers.
type Handler struct {
	runner  Runner
	storage storage.Storage

	clock    func() time.Time
	maxItems int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxItems bounds the number of items a single solve request may carry.
// Non-positive values keep the default.
func WithMaxItems(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxItems = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(runner Runner, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		runner:  runner,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxItems: defaultMaxItems,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMethods(w http.ResponseWriter, r *http.Request) {
	_ = r
	methods := search.Methods()
	resp := methodsResponse{Methods: make([]string, len(methods))}
	for i, m := range methods {
		resp.Methods[i] = string(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	method, err := search.ParseMethod(req.Method)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid method", err.Error(), "GET /api/methods lists the supported methods")
		return
	}

	p, err := h.buildProblem(req)
	if err != nil {
		writeSolveError(w, err)
		return
	}

	rec, err := h.runner.Run(r.Context(), method, p, req.Seed)
	if err != nil {
		writeSolveError(w, err)
		return
	}
	rec.CreatedAt = h.clock()

	saved, err := h.storage.Save(rec)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(saved))
}

func (h *Handler) buildProblem(req solveRequest) (*packing.Problem, error) {
	if req.Generate != nil {
		g := req.Generate
		if g.Items > h.maxItems {
			return nil, fmt.Errorf("%w: at most %d items per request (got %d)", errTooManyItems, h.maxItems, g.Items)
		}
		return problem.Generate(g.Items, g.Capacity, g.MaxSize, search.NewRand(g.Seed))
	}
	if len(req.Items) > h.maxItems {
		return nil, fmt.Errorf("%w: at most %d items per request (got %d)", errTooManyItems, h.maxItems, len(req.Items))
	}
	return packing.NewProblem(req.Capacity, req.Items)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	_ = r
	records, err := h.storage.List()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := runListResponse{Runs: make([]runSummary, len(records))}
	for i, rec := range records {
		resp.Runs[i] = toRunSummary(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(rec))
}

func (h *Handler) handleRunReport(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Text(&buf, rec); err != nil {
		writeInternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) lookupRun(w http.ResponseWriter, r *http.Request) (engine.Record, bool) {
	id := r.PathValue("id")
	rec, err := h.storage.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "Run not found", fmt.Sprintf("no stored run with id %q", id))
			return engine.Record{}, false
		}
		writeInternalError(w, err)
		return engine.Record{}, false
	}
	return rec, true
}

var errTooManyItems = errors.New("too many items")

func writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, packing.ErrMalformedProblem):
		writeError(w, http.StatusBadRequest, "Invalid problem", err.Error())
	case errors.Is(err, problem.ErrInvalidGenerator):
		writeError(w, http.StatusBadRequest, "Invalid generator", err.Error())
	case errors.Is(err, errTooManyItems):
		writeError(w, http.StatusBadRequest, "Problem too large", err.Error(), "use the binpack solve command for large instances")
	case errors.Is(err, search.ErrUnknownMethod):
		writeError(w, http.StatusBadRequest, "Invalid method", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type solveRequest struct {
	Method   string          `json:"method"`
	Seed     int64           `json:"seed"`
	Capacity int             `json:"capacity"`
	Items    []packing.Item  `json:"items"`
	Generate *generateParams `json:"generate,omitempty"`
}

type generateParams struct {
	Items    int   `json:"items"`
	Capacity int   `json:"capacity"`
	MaxSize  int   `json:"maxSize"`
	Seed     int64 `json:"seed"`
}

type runSummary struct {
	ID         string        `json:"id"`
	Method     search.Method `json:"method"`
	Seed       int64         `json:"seed"`
	CreatedAt  time.Time     `json:"createdAt"`
	Items      int           `json:"items"`
	FinalCost  float64       `json:"finalCost"`
	Containers int           `json:"containers"`
	LowerBound int           `json:"lowerBound"`
	Feasible   bool          `json:"feasible"`
	DurationMs int64         `json:"durationMs"`
}

type runResponse struct {
	engine.Record
	Feasible   bool  `json:"feasible"`
	DurationMs int64 `json:"durationMs"`
}

type runListResponse struct {
	Runs []runSummary `json:"runs"`
}

type methodsResponse struct {
	Methods []string `json:"methods"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toRunSummary(rec engine.Record) runSummary {
	return runSummary{
		ID:         rec.ID,
		Method:     rec.Method,
		Seed:       rec.Seed,
		CreatedAt:  rec.CreatedAt,
		Items:      rec.Problem.Items,
		FinalCost:  rec.FinalCost,
		Containers: len(rec.Containers),
		LowerBound: rec.Problem.LowerBound,
		Feasible:   rec.Feasible(),
		DurationMs: rec.Duration.Milliseconds(),
	}
}

func toRunResponse(rec engine.Record) runResponse {
	return runResponse{
		Record:     rec,
		Feasible:   rec.Feasible(),
		DurationMs: rec.Duration.Milliseconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
