// Package induction exposes the decision engine over HTTP. The handlers are
// thin adapters: every decision semantic lives in the core engine.
package induction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/railops/inductd/core/audit"
	"github.com/railops/inductd/core/facts"
	"github.com/railops/inductd/core/fleetstatus"
	coreinduction "github.com/railops/inductd/core/induction"
	"github.com/railops/inductd/core/logger"
	"github.com/railops/inductd/core/model"
)

// actorHeader carries the authenticated actor id set by an upstream proxy.
const actorHeader = "X-Actor-ID"

// Handler serves the induction API.
type Handler struct {
	Engine *coreinduction.Engine
	Store  audit.RunStore
	Status fleetstatus.Store
	Log    logger.Logger
	// DefaultRevenueCap bounds revenue allocation for requests that carry
	// no cap of their own. Zero leaves such requests uncapped.
	DefaultRevenueCap int
}

// Register attaches the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /induction/run", h.runInduction)
	mux.HandleFunc("POST /induction/simulate", h.runSimulation)
	mux.HandleFunc("GET /induction/runs", h.listRuns)
	mux.HandleFunc("GET /fleet/status", h.fleetStatus)
}

type runRequest struct {
	Depot      string `json:"depot,omitempty"`
	RevenueCap *int   `json:"revenue_cap,omitempty"`
}

type runResponse struct {
	Run *model.InductionRun `json:"run"`
	// RecordError reports an audit-store failure; the run above is still
	// the authoritative result.
	RecordError string `json:"record_error,omitempty"`
}

func (h *Handler) runInduction(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeBody(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	cap := req.RevenueCap
	if cap == nil && h.DefaultRevenueCap > 0 {
		def := h.DefaultRevenueCap
		cap = &def
	}
	run, err := h.Engine.RunInduction(r.Context(), facts.Filter{Depot: req.Depot}, coreinduction.Options{
		RevenueCap: cap,
		Actor:      r.Header.Get(actorHeader),
	})
	resp := runResponse{Run: run}
	var recErr *coreinduction.RunRecordError
	switch {
	case err == nil:
	case errors.As(err, &recErr):
		h.Log.Warnf("run recorded with persistence failure: %v", recErr)
		resp.RecordError = recErr.Error()
	default:
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type simulateRequest struct {
	Depot string                  `json:"depot,omitempty"`
	Rules model.SimulationRuleSet `json:"rules"`
}

func (h *Handler) runSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeBody(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcomes, err := h.Engine.RunSimulation(r.Context(), facts.Filter{Depot: req.Depot}, req.Rules)
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		httpError(w, http.StatusNotFound, "no audit store configured")
		return
	}
	q := audit.Query{
		Depot:      r.URL.Query().Get("depot"),
		RuleSetID:  r.URL.Query().Get("rule_set"),
		TrainsetID: r.URL.Query().Get("trainset"),
	}
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		q.Start = t
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = n
	}
	runs, err := h.Store.Query(r.Context(), q)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handler) fleetStatus(w http.ResponseWriter, r *http.Request) {
	if h.Status == nil {
		httpError(w, http.StatusNotFound, "no status store configured")
		return
	}
	f := fleetstatus.Filter{
		Depot:    r.URL.Query().Get("depot"),
		Decision: model.Decision(r.URL.Query().Get("decision")),
	}
	writeJSON(w, http.StatusOK, map[string]any{"trainsets": h.Status.List(f)})
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
