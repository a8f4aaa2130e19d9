package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/metrics"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// maxImproveCycles caps a single improve request.
const maxImproveCycles = 100

type statusResponse struct {
	Service      string              `json:"service"`
	Components   int                 `json:"components"`
	Loaders      []string            `json:"loaders"`
	Metrics      metrics.Snapshot    `json:"metrics"`
	Gate         string              `json:"gate"`
	Improvement  improvementCounters `json:"improvement"`
	CacheHits    uint64              `json:"cache_hits"`
	CacheMisses  uint64              `json:"cache_misses"`
}

type improvementCounters struct {
	Cycles       int `json:"cycles"`
	Experiments  int `json:"experiments"`
	Improvements int `json:"improvements"`
}

type componentSummary struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type componentsResponse struct {
	Count      int                `json:"count"`
	Components []componentSummary `json:"components"`
}

type improveRequest struct {
	Cycles int `json:"cycles"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := metrics.TakeSnapshot(time.Now().UTC())

	var counters improvementCounters
	if s.loop != nil {
		counters.Cycles, counters.Experiments, counters.Improvements = s.loop.Counters()
	}
	hits, misses := s.reg.CacheStats()

	writeJSON(w, http.StatusOK, statusResponse{
		Service:     "ankh-aten",
		Components:  s.reg.Count(),
		Loaders:     s.reg.Kinds(),
		Metrics:     snap,
		Gate:        metrics.GateStatus(snap.RDoD),
		Improvement: counters,
		CacheHits:   hits,
		CacheMisses: misses,
	})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	uids := s.reg.List()
	comps := make([]componentSummary, 0, len(uids))
	for _, uid := range uids {
		c, ok := s.reg.Get(uid)
		if !ok {
			continue
		}
		comps = append(comps, componentSummary{ID: c.UID, Kind: c.Kind})
	}
	writeJSON(w, http.StatusOK, componentsResponse{Count: len(comps), Components: comps})
}

func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	logger := ctxlog.FromContext(r.Context())

	res, err := s.reg.Materialize(r.Context(), uid)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, registry.ErrComponentNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, registry.ErrLoaderNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		logger.Error("Materialization failed.", "uid", uid, "error", err)
		writeError(w, http.StatusBadGateway, err)
	}
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	if s.loop == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("self-improvement loop not configured"))
		return
	}

	req := improveRequest{Cycles: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}
	if req.Cycles <= 0 {
		req.Cycles = 1
	}
	if req.Cycles > maxImproveCycles {
		writeError(w, http.StatusBadRequest, fmt.Errorf("cycles must be at most %d", maxImproveCycles))
		return
	}

	summary, err := s.loop.Run(r.Context(), req.Cycles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
