package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/portfolio"
	"github.com/sells-group/portfolio-cli/internal/resolve"
)

type handlers struct {
	svc      Service
	defaults Defaults
}

type errorBody struct {
	Error      string          `json:"error"`
	RequestID  string          `json:"request_id,omitempty"`
	Candidates []resolve.Match `json:"candidates,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, RequestID: RequestID(r.Context())})
}

// failure maps service errors onto status codes. Unknown errors are logged
// and reported as 500 without detail.
func (h *handlers) failure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, portfolio.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	zap.L().Error("api: request failed",
		zap.String("request_id", RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) completeness(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ComputeCompletenessReport(r.Context())
	if err != nil {
		h.failure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handlers) searchLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := intParam(w, r, "limit", h.defaults.SearchLimit)
	if !ok {
		return
	}
	matches, err := h.svc.SearchLocationsByName(r.Context(), q.Get("q"), limit, q.Get("city"))
	if err != nil {
		h.failure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q.Get("q"), "results": matches})
}

func (h *handlers) resolveLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	suggestions, ok := intParam(w, r, "suggestions", 0)
	if !ok {
		return
	}
	res, err := h.svc.ResolveLocation(r.Context(), q.Get("q"), resolve.Options{
		City:           q.Get("city"),
		MaxSuggestions: suggestions,
	})
	if err != nil {
		h.failure(w, r, err)
		return
	}

	switch res.Status {
	case resolve.StatusMatched:
		writeJSON(w, http.StatusOK, res)
	case resolve.StatusAmbiguous:
		writeJSON(w, http.StatusConflict, errorBody{
			Error:      res.Err().Error(),
			RequestID:  RequestID(r.Context()),
			Candidates: res.Suggestions,
		})
	case resolve.StatusEmptyInput:
		writeError(w, r, http.StatusBadRequest, "q is required")
	default:
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:      res.Err().Error(),
			RequestID:  RequestID(r.Context()),
			Candidates: res.Suggestions,
		})
	}
}

type batchRequest struct {
	Names []string `json:"names"`
	City  string   `json:"city"`
}

type batchFailure struct {
	Query string `json:"query"`
	Error string `json:"error"`
}

func (h *handlers) resolveBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Names) == 0 {
		writeError(w, r, http.StatusBadRequest, "names is required")
		return
	}

	out, err := h.svc.ResolveMultipleLocationNames(r.Context(), req.Names, resolve.Options{City: req.City})
	if err != nil && !errors.Is(err, resolve.ErrAllFailed) {
		h.failure(w, r, err)
		return
	}

	failures := make([]batchFailure, len(out.Failures))
	for i, f := range out.Failures {
		failures[i] = batchFailure{Query: f.Query, Error: f.Message()}
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{"matches": out.Matches, "failures": failures})
}

type gapRequest struct {
	TargetID      int64   `json:"target_id"`
	CompetitorIDs []int64 `json:"competitor_ids"`
	IncludeBrands bool    `json:"include_brands"`
	RadiusKM      float64 `json:"radius_km"`
	Competitors   int     `json:"competitors"`
}

func (h *handlers) gapAnalysis(w http.ResponseWriter, r *http.Request) {
	var req gapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetID <= 0 {
		writeError(w, r, http.StatusBadRequest, "target_id is required")
		return
	}

	ids := req.CompetitorIDs
	if len(ids) == 0 {
		radius, limit := req.RadiusKM, req.Competitors
		if radius <= 0 {
			radius = h.defaults.RadiusKM
		}
		if limit <= 0 {
			limit = h.defaults.Competitors
		}
		neighbours, err := h.svc.SuggestCompetitors(r.Context(), req.TargetID, radius, limit)
		if err != nil {
			h.failure(w, r, err)
			return
		}
		if len(neighbours) == 0 {
			writeError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("no competitors within %.0f km of property %d; pass competitor_ids", radius, req.TargetID))
			return
		}
		for _, n := range neighbours {
			ids = append(ids, n.Property.ID)
		}
	}

	analysis, err := h.svc.PerformGapAnalysis(r.Context(), req.TargetID, ids, req.IncludeBrands)
	if err != nil {
		h.failure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *handlers) competitors(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid property id")
		return
	}
	limit, ok := intParam(w, r, "limit", h.defaults.Competitors)
	if !ok {
		return
	}
	radius := h.defaults.RadiusKM
	if v := strings.TrimSpace(r.URL.Query().Get("radius")); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "radius must be a number")
			return
		}
	}

	neighbours, err := h.svc.SuggestCompetitors(r.Context(), id, radius, limit)
	if err != nil {
		h.failure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"property_id": id, "competitors": neighbours})
}

// intParam reads an optional integer query parameter, writing a 400 when it
// does not parse.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, r, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
