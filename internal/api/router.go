// Package api serves the portfolio analyses as JSON over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/completeness"
	"github.com/sells-group/portfolio-cli/internal/geo"
	"github.com/sells-group/portfolio-cli/internal/resolve"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

// Service is the subset of portfolio.Service the handlers call.
type Service interface {
	ComputeCompletenessReport(ctx context.Context) (*completeness.Report, error)
	PerformGapAnalysis(ctx context.Context, targetID int64, competitorIDs []int64, includeBrands bool) (*tenantmix.Analysis, error)
	ResolveLocation(ctx context.Context, text string, opts resolve.Options) (resolve.Result, error)
	SearchLocationsByName(ctx context.Context, text string, limit int, city string) ([]resolve.Match, error)
	ResolveMultipleLocationNames(ctx context.Context, texts []string, opts resolve.Options) (*resolve.BatchResult, error)
	SuggestCompetitors(ctx context.Context, targetID int64, radiusKM float64, limit int) ([]geo.Neighbour, error)
}

// Defaults applied when a request omits competitor selection parameters.
type Defaults struct {
	RadiusKM    float64
	Competitors int
	SearchLimit int
}

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// NewRouter wires the routes, CORS, request ids and access logging.
func NewRouter(svc Service, allowedOrigins []string, d Defaults) http.Handler {
	h := &handlers{svc: svc, defaults: d}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/completeness", h.completeness)
		r.Get("/locations/search", h.searchLocations)
		r.Get("/locations/resolve", h.resolveLocation)
		r.Post("/locations/resolve-batch", h.resolveBatch)
		r.Post("/gap-analysis", h.gapAnalysis)
		r.Get("/properties/{id}/competitors", h.competitors)
	})
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
