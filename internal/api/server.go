// Package api exposes budget analysis and area demographics over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/area"
	"github.com/sells-group/budget-cli/internal/model"
)

// Evaluator scores a budget. *budget.Engine satisfies it.
type Evaluator interface {
	Evaluate(in model.BudgetInput) model.BudgetAnalysisResult
}

// Resolver resolves and invalidates area demographics.
// *demographics.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, zip string) model.AreaDemographics
	Invalidate(zip string)
	InvalidateAll()
}

// Areas classifies locations. *area.Classifier satisfies it.
type Areas interface {
	Classify(zip, city string) area.Classification
	Metros() []area.Metro
}

// ObservationStore is the persistent observation cache behind the
// resolver. store.ACSCache satisfies it.
type ObservationStore interface {
	DeleteObservation(ctx context.Context, zip string) error
	DeleteAllObservations(ctx context.Context) (int, error)
}

// Options tunes the HTTP surface.
type Options struct {
	CORSOrigins []string
	// ResolveTimeout bounds a single demographics resolution. Zero means
	// no extra deadline beyond the request's own.
	ResolveTimeout time.Duration
	// Store, when set, is purged alongside the in-process cache by the
	// invalidate routes so the next resolve reaches the network.
	Store ObservationStore
}

// Server holds the handlers' dependencies.
type Server struct {
	engine   Evaluator
	resolver Resolver
	areas    Areas
	opts     Options
	log      *zap.Logger
}

// NewServer creates a Server.
func NewServer(engine Evaluator, resolver Resolver, areas Areas, opts Options) *Server {
	return &Server{
		engine:   engine,
		resolver: resolver,
		areas:    areas,
		opts:     opts,
		log:      zap.L().With(zap.String("component", "api")),
	}
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analysis", s.handleAnalysis)
		r.Get("/metros", s.handleMetros)
		r.Get("/areas/{zip}", s.handleArea)

		r.Route("/demographics", func(r chi.Router) {
			r.Delete("/", s.handleInvalidateAll)
			r.Get("/{zip}", s.handleDemographics)
			r.Get("/{zip}/comparison", s.handleComparison)
			r.Delete("/{zip}", s.handleInvalidate)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
