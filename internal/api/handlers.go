package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/model"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var in model.BudgetInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	in.City = strings.TrimSpace(in.City)

	writeJSON(w, http.StatusOK, s.engine.Evaluate(in))
}

func (s *Server) handleMetros(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.areas.Metros())
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	zip, ok := zipParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.areas.Classify(zip, r.URL.Query().Get("city")))
}

func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	zip, ok := zipParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.resolve(r.Context(), zip))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	zip, ok := zipParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	income, err := budget.ParseAmount(q.Get("income"))
	if err != nil || income <= 0 {
		writeError(w, http.StatusBadRequest, "income must be a positive amount")
		return
	}
	housing, err := budget.ParseAmount(q.Get("housing"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "housing: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, budget.Compare(income, housing, s.resolve(r.Context(), zip)))
}

// handleInvalidate drops zip from the in-process cache and, when a store
// is configured, from the persistent store.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	zip, ok := zipParam(w, r)
	if !ok {
		return
	}
	if s.opts.Store != nil {
		if err := s.opts.Store.DeleteObservation(r.Context(), zip); err != nil {
			s.log.Error("purge stored observation", zap.String("zip", zip), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not purge stored observation")
			return
		}
	}
	s.resolver.Invalidate(zip)
	s.log.Info("demographics invalidated", zap.String("zip", zip))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidateAll(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store != nil {
		n, err := s.opts.Store.DeleteAllObservations(r.Context())
		if err != nil {
			s.log.Error("purge stored observations", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not purge stored observations")
			return
		}
		s.log.Info("stored observations purged", zap.Int("count", n))
	}
	s.resolver.InvalidateAll()
	s.log.Info("demographics cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resolve(ctx context.Context, zip string) model.AreaDemographics {
	if s.opts.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ResolveTimeout)
		defer cancel()
	}
	return s.resolver.Resolve(ctx, zip)
}

// zipParam reads and checks the {zip} path parameter, writing a 400 when
// it is not five digits.
func zipParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	zip := strings.TrimSpace(chi.URLParam(r, "zip"))
	if !validZip(zip) {
		writeError(w, http.StatusBadRequest, "zip must be 5 digits")
		return "", false
	}
	return zip, true
}

func validZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for _, c := range zip {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
