package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/glirentals/rentals-admin/spec"
)

type healthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the process is serving.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// GetReady handles GET /readyz. It reports 503 until the database answers.
func (s *Server) GetReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.DB.Ping(ctx); err != nil {
			s.log.WarnContext(ctx, "readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}

// GetOpenAPI serves the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

type settingsResponse struct {
	Categories []string        `json:"categories"`
	Pricing    pricingDefaults `json:"pricing"`
}

type pricingDefaults struct {
	PricePerMile   float64 `json:"price_per_mile"`
	FreeMiles      float64 `json:"free_miles"`
	IcePricePerBag float64 `json:"ice_price_per_bag"`
}

// GetSettings handles GET /settings: the category list and pricing defaults
// the booking form pre-fills.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	cats := s.svc.Settings.Categories
	if cats == nil {
		cats = []string{}
	}
	p := s.svc.Settings.Pricing
	writeJSON(w, http.StatusOK, settingsResponse{
		Categories: cats,
		Pricing: pricingDefaults{
			PricePerMile:   p.PricePerMile,
			FreeMiles:      p.FreeMiles,
			IcePricePerBag: p.IcePricePerBag,
		},
	})
}
