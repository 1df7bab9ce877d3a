package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tripboard/internal/dash"
)

const viewCacheKey = "dashboard"

// getView returns the dashboard view model, refreshing the cache on miss.
func (s *Server) getView(ctx context.Context) dash.View {
	if view, found := s.viewCache.Get(viewCacheKey); found {
		slog.DebugContext(ctx, "Dashboard view cache hit")
		return view
	}

	// Cap the refresh so a slow row store doesn't hang the page.
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	view := s.loader.Load(cctx)
	s.viewCache.Set(viewCacheKey, view)
	slog.DebugContext(ctx, "Dashboard view cached",
		"total_users", view.Stats.TotalUsers,
		"total_trips", view.Stats.TotalTrips)
	return view
}

// invalidateView drops the cached dashboard after a write.
func (s *Server) invalidateView() {
	s.viewCache.Delete(viewCacheKey)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, s.getView(r.Context()))
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, s.getView(r.Context()).Stats)
}

func (s *Server) handleUserGrowth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	view := s.getView(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"userGrowth": view.UserGrowth})
}

func (s *Server) handleTripGrowth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	view := s.getView(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"tripGrowth": view.TripGrowth})
}

func (s *Server) handleTravelStyles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	view := s.getView(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"tripsByTravelStyle": view.TravelStyles})
}
