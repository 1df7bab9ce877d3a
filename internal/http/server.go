package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tripboard/internal/cache"
	"tripboard/internal/dash"
	"tripboard/internal/services"
)

// Server is the admin console JSON API.
type Server struct {
	http.Server
	trips       *services.TripService
	users       *services.UserService
	loader      *dash.Loader
	rateLimiter *rateLimiter

	// Cached dashboard view model; every dashboard endpoint reads from it
	// so one refresh serves the whole page.
	viewCache    *cache.LRUCache[dash.View]
	cacheManager *cache.Manager

	ready        func(ctx context.Context) error
	shutdownOnce sync.Once
}

// Options carries the collaborators the server routes to.
type Options struct {
	Addr     string
	Trips    *services.TripService
	Users    *services.UserService
	Loader   *dash.Loader
	CacheTTL time.Duration

	// Ready reports whether the row store answers; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		trips:        opts.Trips,
		users:        opts.Users,
		loader:       opts.Loader,
		rateLimiter:  newRateLimiter(),
		viewCache:    cache.NewLRUCache[dash.View](4, ttl),
		cacheManager: cache.NewManager(),
		ready:        opts.Ready,
	}

	s.cacheManager.Register(s.viewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("/api/dashboard/stats", s.withMiddleware(s.handleDashboardStats))
	mux.HandleFunc("/api/growth/users", s.withMiddleware(s.handleUserGrowth))
	mux.HandleFunc("/api/growth/trips", s.withMiddleware(s.handleTripGrowth))
	mux.HandleFunc("/api/tallies/travel-styles", s.withMiddleware(s.handleTravelStyles))

	mux.HandleFunc("/api/trips", s.withMiddleware(s.handleTrips))
	mux.HandleFunc("/api/trips/", s.withMiddleware(s.handleTripByID))
	mux.HandleFunc("/api/users", s.withMiddleware(s.handleUsers))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			http.Error(w, "row store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
