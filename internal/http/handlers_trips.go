package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tripboard/internal/core"
	"tripboard/internal/rows"
	"tripboard/internal/services"
)

const tripsPageSize = 8

type tripListResponse struct {
	Trips []core.Trip `json:"allTrips"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTrips(w, r)
	case http.MethodPost:
		s.handleCreateTrip(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)

	trips, total, err := s.trips.ListTrips(r.Context(), page, tripsPageSize)
	if err != nil {
		slog.ErrorContext(r.Context(), "Trip list error", "error", err, "page", page)
		writeError(w, r, http.StatusInternalServerError, "failed to list trips")
		return
	}

	writeJSON(w, r, http.StatusOK, tripListResponse{
		Trips: trips,
		Total: total,
		Page:  page,
	})
}

type createTripRequest struct {
	core.TripDetail
	ImageURLs []string `json:"imageUrls"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = sanitizeInput(req.Name)
	req.Country = sanitizeInput(req.Country)

	trip, err := s.trips.CreateTrip(r.Context(), services.CreateTripInput{
		Detail:    req.TripDetail,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Trip create error", "error", err, "name", req.Name)
		writeError(w, r, http.StatusInternalServerError, "failed to create trip")
		return
	}

	s.invalidateView()
	writeJSON(w, r, http.StatusCreated, trip)
}

func (s *Server) handleTripByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/trips/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}

	trip, err := s.trips.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, rows.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return
		}
		slog.ErrorContext(r.Context(), "Trip get error", "error", err, "trip_id", id)
		writeError(w, r, http.StatusInternalServerError, "failed to get trip")
		return
	}

	writeJSON(w, r, http.StatusOK, trip)
}
