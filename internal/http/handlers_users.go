package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tripboard/internal/core"
	"tripboard/internal/services"
)

type userListResponse struct {
	Users []core.User `json:"allUsers"`
	Total int         `json:"total"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListUsers(w, r)
	case http.MethodPost:
		s.handleProvisionUser(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 10)

	offset := 0
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	users, total, err := s.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "User list error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, r, http.StatusOK, userListResponse{
		Users: users,
		Total: total,
	})
}

type provisionUserRequest struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

func (s *Server) handleProvisionUser(w http.ResponseWriter, r *http.Request) {
	var req provisionUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Provision(r.Context(), services.ProvisionInput{
		AccountID:   sanitizeInput(req.AccountID),
		Name:        sanitizeInput(req.Name),
		Email:       sanitizeInput(req.Email),
		AccessToken: req.AccessToken,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "User provision error",
			"error", err, "account_id", req.AccountID)
		writeError(w, r, http.StatusInternalServerError, "failed to provision user")
		return
	}

	s.invalidateView()
	writeJSON(w, r, http.StatusOK, user)
}
