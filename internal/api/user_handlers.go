package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/http/response"
	"github.com/librarianapp/librarian-server/internal/service"
	"github.com/librarianapp/librarian-server/internal/store"
)

// UserResponse is the wire shape of an account.
// The password hash never leaves the server.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// userFilterFromQuery builds a store filter from list/search query params.
func userFilterFromQuery(r *http.Request) store.UserFilter {
	q := r.URL.Query()
	filter := store.UserFilter{
		Username: q.Get("username"),
	}
	if v := q.Get("is_admin"); v != "" {
		admin := v == "true" || v == "1"
		filter.IsAdmin = &admin
	}
	return filter
}

// handleListUsers returns all accounts.
// GET /api/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context(), userFilterFromQuery(r))
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toUserResponses(users), s.logger)
}

// handleSearchUsers searches accounts with the same filter semantics.
// GET /api/users/search
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context(), userFilterFromQuery(r))
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toUserResponses(users), s.logger)
}

// handleCreateUser adds an account to the roster.
// POST /api/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.userService.CreateUser(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Created(w, toUserResponse(user), s.logger)
}
