package user

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	List(ctx context.Context, role string) ([]*User, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateUserDTO) (*User, error)
	Deactivate(ctx context.Context, userID int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me. It answers from the session copy
// placed in the context by the auth middleware.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	u, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetUser: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), userID, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateUser: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	u, err := h.Service.Deactivate(r.Context(), userID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "DeactivateUser: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
