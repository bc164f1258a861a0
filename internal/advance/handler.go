package advance

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateAdvanceDTO) (*Advance, error)
	List(ctx context.Context, actor *internal.User, filter query.Filter) ([]*Advance, error)
	Get(ctx context.Context, actor *internal.User, id int64) (*Advance, error)
	Update(ctx context.Context, id int64, dto UpdateAdvanceDTO) (*Advance, error)
	Delete(ctx context.Context, id int64) error
	Settle(ctx context.Context, id int64) (*Advance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var dto CreateAdvanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateAdvance: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateAdvance: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	filter, appErr := query.FromRequest(r, "staff_id")
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	advances, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListAdvances: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AdvancesResponse{
		Advances: advances,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func (h *Handler) GetAdvance(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetAdvance: service error", "error", err, "advance_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) UpdateAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateAdvanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateAdvance: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateAdvance: service error", "error", err, "advance_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.ErrorContext(r.Context(), "DeleteAdvance: service error", "error", err, "advance_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SettleAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.Settle(r.Context(), id)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "SettleAdvance: service error", "error", err, "advance_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}
