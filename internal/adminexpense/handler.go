package adminexpense

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateAdminExpenseDTO) (*AdminExpense, error)
	List(ctx context.Context, filter query.Filter) ([]*AdminExpense, error)
	Get(ctx context.Context, id int64) (*AdminExpense, error)
	Update(ctx context.Context, id int64, dto UpdateAdminExpenseDTO) (*AdminExpense, error)
	Delete(ctx context.Context, id int64) error
}

// Handler serves the admin expense ledger. Routes are mounted behind
// RequireAdmin, so no per-record access checks happen here.
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

func (h *Handler) CreateAdminExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateAdminExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateAdminExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListAdminExpenses(w http.ResponseWriter, r *http.Request) {
	// admin expenses have no owner column
	filter, appErr := query.FromRequest(r, "")
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	rows, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListAdminExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AdminExpensesResponse{
		AdminExpenses: rows,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	})
}

func (h *Handler) GetAdminExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateAdminExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateAdminExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateAdminExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteAdminExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
