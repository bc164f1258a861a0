package expense

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, actor *internal.User, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(ctx context.Context, actor *internal.User, filter query.Filter) ([]*Expense, error)
	GetExpense(ctx context.Context, actor *internal.User, id int64) (*Expense, error)
	UpdateExpense(ctx context.Context, actor *internal.User, id int64, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, actor *internal.User, id int64) error
	SettleExpense(ctx context.Context, id int64) (*Expense, error)
	SubmitToAdmin(ctx context.Context, actor *internal.User, id int64) (*Expense, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), user, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateExpense: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	filter, appErr := query.FromRequest(r, "user_id")
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	expenses, err := h.Service.ListExpenses(r.Context(), user, filter)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListExpenses: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExpensesResponse{
		Expenses: expenses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	expense, err := h.Service.GetExpense(r.Context(), user, expenseID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetExpense: service error", "error", err, "expense_id", expenseID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.Service.UpdateExpense(r.Context(), user, expenseID, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateExpense: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), user, expenseID); err != nil {
		h.Logger.ErrorContext(r.Context(), "DeleteExpense: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SettleExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	expense, err := h.Service.SettleExpense(r.Context(), expenseID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "SettleExpense: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	expense, err := h.Service.SubmitToAdmin(r.Context(), user, expenseID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "SubmitExpense: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}
