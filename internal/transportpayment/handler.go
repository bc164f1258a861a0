package transportpayment

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.User, dto CreateTransportPaymentDTO) (*TransportPayment, error)
	List(ctx context.Context, actor *internal.User, filter query.Filter) ([]*TransportPayment, error)
	Get(ctx context.Context, actor *internal.User, id int64) (*TransportPayment, error)
	Update(ctx context.Context, actor *internal.User, id int64, dto UpdateTransportPaymentDTO) (*TransportPayment, error)
	Delete(ctx context.Context, actor *internal.User, id int64) error
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

func (h *Handler) CreateTransportPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	var dto CreateTransportPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateTransportPayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) ListTransportPayments(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}

	filter, appErr := query.FromRequest(r, "user_id")
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	rows, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListTransportPayments: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TransportPaymentsResponse{
		TransportPayments: rows,
		Limit:             filter.Limit,
		Offset:            filter.Offset,
	})
}

func (h *Handler) GetTransportPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateTransportPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateTransportPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateTransportPayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(r.Context(), user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteTransportPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
