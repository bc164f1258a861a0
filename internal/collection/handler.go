package collection

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateCollectionDTO) (*Collection, error)
	List(ctx context.Context, filter query.Filter) ([]*Collection, error)
	Get(ctx context.Context, id int64) (*Collection, error)
	Update(ctx context.Context, id int64, dto UpdateCollectionDTO) (*Collection, error)
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var dto CreateCollectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateCollection: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	filter, appErr := query.FromRequest(r, "staff_id")
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	rows, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListCollections: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CollectionsResponse{
		Collections: rows,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateCollectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "UpdateCollection: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
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
