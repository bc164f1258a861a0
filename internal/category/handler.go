package category

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories(ctx context.Context) ([]CategoryResponse, error)
	Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error)
	Deactivate(ctx context.Context, id int64) error
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories(r.Context())
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetCategories: failed to get categories", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateCategory: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c.ToResponse())
}

func (h *Handler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Deactivate(r.Context(), id); err != nil {
		h.Logger.ErrorContext(r.Context(), "DeactivateCategory: service error", "category_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
