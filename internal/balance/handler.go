package balance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

type ServiceAPI interface {
	ForStaff(ctx context.Context, actor *internal.User, staffID int64) (*StaffSummary, error)
	Overview(ctx context.Context) (*OverviewResponse, error)
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

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.Overview(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) GetStaffBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := h.SessionUser(w, r)
	if !ok {
		return
	}
	staffID, ok := h.PathID(w, r, "staffID")
	if !ok {
		return
	}

	summary, err := h.Service.ForStaff(r.Context(), user, staffID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
