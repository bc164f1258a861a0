package attachment

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/transport"
	"github.com/go-chi/chi"
	"github.com/spf13/afero"
)

// multipartOverhead leaves room for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

type StoreAPI interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (*Attachment, error)
	Open(ctx context.Context, key string) (afero.File, string, error)
	MaxBytes() int64
}

type Handler struct {
	*transport.BaseHandler
	Store StoreAPI
}

func NewHandler(baseHandler *transport.BaseHandler, store StoreAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Store:       store,
	}
}

// Upload accepts a multipart form with a single "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Store.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(w, internal.NewValidationFieldError("file", "file is too large", internal.ErrCodeInvalidUpload))
			return
		}
		h.HandleServiceError(w, internal.NewValidationFieldError("file", "multipart field \"file\" is required", internal.ErrCodeInvalidUpload))
		return
	}
	defer file.Close()

	a, err := h.Store.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	f, contentType, err := h.Store.Open(r.Context(), key)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if info, err := f.Stat(); err == nil {
		http.ServeContent(w, r, key, info.ModTime(), f)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.Logger.ErrorContext(r.Context(), "Download: copy failed", "key", key, "error", err)
	}
}
