package attachment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/attachment"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	"github.com/frahmantamala/expense-ledger/internal/transport"
)

func TestAttachment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attachment Suite")
}

// smallest valid PNG header is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

var _ = Describe("Attachment Store", func() {
	var (
		fs     afero.Fs
		store  *attachment.Store
		ctx    context.Context
		logger *slog.Logger
	)

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = attachment.NewStore(fs, "/api/v1/attachments/", 1024, logger)
		ctx = context.Background()
	})

	expectUploadError := func(err error) {
		appErr, ok := internal.IsAppError(err)
		ExpectWithOffset(1, ok).To(BeTrue())
		ExpectWithOffset(1, validation.HasCode(appErr, internal.ErrCodeInvalidUpload)).To(BeTrue())
	}

	It("stores an image and serves it back", func() {
		a, err := store.Save(ctx, "Bill.PNG", "", bytes.NewReader(pngBytes))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.ContentType).To(Equal("image/png"))
		Expect(a.Key).To(HaveSuffix(".png"))
		Expect(a.URL).To(Equal("/api/v1/attachments/" + a.Key))

		f, contentType, err := store.Open(ctx, a.Key)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(contentType).To(Equal("image/png"))
		data, err := io.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(pngBytes))
	})

	It("accepts PDFs", func() {
		a, err := store.Save(ctx, "bill.pdf", "application/pdf", strings.NewReader("%PDF-1.4 test"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Key).To(HaveSuffix(".pdf"))
	})

	It("rejects other content types", func() {
		_, err := store.Save(ctx, "notes.txt", "text/plain", strings.NewReader("hello"))
		expectUploadError(err)
		_, err = store.Save(ctx, "x.svg", "image/svg+xml", strings.NewReader("<svg/>"))
		expectUploadError(err)
	})

	It("rejects empty and oversized files", func() {
		_, err := store.Save(ctx, "a.png", "image/png", bytes.NewReader(nil))
		expectUploadError(err)
		_, err = store.Save(ctx, "a.png", "image/png", bytes.NewReader(bytes.Repeat([]byte{1}, 1025)))
		expectUploadError(err)
	})

	It("does not open keys outside the store", func() {
		Expect(afero.WriteFile(fs, "secret.txt", []byte("x"), 0o644)).To(Succeed())
		_, _, err := store.Open(ctx, "../secret.txt")
		Expect(err).To(MatchError(internal.ErrAttachmentNotFound))
		_, _, err = store.Open(ctx, "secret.txt")
		Expect(err).To(MatchError(internal.ErrAttachmentNotFound))
		_, _, err = store.Open(ctx, "3f1f0c52-7f8e-4a4a-9a61-1b2d3c4e5f60.png")
		Expect(err).To(MatchError(internal.ErrAttachmentNotFound))
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			h := attachment.NewHandler(transport.NewBaseHandler(logger), store)
			router = chi.NewRouter()
			router.Post("/attachments", h.Upload)
			router.Get("/attachments/{key}", h.Download)
		})

		It("uploads through multipart and downloads the file", func() {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			part, err := mw.CreateFormFile("file", "receipt.png")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write(pngBytes)
			Expect(err).NotTo(HaveOccurred())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/attachments", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var uploaded attachment.Attachment
			Expect(json.Unmarshal(rec.Body.Bytes(), &uploaded)).To(Succeed())
			Expect(uploaded.URL).To(Equal("/api/v1/attachments/" + uploaded.Key))

			exists, err := afero.Exists(fs, uploaded.Key)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			req = httptest.NewRequest(http.MethodGet, "/attachments/"+uploaded.Key, nil)
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/png"))
			Expect(rec.Body.Bytes()).To(Equal(pngBytes))
		})

		It("rejects a request without a file field", func() {
			req := httptest.NewRequest(http.MethodPost, "/attachments", strings.NewReader("nothing"))
			req.Header.Set("Content-Type", "text/plain")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown key", func() {
			req := httptest.NewRequest(http.MethodGet, "/attachments/nope", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
