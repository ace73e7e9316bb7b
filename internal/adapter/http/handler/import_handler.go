package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/draftledger/internal/adapter/document"
	"github.com/iho/draftledger/internal/adapter/http/dto"
	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/usecase"
)

// DefaultMaxUploadBytes bounds an uploaded document when no limit is configured.
const DefaultMaxUploadBytes = 20 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	Extract(ctx context.Context, input usecase.ExtractInput) (*domain.ImportSession, error)
	GetImport(ctx context.Context, id string) (*domain.ImportSession, error)
	ConfirmImport(ctx context.Context, id string, input usecase.ConfirmInput) (*domain.CommitSummary, error)
	CancelImport(ctx context.Context, id string) (*domain.ImportSession, error)
}

// DocumentLoader turns an upload into a document.
type DocumentLoader interface {
	Load(ctx context.Context, up document.Upload) (domain.Document, error)
}

// ImportHandler handles import-related HTTP requests.
type ImportHandler struct {
	importUC       ImportService
	loader         DocumentLoader
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService, loader DocumentLoader, maxUploadBytes int64) *ImportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	return &ImportHandler{
		importUC:       importUC,
		loader:         loader,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create accepts a multipart upload and extracts drafts from it.
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}

	doc, err := h.loader.Load(r.Context(), document.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load document", err.Error())
		return
	}

	session, err := h.importUC.Extract(r.Context(), usecase.ExtractInput{
		AccountID: r.FormValue("account_id"),
		Currency:  r.FormValue("currency"),
		Document:  doc,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to extract drafts", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportFromDomain(session))
}

// Get retrieves an import session by ID.
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing import ID", "")
		return
	}

	session, err := h.importUC.GetImport(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get import", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportFromDomain(session))
}

// Confirm commits the reviewed drafts of a pending import.
func (h *ImportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing import ID", "")
		return
	}

	var req dto.ConfirmImportRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid drafts", err.Error())
		return
	}

	summary, err := h.importUC.ConfirmImport(r.Context(), id, input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to confirm import", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CommitSummaryFromDomain(summary))
}

// Cancel discards a pending import without persisting anything.
func (h *ImportHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing import ID", "")
		return
	}

	session, err := h.importUC.CancelImport(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel import", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportFromDomain(session))
}
