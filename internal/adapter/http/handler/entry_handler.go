package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// receiptField is the multipart field carrying the receipt file.
const receiptField = "receipt"

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.Entry, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, userID, id string) error
	OpenReceipt(ctx context.Context, userID, id string) (io.ReadCloser, string, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC        EntryService
	maxReceiptSize int64
}

// NewEntryHandler creates a new EntryHandler. Uploads larger than
// maxReceiptSize are rejected with 413.
func NewEntryHandler(entryUC EntryService, maxReceiptSize int64) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, maxReceiptSize: maxReceiptSize}
}

// Create records an entry from a JSON body or a multipart form with an
// optional receipt file.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	var receipt *usecase.ReceiptUpload

	if isMultipart(r) {
		form, err := h.parseForm(w, r)
		if err != nil {
			writeFormError(w, err)
			return
		}
		defer form.RemoveAll()

		req.AccountID = formValue(form, "account_id")
		req.CategoryID = formValue(form, "category_id")
		req.Description = formValue(form, "description")
		req.Date = formValue(form, "date")
		if req.Amount, err = decimal.NewFromString(strings.TrimSpace(formValue(form, "amount"))); err != nil {
			respondError(w, r, "invalid amount", domain.ErrInvalidAmount)
			return
		}

		var closeFile func()
		receipt, closeFile, err = openReceipt(form)
		if err != nil {
			respondError(w, r, "invalid receipt", err)
			return
		}
		defer closeFile()
	} else if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		respondError(w, r, "invalid entry", err)
		return
	}
	input.Receipt = receipt

	entry, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to create entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries, newest first. Supported filters: start_date, end_date,
// category_id, kind, limit and offset.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := domain.EntryFilter{
		CategoryID: q.Get("category_id"),
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if raw := q.Get("kind"); raw != "" {
		kind, err := domain.ParseKind(raw)
		if err != nil {
			respondError(w, r, "invalid kind filter", err)
			return
		}
		filter.Kind = kind
	}

	for _, bound := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		raw := q.Get(bound.key)
		if raw == "" {
			continue
		}
		t, err := dto.ParseDate(raw)
		if err != nil {
			respondError(w, r, "invalid "+bound.key, err)
			return
		}
		*bound.dst = &t
	}

	entries, err := h.entryUC.ListEntries(r.Context(), userID, filter)
	if err != nil {
		respondError(w, r, "failed to list entries", err)
		return
	}

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   limit,
		Offset:  offset,
	})
}

// Update changes an entry. Accepts JSON or a multipart form; a receipt file
// in the form replaces the stored one.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	var receipt *usecase.ReceiptUpload

	if isMultipart(r) {
		form, err := h.parseForm(w, r)
		if err != nil {
			writeFormError(w, err)
			return
		}
		defer form.RemoveAll()

		req.AccountID = optionalFormValue(form, "account_id")
		req.CategoryID = optionalFormValue(form, "category_id")
		req.Description = optionalFormValue(form, "description")
		req.Date = optionalFormValue(form, "date")
		req.RemoveReceipt = formValue(form, "remove_receipt") == "true"
		if raw := optionalFormValue(form, "amount"); raw != nil {
			amount, err := decimal.NewFromString(strings.TrimSpace(*raw))
			if err != nil {
				respondError(w, r, "invalid amount", domain.ErrInvalidAmount)
				return
			}
			req.Amount = &amount
		}

		var closeFile func()
		receipt, closeFile, err = openReceipt(form)
		if err != nil {
			respondError(w, r, "invalid receipt", err)
			return
		}
		defer closeFile()
	} else if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "invalid entry", err)
		return
	}
	input.Receipt = receipt

	entry, err := h.entryUC.UpdateEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes an entry and its receipt.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.entryUC.DeleteEntry(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, "failed to delete entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Receipt streams the receipt attached to an entry.
func (h *EntryHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	rc, filename, err := h.entryUC.OpenReceipt(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to open receipt", err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("receipt download interrupted")
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm reads a multipart body bounded by the receipt size limit plus
// room for the text fields.
func (h *EntryHandler) parseForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	limit := h.maxReceiptSize + maxJSONBody
	if r.ContentLength > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(h.maxReceiptSize); err != nil {
		return nil, err
	}
	return r.MultipartForm, nil
}

func writeFormError(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		writeError(w, http.StatusRequestEntityTooLarge, "receipt too large", err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "invalid form", err.Error())
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// openReceipt opens the uploaded receipt, if any. The returned func closes it.
func openReceipt(form *multipart.Form) (*usecase.ReceiptUpload, func(), error) {
	files := form.File[receiptField]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, func() {}, nil
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, func() {}, err
	}

	return &usecase.ReceiptUpload{Filename: files[0].Filename, Content: f}, func() { f.Close() }, nil
}
