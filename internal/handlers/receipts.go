package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"freelance-ledger/internal/ledger"
)

// GenerateUploadURL handles POST /receipts/upload-url.
func (h *Handlers) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	up, err := h.svc.GenerateUploadURL(r.Context(), GetIdentity(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

// SaveReceipt handles POST /receipts after the file has been uploaded.
func (h *Handlers) SaveReceipt(w http.ResponseWriter, r *http.Request) {
	var in ledger.ReceiptInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.StorageID == "" || in.FileName == "" {
		h.writeError(w, r, badRequest("storage_id and file_name are required"))
		return
	}
	id, err := h.svc.SaveReceipt(r.Context(), GetIdentity(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

type urlResponse struct {
	URL string `json:"url"`
}

// ReceiptURL handles GET /receipts/url?storage_id=.
func (h *Handlers) ReceiptURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ReceiptURL(r.Context(), GetIdentity(r), r.URL.Query().Get("storage_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

// MaxUploadBytes bounds a receipt upload.
const MaxUploadBytes = 10 << 20

// PutFile stores an uploaded receipt body. A storage id is written once.
func (h *Handlers) PutFile(w http.ResponseWriter, r *http.Request) {
	if !GetIdentity(r).Authenticated() {
		h.writeError(w, r, ledger.ErrUnauthenticated)
		return
	}
	if h.files == nil {
		h.writeError(w, r, ledger.ErrNoBlobStore)
		return
	}
	body := http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	n, err := h.files.Put(r.Context(), chi.URLParam(r, "storageID"), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Size int64 `json:"size"`
	}{n})
}

// GetFile serves a stored receipt body.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		h.writeError(w, r, ledger.ErrNoBlobStore)
		return
	}
	f, err := h.files.Open(r.Context(), chi.URLParam(r, "storageID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.ServeContent(w, r, "", info.ModTime(), f)
}
