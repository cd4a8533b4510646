package handler

import (
	"log/slog"
	"net/http"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
	"github.com/singulaarityy/Ferrum-Store/internal/service"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	service *service.FileService
	logger  *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(service *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{service: service, logger: logger}
}

// Upload registers file metadata and returns a presigned PUT URL. The client
// then uploads the bytes directly to the object store.
// POST /api/files/upload
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Upload(r.Context(), httputil.GetIdentity(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// Download returns a short-lived presigned GET URL for a file
// GET /api/files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	resp, err := h.service.Download(r.Context(), httputil.GetIdentity(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
