package handler

import (
	"log/slog"
	"net/http"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
	"github.com/singulaarityy/Ferrum-Store/internal/service"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folders  *service.FolderService
	listings *service.ListingService
	logger   *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders *service.FolderService, listings *service.ListingService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folders:  folders,
		listings: listings,
		logger:   logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), httputil.GetIdentity(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder with its immediate children. The id "root"
// addresses the caller's virtual root folder.
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	listing, err := h.listings.ListFolder(r.Context(), httputil.GetIdentity(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// ShareFolder grants another user access to a folder
// POST /api/folders/{id}/share
func (h *FolderHandler) ShareFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	var req models.ShareFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	perm, err := h.folders.ShareFolder(r.Context(), httputil.GetIdentity(r), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, perm)
}
