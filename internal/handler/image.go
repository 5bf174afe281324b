package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"clipnest/internal/domain/services"
	"clipnest/internal/httputil"
)

// multipartOverhead allows room for form fields and part headers on top of
// the image bytes themselves.
const multipartOverhead = 1 << 20

// ImageHandler handles image HTTP requests
type ImageHandler struct {
	imageService   services.ImageService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService services.ImageService, maxUploadBytes int64, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadImage stores an uploaded image.
// POST /images (multipart: name, folderId, image)
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("failed to read uploaded file",
			"filename", header.Filename,
			"error", err,
		)
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	image, err := h.imageService.UploadImage(r.Context(), &services.UploadImageRequest{
		UserID:   httputil.GetUserID(r),
		Name:     r.FormValue("name"),
		FolderID: optionalParam(r.FormValue("folderId")),
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, image)
}

// ListImages lists the caller's images
// GET /images[?folderId=]
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	folderID := optionalParam(r.URL.Query().Get("folderId"))

	images, err := h.imageService.ListImages(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, images)
}

// SearchImages finds the caller's images by name
// GET /images/search?query=
func (h *ImageHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.SearchImages(r.Context(), httputil.GetUserID(r), r.URL.Query().Get("query"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, images)
}

// DeleteImage deletes one of the caller's images
// DELETE /images/{id}
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.imageService.DeleteImage(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Image deleted successfully")
}
