package handler

import "net/http"

// APIPrefix is the alternate mount point kept for existing clients
const APIPrefix = "/api/files"

// Handlers groups the HTTP handlers registered by RegisterRoutes
type Handlers struct {
	Health  *HealthHandler
	Folders *FolderHandler
	Images  *ImageHandler
	// Uploads serves stored bytes for the local object store; nil otherwise
	Uploads     http.Handler
	UploadsPath string
}

// RegisterRoutes mounts the API at the root and under APIPrefix
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	for _, prefix := range []string{"", APIPrefix} {
		mux.HandleFunc("POST "+prefix+"/folders", h.Folders.CreateFolder)
		mux.HandleFunc("GET "+prefix+"/folders", h.Folders.ListFolders)
		mux.HandleFunc("GET "+prefix+"/folders/{id}", h.Folders.GetFolder)
		mux.HandleFunc("PUT "+prefix+"/folders/{id}", h.Folders.RenameFolder)
		mux.HandleFunc("DELETE "+prefix+"/folders/{id}", h.Folders.DeleteFolder)

		mux.HandleFunc("POST "+prefix+"/images", h.Images.UploadImage)
		mux.HandleFunc("GET "+prefix+"/images", h.Images.ListImages)
		mux.HandleFunc("GET "+prefix+"/images/search", h.Images.SearchImages)
		mux.HandleFunc("DELETE "+prefix+"/images/{id}", h.Images.DeleteImage)
	}

	if h.Uploads != nil && h.UploadsPath != "" {
		mux.Handle("GET "+h.UploadsPath+"/", h.Uploads)
	}
}
