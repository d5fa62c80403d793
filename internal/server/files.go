package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/engine"
	"github.com/devbyharshit/collab-khata/internal/repo"
)

// registerFiles wires the upload and download endpoints straight on chi;
// multipart bodies and file streaming stay outside the OpenAPI surface.
func registerFiles(router chi.Router, basePath string, cfg Config) {
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = cfg.Engine.Config.Uploads.Dir
	}

	router.Post(path.Join(basePath, "/collaborations/{collab_id}/files"), func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := userIDFromContext(r.Context())
		if authErr != nil {
			respondStatusError(w, authErr)
			return
		}
		collabID := chi.URLParam(r, "collab_id")
		maxBytes := cfg.Engine.Config.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			respondStatusError(w, newAPIError(http.StatusRequestEntityTooLarge, "file_too_large", "upload exceeds size cap", nil))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			respondStatusError(w, newAPIError(http.StatusBadRequest, "bad_request", "multipart field 'file' required", nil))
			return
		}
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !cfg.Engine.Config.ExtensionAllowed(ext) {
			respondStatusError(w, newAPIError(http.StatusBadRequest, "file_type_not_allowed", "file extension not allowed", map[string]any{"extension": ext}))
			return
		}
		// Ownership check before anything touches disk.
		if _, err := cfg.Engine.GetCollaboration(r.Context(), userID, collabID); err != nil {
			respondStatusError(w, handleError(err))
			return
		}
		dir := filepath.Join(uploadDir, collabID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			respondStatusError(w, handleError(err))
			return
		}
		storedPath := filepath.Join(dir, uuid.NewString()+ext)
		dst, err := os.Create(storedPath)
		if err != nil {
			respondStatusError(w, handleError(err))
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			os.Remove(storedPath)
			respondStatusError(w, handleError(err))
			return
		}
		dst.Close()
		att, err := cfg.Engine.SaveFileAttachment(r.Context(), engine.FileAttachmentOptions{
			UserID:           userID,
			CollaborationID:  collabID,
			FilePath:         storedPath,
			OriginalFilename: filepath.Base(header.Filename),
		})
		if err != nil {
			os.Remove(storedPath)
			respondStatusError(w, handleError(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(att)
	})

	router.Get(path.Join(basePath, "/collaborations/{collab_id}/files"), func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := userIDFromContext(r.Context())
		if authErr != nil {
			respondStatusError(w, authErr)
			return
		}
		files, err := cfg.Engine.ListFileAttachments(r.Context(), userID, chi.URLParam(r, "collab_id"))
		if err != nil {
			respondStatusError(w, handleError(err))
			return
		}
		if files == nil {
			files = []domain.FileAttachment{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(FileListResponse{Files: files})
	})

	router.Get(path.Join(basePath, "/files/{file_id}/download"), func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := userIDFromContext(r.Context())
		if authErr != nil {
			respondStatusError(w, authErr)
			return
		}
		att, err := cfg.Engine.GetFileAttachment(r.Context(), userID, chi.URLParam(r, "file_id"))
		if err != nil {
			respondStatusError(w, handleError(err))
			return
		}
		f, err := os.Open(att.FilePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				respondStatusError(w, newAPIError(http.StatusNotFound, "not_found", repo.ErrNotFound.Error(), nil))
				return
			}
			respondStatusError(w, handleError(err))
			return
		}
		defer f.Close()
		w.Header().Set("Content-Disposition", `attachment; filename="`+att.OriginalFilename+`"`)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, f)
	})
}
