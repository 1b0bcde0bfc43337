package v1

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"
	"storefront-backend/pkg/utils"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

var uploadFolders = map[string]bool{
	storage.FolderProducts: true,
	storage.FolderReceipts: true,
	storage.FolderUploads:  true,
}

// imageUploader validates a multipart image, re-encodes it and stores it.
type imageUploader struct {
	store         domain.FileStore
	maxUploadSize int64
}

func newImageUploader(store domain.FileStore, maxUploadSizeMB int64) *imageUploader {
	return &imageUploader{store: store, maxUploadSize: maxUploadSizeMB << 20}
}

// parse reads the form once so callers can look at the other fields afterwards.
func (u *imageUploader) parse(r *http.Request) error {
	if err := r.ParseMultipartForm(u.maxUploadSize); err != nil {
		return domain.ValidationError("upload image", "file too large or invalid form")
	}
	return nil
}

// upload uploads the image in field to folder. The form must already be parsed.
func (u *imageUploader) upload(r *http.Request, field, folder string) (string, error) {
	const op = "upload image"

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", domain.ValidationError(op, "missing %q file", field)
	}
	defer file.Close()

	if !utils.IsImage(header.Header.Get("Content-Type")) {
		return "", domain.ValidationError(op, "file type %q is not an image", header.Header.Get("Content-Type"))
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); !allowedExtensions[ext] {
		return "", domain.ValidationError(op, "file extension %q is not allowed", ext)
	}

	data, contentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		return "", domain.ValidationError(op, "image could not be decoded")
	}

	url, err := u.store.UploadBuffer(r.Context(), data, contentType, folder)
	if err != nil {
		return "", domain.UpstreamError(op, err)
	}
	logger.WithContext(r.Context()).Info().
		Str("folder", folder).
		Int("bytes", len(data)).
		Str("url", url).
		Msg("Image uploaded")
	return url, nil
}

// discard removes an upload whose owning operation failed.
func (u *imageUploader) discard(r *http.Request, url string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
	defer cancel()
	if err := u.store.DeleteFile(ctx, url); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Str("url", url).Msg("Failed to remove orphaned upload")
	}
}

type UploadHandler struct {
	responder
	uploader *imageUploader
}

func NewUploadHandler(store domain.FileStore, maxUploadSizeMB int64, bundle *i18n.Bundle) *UploadHandler {
	return &UploadHandler{
		responder: responder{bundle: bundle},
		uploader:  newImageUploader(store, maxUploadSizeMB),
	}
}

// POST /api/v1/upload (multipart: file, folder)
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := h.uploader.parse(r); err != nil {
		h.fail(w, r, err)
		return
	}
	folder := r.FormValue("folder")
	if folder == "" {
		folder = storage.FolderUploads
	}
	if !uploadFolders[folder] {
		h.badRequest(w, r, "unknown folder "+folder)
		return
	}
	if folder == storage.FolderProducts {
		if user, ok := middleware.UserFromContext(r.Context()); !ok || !user.IsAdmin() {
			h.fail(w, r, domain.ForbiddenError("upload file", "only admins upload product images"))
			return
		}
	}

	url, err := h.uploader.upload(r, "file", folder)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  h.text(r, i18n.MsgFileUploaded),
		"filePath": url,
	})
}
