package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"portfolio-backend/internal/database"
	"portfolio-backend/pkg/api"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

const (
	maxUploadBytes  = 5 << 20 // 5 MiB
	uploadFieldName = "profile_picture"
	uploadKeyPrefix = "profiles"
)

// The declared part Content-Type is what gets checked, matching the
// transport-level filter the frontend was built against.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func (s *BackendService) UpdateProfile(r *http.Request) (any, error) {
	if err := r.ParseMultipartForm(maxUploadBytes + 1<<20); err != nil {
		slog.Error("error parsing multipart form", "error", err)
		return nil, CodedErrorf(http.StatusBadRequest, "unable to parse multipart form")
	}

	var req api.UpdateProfileRequest
	if err := formDecoder.Decode(&req, r.MultipartForm.Value); err != nil {
		slog.Error("error decoding form fields", "error", err)
		return nil, CodedErrorf(http.StatusBadRequest, "unable to parse form fields")
	}

	if req.Name == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "name is required")
	}

	resp := api.UpdateProfileResponse{Name: req.Name}

	file, header, err := r.FormFile(uploadFieldName)
	switch {
	case err == nil:
		defer file.Close()

		pictureUrl, uploadErr := s.uploadProfilePicture(r.Context(), file, header)
		if uploadErr != nil {
			return nil, uploadErr
		}
		resp.ProfilePictureUrl = pictureUrl
	case errors.Is(err, http.ErrMissingFile):
		// No new picture, the stored URL stays as is.
	default:
		slog.Error("error reading uploaded file", "error", err)
		return nil, CodedErrorf(http.StatusBadRequest, "unable to read uploaded file")
	}

	// Two statement shapes on purpose: the picture URL column is only
	// touched when a new upload produced one.
	updates := map[string]any{"name": req.Name}
	if resp.ProfilePictureUrl != "" {
		updates["profile_picture_url"] = resp.ProfilePictureUrl
	}

	if err := s.db.WithContext(r.Context()).
		Model(&database.Profile{}).
		Where("id = ?", database.ProfileRowId).
		Updates(updates).Error; err != nil {
		slog.Error("error updating profile", "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return resp, nil
}

// uploadProfilePicture validates the file against the image allow-list
// and size cap, streams it to the object store, and returns its public
// URL. The profile row is untouched until the upload has succeeded.
func (s *BackendService) uploadProfilePicture(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadBytes {
		return "", CodedErrorf(http.StatusBadRequest, "file too large: maximum size is 5 MiB")
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", CodedErrorf(http.StatusBadRequest, "unsupported file type %q: only jpeg and png images are accepted", contentType)
	}

	filename := filepath.Base(header.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = uuid.NewString()
	}

	// Timestamp prefix keeps repeated uploads of the same filename from
	// colliding.
	key := fmt.Sprintf("%s/%d-%s", uploadKeyPrefix, time.Now().UnixMilli(), filename)

	if err := s.objects.PutObject(ctx, key, contentType, file); err != nil {
		slog.Error("error uploading profile picture", "key", key, "error", err)
		return "", CodedError(http.StatusInternalServerError, err)
	}

	return s.objects.PublicURL(key), nil
}
