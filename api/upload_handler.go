package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rs/zerolog"
)

const (
	maxUploadFiles     = 10
	maxUploadFileBytes = 5 << 20
	// room for every file plus multipart framing and the folder field
	maxUploadBodyBytes  = maxUploadFiles*maxUploadFileBytes + 1<<20
	uploadMemoryBytes   = 8 << 20
	maxUploadNameLength = 64
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var uploadFolders = map[string]struct{}{
	"projects": {},
	"blogs":    {},
}

// objectStore is the bucket uploads are written to.
type objectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     objectStore
}

func newUploadHandler(store objectStore, cfg router) uploadHandler {
	logger := cfg.logger.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger, cfg.production),
		logger:    logger,
		store:     store,
	}
}

type preparedUpload struct {
	key         string
	data        []byte
	contentType string
}

type uploadResponse struct {
	Links []string `json:"links"`
}

// upload validates every file before the first write; files are then stored one at a time and
// a failure part way through leaves the earlier files in the bucket
func (h uploadHandler) upload() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
		if err := r.ParseMultipartForm(uploadMemoryBytes); err != nil {
			if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
				return errs.NewBadRequestError("request must be multipart/form-data")
			}
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
				return err
			}
			return errs.NewBadRequestError("malformed multipart body")
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		folder := strings.TrimSpace(r.FormValue("folder"))
		if _, ok := uploadFolders[folder]; !ok {
			return errs.NewInvalidFieldError("folder", "must be one of [projects blogs]")
		}

		files := r.MultipartForm.File["files"]
		switch {
		case len(files) == 0:
			return errs.NewInvalidFieldError("files", "is required")
		case len(files) > maxUploadFiles:
			return errs.NewInvalidFieldError("files", fmt.Sprintf("must contain at most %d files", maxUploadFiles))
		}

		prepared := make([]preparedUpload, 0, len(files))
		for i, fh := range files {
			p, err := prepareUpload(folder, fmt.Sprintf("files[%d]", i), fh)
			if err != nil {
				return err
			}
			prepared = append(prepared, p)
		}

		links := make([]string, 0, len(prepared))
		for _, p := range prepared {
			if err := h.store.Upload(r.Context(), p.key, p.data, p.contentType); err != nil {
				h.logger.Error().Err(err).Str("key", p.key).Int("stored", len(links)).Msg("upload aborted")
				return errs.NewInternalErrorWithCause("failed to upload files", err)
			}
			links = append(links, h.store.PublicURL(p.key))
		}

		h.logger.Info().Str("folder", folder).Int("files", len(links)).Msg("files uploaded")
		h.responder.WriteJSON(w, http.StatusCreated, uploadResponse{Links: links})
		return nil
	})
}

// prepareUpload checks size, declared type and sniffed content, then names the object.
func prepareUpload(folder, field string, fh *multipart.FileHeader) (preparedUpload, error) {
	if fh.Size > maxUploadFileBytes {
		return preparedUpload{}, errs.NewInvalidFieldError(field, "must be at most 5 MB")
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if _, ok := allowedImageTypes[declared]; !ok {
		return preparedUpload{}, errs.NewInvalidFieldError(field, "must be a JPEG, PNG, WebP or GIF image")
	}

	f, err := fh.Open()
	if err != nil {
		return preparedUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadFileBytes+1))
	if err != nil {
		return preparedUpload{}, err
	}
	if len(data) > maxUploadFileBytes {
		return preparedUpload{}, errs.NewInvalidFieldError(field, "must be at most 5 MB")
	}

	detected := mimetype.Detect(data)
	if _, ok := allowedImageTypes[detected.String()]; !ok {
		return preparedUpload{}, errs.NewInvalidFieldError(field, "content is not a JPEG, PNG, WebP or GIF image")
	}

	return preparedUpload{
		key:         folder + "/" + objectName(fh.Filename, detected.Extension()),
		data:        data,
		contentType: detected.String(),
	}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// objectName returns "<uuid>-<sanitized stem><ext>" so names never collide and stay URL safe.
func objectName(original, ext string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(stem), "-"), "-")
	if len(stem) > maxUploadNameLength {
		stem = strings.TrimRight(stem[:maxUploadNameLength], "-")
	}
	if stem == "" || stem == "." {
		stem = "file"
	}
	return uuid.NewString() + "-" + stem + ext
}
