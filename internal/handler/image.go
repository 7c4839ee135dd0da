package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
)

const (
	uploadField       = "file"
	maxMultipartBytes = 6 << 20 // image limit plus room for the text fields
)

// UploadHandler serves stored images.
type UploadHandler struct {
	images *service.ImageService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(images *service.ImageService) *UploadHandler {
	return &UploadHandler{images: images}
}

// HandleGet streams an uploaded image.
// GET /uploads/{kind}/{name}
func (h *UploadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("kind") + "/" + r.PathValue("name")

	data, contentType, err := h.images.Get(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, "get upload", err, errorReply{notFound: "File not found"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

// multipartForm is a parsed multipart body with its optional upload.
type multipartForm struct {
	r      *http.Request
	upload *domain.Upload
}

func (f *multipartForm) value(key string) string {
	return f.r.FormValue(key)
}

// readMultipart parses a multipart body, reading the optional "file" part.
func readMultipart(w http.ResponseWriter, r *http.Request) (*multipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		return nil, err
	}

	form := &multipartForm{r: r}
	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	form.upload = &domain.Upload{Filename: header.Filename, Data: data}
	return form, nil
}
