package v1

import (
	"bytes"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// sniffed content type -> extensions a file of that type may carry
var uploadTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
}

type UploadHandler struct {
	catalog  *usecase.CatalogUsecase
	maxBytes int64
}

func NewUploadHandler(catalog *usecase.CatalogUsecase, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{catalog: catalog, maxBytes: maxUploadSizeMB << 20}
}

// UploadProductImage stores the multipart "file" field and returns its URL.
// The type is sniffed from the content; the client's Content-Type is ignored.
// POST /products/images
func (h *UploadHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("Upload: rejected form")
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "file too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "missing file field")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "empty or unreadable file")
		return
	}
	head = head[:n]

	if !extensionMatches(http.DetectContentType(head), header.Filename) {
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "invalid file type, allowed: JPEG, PNG, WebP, GIF")
		return
	}

	url, err := h.catalog.UploadImage(r.Context(), io.MultiReader(bytes.NewReader(head), file), header.Filename)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func extensionMatches(contentType, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range uploadTypes[contentType] {
		if ext == allowed {
			return true
		}
	}
	return false
}
