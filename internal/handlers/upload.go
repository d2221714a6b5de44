package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/ukydev/car-rental-admin/internal/models"
	"github.com/ukydev/car-rental-admin/internal/storage"
)

const (
	// maxUploadSize caps each uploaded document at 5MB.
	maxUploadSize = 5 << 20
	// maxUploadCount caps the number of documents per request.
	maxUploadCount = 10
	// uploadField is the multipart field name carrying documents.
	uploadField = "documents"
)

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// allowedUpload permits images and PDFs only.
func allowedUpload(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

// saveUploads stores every document file attached to a multipart request
// and returns their records. A non-multipart request yields no documents.
func saveUploads(r *http.Request, store storage.Store) ([]models.Document, error) {
	if !isMultipart(r) {
		return nil, nil
	}
	if err := r.ParseMultipartForm(maxUploadCount * maxUploadSize); err != nil {
		return nil, models.NewValidationError("invalid multipart form")
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) > maxUploadCount {
		return nil, models.NewValidationError("too many documents; at most 10 per request")
	}

	var docs []models.Document
	for _, header := range headers {
		if header.Size > maxUploadSize {
			return nil, models.NewValidationError("document exceeds the 5MB size limit: " + header.Filename)
		}
		contentType := header.Header.Get("Content-Type")
		if !allowedUpload(contentType) {
			return nil, models.NewValidationError("only image and PDF files are allowed")
		}

		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		doc, err := store.Save(header.Filename, contentType, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
