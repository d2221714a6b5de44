package storage

import (
	"io"

	"github.com/ukydev/car-rental-admin/internal/models"
)

// Store persists named binary blobs and hands back retrievable locators.
type Store interface {
	Save(name, contentType string, r io.Reader) (models.Document, error)
	Delete(locator string) error
}
