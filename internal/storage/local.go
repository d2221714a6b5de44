package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalStore keeps uploaded documents on the local filesystem under a
// single directory, served back under /uploads/.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the blob under a unique name and returns the document
// record pointing at it. The original name is kept for display only.
func (s *LocalStore) Save(name, contentType string, r io.Reader) (models.Document, error) {
	filename := "doc-" + uuid.NewString() + filepath.Ext(name)

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return models.Document{}, fmt.Errorf("failed to write file: %w", err)
	}

	return models.Document{
		ID:          primitive.NewObjectID(),
		Name:        name,
		URL:         "/uploads/" + filename,
		ContentType: contentType,
		UploadDate:  time.Now(),
	}, nil
}

// Delete removes a stored blob by its locator. A missing file is not an
// error; the record is what matters.
func (s *LocalStore) Delete(locator string) error {
	// Only the final path element is trusted; locators are URLs.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(locator)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
