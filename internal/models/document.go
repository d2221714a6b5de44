package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a file attachment stored against a car or a rental. URL is
// the storage locator returned by the file store.
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	URL         string             `bson:"url" json:"url"`
	ContentType string             `bson:"content_type" json:"content_type"`
	UploadDate  time.Time          `bson:"upload_date" json:"upload_date"`
}
