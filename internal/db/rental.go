package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRentalCollection implements RentalCollection for MongoDB.
type MongoRentalCollection struct {
	Collection *mongo.Collection
}

// InsertRental inserts a rental record into the collection.
func (c *MongoRentalCollection) InsertRental(ctx context.Context, rental models.Rental) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	rental.CreatedAt = time.Now()
	rental.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, rental)
	return err
}

// FindRentalByID finds a rental by its ID.
func (c *MongoRentalCollection) FindRentalByID(ctx context.Context, id string) (*models.Rental, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var rental models.Rental
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rental)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &rental, nil
}

// FindRentals queries rental records from the collection.
func (c *MongoRentalCollection) FindRentals(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Rental, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rentals []models.Rental
	if err := cursor.All(ctx, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// FindActiveByCar returns all active rentals referencing the given car.
func (c *MongoRentalCollection) FindActiveByCar(ctx context.Context, carID string) ([]models.Rental, error) {
	return c.FindRentals(ctx, bson.M{"car_id": carID, "active": true})
}

// UpdateRental replaces a rental record by its ID, bumping the version
// counter unconditionally. Use UpdateRentalWithVersion for writes that must
// not clobber concurrent modifications.
func (c *MongoRentalCollection) UpdateRental(ctx context.Context, id string, rental models.Rental) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	rental.ID = objectID
	rental.Version++
	rental.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, rental)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRentalWithVersion replaces a rental record only if its stored
// version still matches rental.Version. Returns ErrVersionConflict when the
// record exists but was modified since it was read.
func (c *MongoRentalCollection) UpdateRentalWithVersion(ctx context.Context, rental models.Rental) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	readVersion := rental.Version
	rental.Version++
	rental.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx,
		bson.M{"_id": rental.ID, "version": readVersion}, rental)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := c.Collection.CountDocuments(ctx, bson.M{"_id": rental.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// DeleteRental deletes a rental by its ID.
func (c *MongoRentalCollection) DeleteRental(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRentalsWhere deletes all rentals matching the filter and returns
// the deleted count.
func (c *MongoRentalCollection) DeleteRentalsWhere(ctx context.Context, filter bson.M) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CountRentals counts rental records matching the filter.
func (c *MongoRentalCollection) CountRentals(ctx context.Context, filter bson.M) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, filter)
}
