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

// MongoReminderCollection implements ReminderCollection for MongoDB.
type MongoReminderCollection struct {
	Collection *mongo.Collection
}

// InsertReminder inserts a reminder record into the collection.
func (c *MongoReminderCollection) InsertReminder(ctx context.Context, reminder models.Reminder) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, reminder)
	return err
}

// FindReminderByID finds a reminder by its ID.
func (c *MongoReminderCollection) FindReminderByID(ctx context.Context, id string) (*models.Reminder, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var reminder models.Reminder
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reminder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &reminder, nil
}

// FindReminders queries reminder records from the collection.
func (c *MongoReminderCollection) FindReminders(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Reminder, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// UpdateReminder replaces a reminder record by its ID.
func (c *MongoReminderCollection) UpdateReminder(ctx context.Context, id string, reminder models.Reminder) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	reminder.ID = objectID
	reminder.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, reminder)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder deletes a reminder by its ID.
func (c *MongoReminderCollection) DeleteReminder(ctx context.Context, id string) error {
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

// DeleteRemindersWhere deletes all reminders matching the filter and
// returns the deleted count.
func (c *MongoReminderCollection) DeleteRemindersWhere(ctx context.Context, filter bson.M) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CountReminders counts reminder records matching the filter.
func (c *MongoReminderCollection) CountReminders(ctx context.Context, filter bson.M) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, filter)
}
