package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rohith4dev/Student-management/internal/models"
)

// ActivityStore persists audit records in the "activity_logs" collection.
// Records are only ever inserted and read.
type ActivityStore struct {
	col *mongo.Collection
}

func NewActivityStore(database *mongo.Database) *ActivityStore {
	return &ActivityStore{col: database.Collection("activity_logs")}
}

func (s *ActivityStore) Insert(ctx context.Context, entry *models.ActivityLog) error {
	_, err := s.col.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *ActivityStore) List(ctx context.Context, limit int64) ([]models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.ActivityLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode activity logs: %w", err)
	}
	return logs, nil
}
