package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rohith4dev/Student-management/internal/models"
)

// StudentStore persists student documents in the "students" collection.
type StudentStore struct {
	col *mongo.Collection
}

func NewStudentStore(database *mongo.Database) *StudentStore {
	return &StudentStore{col: database.Collection("students")}
}

func (s *StudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

func (s *StudentStore) FindByRoll(ctx context.Context, rollNumber string) (*models.Student, error) {
	var student models.Student
	err := s.col.FindOne(ctx, bson.M{"roll_number": rollNumber}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find student by roll number: %w", err)
	}
	return &student, nil
}

func (s *StudentStore) Insert(ctx context.Context, student *models.Student) error {
	_, err := s.col.InsertOne(ctx, student)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (s *StudentStore) List(ctx context.Context, limit int64) ([]models.Student, error) {
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

// Update applies the given fields to one student document.
func (s *StudentStore) Update(ctx context.Context, id string, fields map[string]any) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *StudentStore) Delete(ctx context.Context, id string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
