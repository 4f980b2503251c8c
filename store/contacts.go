package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zawamu/models"
)

// ContactStore is write-once: submissions are never updated or deleted.
type ContactStore struct {
	coll *mongo.Collection
}

func NewContactStore(coll *mongo.Collection) *ContactStore {
	return &ContactStore{coll: coll}
}

func (s *ContactStore) Create(ctx context.Context, name, email, message string) (*models.Contact, error) {
	now := models.Now()
	c := models.Contact{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContactStore) Count(ctx context.Context, w models.Window) (int64, error) {
	return s.coll.CountDocuments(ctx, windowFilter(bson.M{}, w))
}

func (s *ContactStore) Latest(ctx context.Context, limit int64) ([]models.Contact, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"name": 1, "createdAt": 1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Contact
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
