package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zawamu/models"
)

type PropertyStore struct {
	coll *mongo.Collection
}

func NewPropertyStore(coll *mongo.Collection) *PropertyStore {
	return &PropertyStore{coll: coll}
}

func (s *PropertyStore) List(ctx context.Context) ([]models.Property, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return properties, nil
}

func (s *PropertyStore) Get(ctx context.Context, id string) (*models.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PropertyStore) Create(ctx context.Context, p models.Property) (*models.Property, error) {
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies set and bumps updatedAt, returning the updated document.
func (s *PropertyStore) Update(ctx context.Context, id string, set bson.M) (*models.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = models.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Property
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PropertyStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of properties created inside w, optionally
// restricted to featured ones.
func (s *PropertyStore) Count(ctx context.Context, featuredOnly bool, w models.Window) (int64, error) {
	filter := bson.M{}
	if featuredOnly {
		filter["featured"] = true
	}
	return s.coll.CountDocuments(ctx, windowFilter(filter, w))
}

// Latest returns the most recently created properties.
func (s *PropertyStore) Latest(ctx context.Context, limit int64) ([]models.Property, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "createdAt": 1, "updatedAt": 1})
	return s.find(ctx, bson.M{}, opts)
}

// LatestUpdated returns the most recently updated properties, counting a
// property as updated when updatedAt is later than createdAt.
func (s *PropertyStore) LatestUpdated(ctx context.Context, limit int64) ([]models.Property, error) {
	filter := bson.M{"$expr": bson.M{"$gt": bson.A{"$updatedAt", "$createdAt"}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "createdAt": 1, "updatedAt": 1})
	return s.find(ctx, filter, opts)
}

func (s *PropertyStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Property, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Property
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
