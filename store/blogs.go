package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zawamu/models"
)

type BlogStore struct {
	coll *mongo.Collection
}

func NewBlogStore(coll *mongo.Collection) *BlogStore {
	return &BlogStore{coll: coll}
}

func (s *BlogStore) List(ctx context.Context) ([]models.Blog, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (s *BlogStore) Get(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var b models.Blog
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *BlogStore) Create(ctx context.Context, b models.Blog) (*models.Blog, error) {
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BlogStore) Update(ctx context.Context, id string, set bson.M) (*models.Blog, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = models.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&b); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
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

func (s *BlogStore) Count(ctx context.Context, w models.Window) (int64, error) {
	return s.coll.CountDocuments(ctx, windowFilter(bson.M{}, w))
}

func (s *BlogStore) Latest(ctx context.Context, limit int64) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "createdAt": 1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Blog
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
