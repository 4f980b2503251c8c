// Package store holds the Mongo repositories behind the API handlers.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zawamu/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// objectID parses a hex id. A malformed id cannot match any document, so it
// is reported as ErrNotFound rather than a separate error.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// windowFilter merges a createdAt range for w into filter.
func windowFilter(filter bson.M, w models.Window) bson.M {
	rng := bson.M{}
	if !w.Since.IsZero() {
		rng["$gte"] = w.Since
	}
	if !w.Until.IsZero() {
		rng["$lt"] = w.Until
	}
	if len(rng) > 0 {
		filter["createdAt"] = rng
	}
	return filter
}
