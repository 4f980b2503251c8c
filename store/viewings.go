package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zawamu/models"
)

type ViewingStore struct {
	coll *mongo.Collection
}

func NewViewingStore(coll *mongo.Collection) *ViewingStore {
	return &ViewingStore{coll: coll}
}

func (s *ViewingStore) Create(ctx context.Context, v models.ViewingRequest) (*models.ViewingRequest, error) {
	if _, err := s.coll.InsertOne(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns viewing requests newest first with the property summary
// joined in. An empty status lists every request.
func (s *ViewingStore) List(ctx context.Context, status string) ([]models.ViewingRequest, error) {
	match := bson.D{}
	if status != "" {
		match = bson.D{{Key: "status", Value: status}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "properties"},
			{Key: "localField", Value: "propertyId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "property"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$property"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "property.description", Value: 0},
			{Key: "property.images", Value: 0},
			{Key: "property.features", Value: 0},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.ViewingRequest{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ViewingStore) UpdateStatus(ctx context.Context, id, status string, notes *string) (*models.ViewingRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"status": status, "updatedAt": models.Now()}
	if notes != nil {
		set["notes"] = *notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.ViewingRequest
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&v); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}
