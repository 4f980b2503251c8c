package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidListedBy = errors.New("listedBy must be a valid id")

type Property struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Price        float64             `bson:"price" json:"price"`
	Location     string              `bson:"location" json:"location"`
	County       string              `bson:"county,omitempty" json:"county,omitempty"`
	Constituency string              `bson:"constituency,omitempty" json:"constituency,omitempty"`
	Ward         string              `bson:"ward,omitempty" json:"ward,omitempty"`
	Coordinates  []float64           `bson:"coordinates,omitempty" json:"coordinates,omitempty"` // [lat, lng]
	Type         string              `bson:"type" json:"type"`
	Featured     bool                `bson:"featured" json:"featured"`
	Images       []string            `bson:"images" json:"images"`
	Features     []string            `bson:"features" json:"features"`
	Bedrooms     int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                 `bson:"bathrooms" json:"bathrooms"`
	Area         float64             `bson:"area" json:"area"`
	ListedBy     *primitive.ObjectID `bson:"listedBy,omitempty" json:"listedBy,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type CreatePropertyRequest struct {
	ReadOnlyFields
	Title        *string   `json:"title" binding:"required,min=1"`
	Description  *string   `json:"description" binding:"required,min=1"`
	Price        *float64  `json:"price" binding:"required,gte=0"`
	Location     *string   `json:"location" binding:"required,min=1"`
	County       *string   `json:"county"`
	Constituency *string   `json:"constituency"`
	Ward         *string   `json:"ward"`
	Coordinates  []float64 `json:"coordinates" binding:"omitempty,len=2"`
	Type         *string   `json:"type" binding:"required,min=1"`
	Featured     *bool     `json:"featured"`
	Images       []string  `json:"images"`
	Features     []string  `json:"features"`
	Bedrooms     *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int      `json:"bathrooms" binding:"omitempty,gte=0"`
	Area         *float64  `json:"area" binding:"omitempty,gte=0"`
	ListedBy     *string   `json:"listedBy"`
}

// Document builds the property to insert, applying schema defaults.
func (r CreatePropertyRequest) Document(now time.Time) (Property, error) {
	p := Property{
		ID:           primitive.NewObjectID(),
		Title:        deref(r.Title),
		Description:  deref(r.Description),
		Price:        deref(r.Price),
		Location:     deref(r.Location),
		County:       deref(r.County),
		Constituency: deref(r.Constituency),
		Ward:         deref(r.Ward),
		Coordinates:  r.Coordinates,
		Type:         deref(r.Type),
		Featured:     deref(r.Featured),
		Images:       nonNil(r.Images),
		Features:     nonNil(r.Features),
		Bedrooms:     deref(r.Bedrooms),
		Bathrooms:    deref(r.Bathrooms),
		Area:         deref(r.Area),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if r.ListedBy != nil && *r.ListedBy != "" {
		id, err := primitive.ObjectIDFromHex(*r.ListedBy)
		if err != nil {
			return Property{}, ErrInvalidListedBy
		}
		p.ListedBy = &id
	}
	return p, nil
}

type UpdatePropertyRequest struct {
	ReadOnlyFields
	Title        *string   `json:"title" binding:"omitempty,min=1"`
	Description  *string   `json:"description" binding:"omitempty,min=1"`
	Price        *float64  `json:"price" binding:"omitempty,gte=0"`
	Location     *string   `json:"location" binding:"omitempty,min=1"`
	County       *string   `json:"county"`
	Constituency *string   `json:"constituency"`
	Ward         *string   `json:"ward"`
	Coordinates  []float64 `json:"coordinates" binding:"omitempty,len=2"`
	Type         *string   `json:"type" binding:"omitempty,min=1"`
	Featured     *bool     `json:"featured"`
	Images       []string  `json:"images"`
	Features     []string  `json:"features"`
	Bedrooms     *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int      `json:"bathrooms" binding:"omitempty,gte=0"`
	Area         *float64  `json:"area" binding:"omitempty,gte=0"`
	ListedBy     *string   `json:"listedBy"`
}

// SetFields returns the $set document for the fields present in the request.
func (r UpdatePropertyRequest) SetFields() (bson.M, error) {
	set := bson.M{}
	putString(set, "title", r.Title)
	putString(set, "description", r.Description)
	putFloat(set, "price", r.Price)
	putString(set, "location", r.Location)
	putString(set, "county", r.County)
	putString(set, "constituency", r.Constituency)
	putString(set, "ward", r.Ward)
	if r.Coordinates != nil {
		set["coordinates"] = r.Coordinates
	}
	putString(set, "type", r.Type)
	if r.Featured != nil {
		set["featured"] = *r.Featured
	}
	if r.Images != nil {
		set["images"] = r.Images
	}
	if r.Features != nil {
		set["features"] = r.Features
	}
	putInt(set, "bedrooms", r.Bedrooms)
	putInt(set, "bathrooms", r.Bathrooms)
	putFloat(set, "area", r.Area)
	if r.ListedBy != nil {
		if *r.ListedBy == "" {
			set["listedBy"] = nil
		} else {
			id, err := primitive.ObjectIDFromHex(*r.ListedBy)
			if err != nil {
				return nil, ErrInvalidListedBy
			}
			set["listedBy"] = id
		}
	}
	return set, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func putString(m bson.M, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putFloat(m bson.M, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

func putInt(m bson.M, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}
