package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"` // markdown
	Author    string             `bson:"author,omitempty" json:"author,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	ReadTime  string             `bson:"readTime,omitempty" json:"readTime,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Date      string             `bson:"date,omitempty" json:"date,omitempty"`
	Featured  bool               `bson:"featured" json:"featured"`
	Tags      []string           `bson:"tags" json:"tags"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateBlogRequest struct {
	ReadOnlyFields
	Title    *string  `json:"title" binding:"required,min=1"`
	Content  *string  `json:"content" binding:"required,min=1"`
	Author   *string  `json:"author"`
	Category *string  `json:"category"`
	ReadTime *string  `json:"readTime"`
	Image    *string  `json:"image"`
	Date     *string  `json:"date"`
	Featured *bool    `json:"featured"`
	Tags     []string `json:"tags"`
}

func (r CreateBlogRequest) Document(now time.Time) Blog {
	return Blog{
		ID:        primitive.NewObjectID(),
		Title:     deref(r.Title),
		Content:   deref(r.Content),
		Author:    deref(r.Author),
		Category:  deref(r.Category),
		ReadTime:  deref(r.ReadTime),
		Image:     deref(r.Image),
		Date:      deref(r.Date),
		Featured:  deref(r.Featured),
		Tags:      nonNil(r.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type UpdateBlogRequest struct {
	ReadOnlyFields
	Title    *string  `json:"title" binding:"omitempty,min=1"`
	Content  *string  `json:"content" binding:"omitempty,min=1"`
	Author   *string  `json:"author"`
	Category *string  `json:"category"`
	ReadTime *string  `json:"readTime"`
	Image    *string  `json:"image"`
	Date     *string  `json:"date"`
	Featured *bool    `json:"featured"`
	Tags     []string `json:"tags"`
}

func (r UpdateBlogRequest) SetFields() bson.M {
	set := bson.M{}
	putString(set, "title", r.Title)
	putString(set, "content", r.Content)
	putString(set, "author", r.Author)
	putString(set, "category", r.Category)
	putString(set, "readTime", r.ReadTime)
	putString(set, "image", r.Image)
	putString(set, "date", r.Date)
	if r.Featured != nil {
		set["featured"] = *r.Featured
	}
	if r.Tags != nil {
		set["tags"] = r.Tags
	}
	return set
}
