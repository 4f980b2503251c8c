package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ViewingPending   = "pending"
	ViewingConfirmed = "confirmed"
	ViewingCancelled = "cancelled"
	ViewingCompleted = "completed"
)

// ValidViewingStatus reports whether s is one of the viewing request states.
func ValidViewingStatus(s string) bool {
	switch s {
	case ViewingPending, ViewingConfirmed, ViewingCancelled, ViewingCompleted:
		return true
	}
	return false
}

type ViewingRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PropertyID    primitive.ObjectID `bson:"propertyId" json:"-"`
	PropertyTitle string             `bson:"propertyTitle" json:"propertyTitle"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PreferredDate string             `bson:"preferredDate" json:"preferredDate"`
	PreferredTime string             `bson:"preferredTime" json:"preferredTime"`
	Message       string             `bson:"message,omitempty" json:"message,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Property is joined from the properties collection on list and
	// serialized in place of the raw id.
	Property *PropertySummary `bson:"property,omitempty" json:"propertyId"`
}

type PropertySummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Title    string             `bson:"title" json:"title"`
	Location string             `bson:"location" json:"location"`
	Price    float64            `bson:"price" json:"price"`
}

type ViewingRequestInput struct {
	PropertyID    string `json:"propertyId" binding:"required"`
	PropertyTitle string `json:"propertyTitle"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferredDate" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
	Message       string `json:"message"`
}

type ViewingStatusUpdate struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}
