package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zawamu/models"
	"zawamu/store"
)

type ViewingRepository interface {
	Create(ctx context.Context, v models.ViewingRequest) (*models.ViewingRequest, error)
	List(ctx context.Context, status string) ([]models.ViewingRequest, error)
	UpdateStatus(ctx context.Context, id, status string, notes *string) (*models.ViewingRequest, error)
}

type PropertyGetter interface {
	Get(ctx context.Context, id string) (*models.Property, error)
}

type ViewingHandler struct {
	viewings   ViewingRepository
	properties PropertyGetter
	events     ActivityPublisher
}

func NewViewingHandler(v ViewingRepository, p PropertyGetter, events ActivityPublisher) *ViewingHandler {
	return &ViewingHandler{viewings: v, properties: p, events: publisherOrNop(events)}
}

func summarize(p *models.Property) *models.PropertySummary {
	return &models.PropertySummary{ID: p.ID, Title: p.Title, Location: p.Location, Price: p.Price}
}

func (h *ViewingHandler) Create(c *gin.Context) {
	var in models.ViewingRequestInput
	if err := bindJSON(c, &in); err != nil {
		invalid(c, "Invalid data", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.properties.Get(ctx, in.PropertyID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, propertyNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}

	title := in.PropertyTitle
	if title == "" {
		title = p.Title
	}
	now := models.Now()
	v, err := h.viewings.Create(ctx, models.ViewingRequest{
		ID:            primitive.NewObjectID(),
		PropertyID:    p.ID,
		PropertyTitle: title,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Message:       in.Message,
		Status:        models.ViewingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	v.Property = summarize(p)

	h.events.Publish(models.Activity{Action: models.ActionViewingRequest, Subject: title, Timestamp: v.CreatedAt})
	c.JSON(http.StatusCreated, v)
}

func (h *ViewingHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidViewingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.viewings.List(ctx, status)
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ViewingHandler) UpdateStatus(c *gin.Context) {
	var in models.ViewingStatusUpdate
	if err := bindJSON(c, &in); err != nil {
		invalid(c, "Invalid data", err)
		return
	}
	if !models.ValidViewingStatus(in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	v, err := h.viewings.UpdateStatus(ctx, c.Param("id"), in.Status, in.Notes)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Viewing request not found")
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	// the property may have been deleted since; propertyId is then null
	if p, err := h.properties.Get(ctx, v.PropertyID.Hex()); err == nil {
		v.Property = summarize(p)
	}
	c.JSON(http.StatusOK, v)
}
