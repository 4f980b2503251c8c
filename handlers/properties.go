package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"zawamu/models"
	"zawamu/store"
)

type PropertyRepository interface {
	List(ctx context.Context) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, p models.Property) (*models.Property, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Property, error)
	Delete(ctx context.Context, id string) error
}

type PropertyHandler struct {
	store  PropertyRepository
	events ActivityPublisher
}

func NewPropertyHandler(s PropertyRepository, events ActivityPublisher) *PropertyHandler {
	return &PropertyHandler{store: s, events: publisherOrNop(events)}
}

const propertyNotFound = "Property not found"

func (h *PropertyHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	properties, err := h.store.List(ctx)
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.store.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, propertyNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.CreatePropertyRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "Invalid data", err)
		return
	}
	doc, err := req.Document(models.Now())
	if err != nil {
		invalid(c, "Invalid data", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.store.Create(ctx, doc)
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	h.events.Publish(models.Activity{Action: models.ActionPropertyListed, Subject: p.Title, Timestamp: p.CreatedAt})
	c.JSON(http.StatusCreated, p)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var req models.UpdatePropertyRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "Invalid data", err)
		return
	}
	set, err := req.SetFields()
	if err != nil {
		invalid(c, "Invalid data", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.store.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, propertyNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	h.events.Publish(models.Activity{Action: models.ActionPropertyUpdated, Subject: p.Title, Timestamp: p.UpdatedAt})
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	err := h.store.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, propertyNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}
