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

type BlogRepository interface {
	List(ctx context.Context) ([]models.Blog, error)
	Get(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, b models.Blog) (*models.Blog, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}

type BlogHandler struct {
	store  BlogRepository
	events ActivityPublisher
}

func NewBlogHandler(s BlogRepository, events ActivityPublisher) *BlogHandler {
	return &BlogHandler{store: s, events: publisherOrNop(events)}
}

const blogNotFound = "Blog post not found"

func (h *BlogHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	posts, err := h.store.List(ctx)
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BlogHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	b, err := h.store.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, blogNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req models.CreateBlogRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "Invalid data", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	b, err := h.store.Create(ctx, req.Document(models.Now()))
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	h.events.Publish(models.Activity{Action: models.ActionBlogPublished, Subject: b.Title, Timestamp: b.CreatedAt})
	c.JSON(http.StatusCreated, b)
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req models.UpdateBlogRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "Invalid data", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	b, err := h.store.Update(ctx, c.Param("id"), req.SetFields())
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, blogNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	err := h.store.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, blogNotFound)
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted"})
}
