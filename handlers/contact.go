package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"zawamu/models"
)

type ContactRepository interface {
	Create(ctx context.Context, name, email, message string) (*models.Contact, error)
}

type ContactHandler struct {
	store  ContactRepository
	events ActivityPublisher
}

func NewContactHandler(s ContactRepository, events ActivityPublisher) *ContactHandler {
	return &ContactHandler{store: s, events: publisherOrNop(events)}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "All fields are required", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	saved, err := h.store.Create(ctx, req.Name, req.Email, req.Message)
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	h.events.Publish(models.Activity{Action: models.ActionInquiryReceived, Subject: saved.Name, Timestamp: saved.CreatedAt})
	c.JSON(http.StatusCreated, gin.H{"message": "Contact form submitted successfully"})
}
