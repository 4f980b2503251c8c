// Package handlers holds the gin handlers for the public site and the admin
// dashboard. Each handler owns its error-to-status mapping.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"zawamu/middleware"
	"zawamu/models"
)

const requestTimeout = 10 * time.Second

// ActivityPublisher receives admin activity events as they happen.
type ActivityPublisher interface {
	Publish(a models.Activity)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Activity) {}

func publisherOrNop(p ActivityPublisher) ActivityPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

var errTrailingData = errors.New("unexpected data after JSON body")

// bindJSON decodes the body into dst rejecting unknown fields, then runs the
// binding tag validation.
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return errors.New("request body is empty")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(dst)
}

// describe turns decode and validation failures into a short client message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation", jsonName(fe.Field()), fe.Tag()))
		}
		return strings.Join(msgs, "; ")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: expected %s", typeErr.Field, typeErr.Type)
	}
	return err.Error()
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func invalid(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "error": describe(err)})
}

func serverError(c *gin.Context, message string, err error) {
	log.Error().Err(err).
		Str("route", c.FullPath()).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}
