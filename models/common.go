package models

import (
	"encoding/json"
	"time"
)

// ReadOnlyFields lists the server-managed keys the admin UI sends back on
// edit. They are accepted so strict decoding does not reject the payload,
// and never written.
type ReadOnlyFields struct {
	ID        json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	Version   json.RawMessage `json:"__v,omitempty"`
}

// Window is a half-open [Since, Until) interval on createdAt.
// A zero bound is open on that side.
type Window struct {
	Since time.Time
	Until time.Time
}

// Activity is one entry of the admin recent-activity feed.
type Activity struct {
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}

// Activity feed labels.
const (
	ActionPropertyListed  = "New property listed"
	ActionPropertyUpdated = "Property updated"
	ActionBlogPublished   = "Blog post published"
	ActionInquiryReceived = "New inquiry received"
	ActionViewingRequest  = "Viewing requested"
)

// Now returns the current time truncated to the millisecond precision
// Mongo stores, so values read back compare equal to what was written.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
