package models

import (
	"time"
)

// RSVP states as the backend stores them. The empty string means the user
// has not responded to the event at all.
const (
	RSVPGoing     = "rsvp"
	RSVPBlocked   = "block"
	RSVPCancelled = "cancel"
	RSVPNone      = ""
)

// ValidRSVPType reports whether s is a state the backend accepts in an
// RSVP mutation.
func ValidRSVPType(s string) bool {
	switch s {
	case RSVPGoing, RSVPBlocked, RSVPCancelled:
		return true
	}
	return false
}

type Club struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Host        []Club    `json:"host"`
	Tags        []string  `json:"tags"`
	RSVP        string    `json:"rsvp"`
	Subscribed  bool      `json:"subscribed"`
}
