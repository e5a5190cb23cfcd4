package domain

import "time"

// EventStatus enumerates event lifecycle states.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is the aggregate for a published event. It is owned exclusively by its
// creator; only the owner or an admin may mutate it.
type Event struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Date        string
	Location    string
	Capacity    int
	Category    string
	ImageURL    *string
	Status      EventStatus
	CreatedAt   time.Time
}

// EventWithCreator augments an event with creator display fields for read paths.
type EventWithCreator struct {
	Event
	CreatorName  string
	CreatorEmail string
}

// Category is a browsable event grouping.
type Category struct {
	ID   string
	Name string
}
