package events

import (
	"time"

	"github.com/spec-kit/event-booking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventEventCreated     EventType = "event_created"
	EventEventCancelled   EventType = "event_cancelled"
	EventRoleChanged      EventType = "role_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID       string               `json:"booking_id"`
	EventID         string               `json:"event_id"`
	TicketTypeID    string               `json:"ticket_type_id"`
	Quantity        int                  `json:"quantity"`
	TotalPriceCents int64                `json:"total_price_cents"`
	Status          domain.BookingStatus `json:"status"`
}

// BookingResolvedPayload payload for confirmations and cancellations.
type BookingResolvedPayload struct {
	BookingID string               `json:"booking_id"`
	EventID   string               `json:"event_id"`
	SessionID string               `json:"session_id,omitempty"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// EventCreatedPayload payload.
type EventCreatedPayload struct {
	EventID  string `json:"event_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// EventCancelledPayload payload.
type EventCancelledPayload struct {
	EventID           string `json:"event_id"`
	BookingsCancelled int    `json:"bookings_cancelled"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	TargetUserID string      `json:"target_user_id"`
	OldRole      domain.Role `json:"old_role"`
	NewRole      domain.Role `json:"new_role"`
}
