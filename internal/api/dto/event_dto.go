package dto

import (
	"time"

	"github.com/spec-kit/event-booking/internal/domain"
)

// EventCreateRequest payload for creating an event.
type EventCreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url"`
}

// EventUpdateRequest payload for partial event updates.
type EventUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
}

// TicketTypeCreateRequest payload for adding a ticket type.
type TicketTypeCreateRequest struct {
	Name              string `json:"name"`
	PriceCents        int64  `json:"price_cents"`
	QuantityAvailable int    `json:"quantity_available"`
}

// EventResponse is the event representation for API callers.
type EventResponse struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventDetailResponse adds creator display fields.
type EventDetailResponse struct {
	EventResponse
	CreatorName  string `json:"creator_name"`
	CreatorEmail string `json:"creator_email"`
}

// TicketTypeResponse is the ticket type representation for API callers.
type TicketTypeResponse struct {
	ID                string `json:"id"`
	EventID           string `json:"event_id"`
	Name              string `json:"name"`
	PriceCents        int64  `json:"price_cents"`
	QuantityAvailable int    `json:"quantity_available"`
	QuantitySold      int    `json:"quantity_sold"`
	QuantityRemaining int    `json:"quantity_remaining"`
}

// CategoryResponse is a browsable category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewEventResponse maps a domain event.
func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		CreatorID:   e.CreatorID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Capacity:    e.Capacity,
		Category:    e.Category,
		ImageURL:    e.ImageURL,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

// NewEventDetailResponse maps an event joined with its creator.
func NewEventDetailResponse(e *domain.EventWithCreator) EventDetailResponse {
	return EventDetailResponse{
		EventResponse: NewEventResponse(&e.Event),
		CreatorName:   e.CreatorName,
		CreatorEmail:  e.CreatorEmail,
	}
}

// NewTicketTypeResponse maps a domain ticket type.
func NewTicketTypeResponse(t domain.TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID:                t.ID,
		EventID:           t.EventID,
		Name:              t.Name,
		PriceCents:        t.PriceCents,
		QuantityAvailable: t.QuantityAvailable,
		QuantitySold:      t.QuantitySold,
		QuantityRemaining: t.Remaining(),
	}
}
