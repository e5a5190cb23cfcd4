package dto

import (
	"time"

	"github.com/spec-kit/event-booking/internal/domain"
)

// BookingCreateRequest payload for reserving tickets.
type BookingCreateRequest struct {
	EventID      string `json:"event_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int    `json:"quantity"`
}

// CheckoutRequest payload for opening a checkout session.
type CheckoutRequest struct {
	BookingID string `json:"booking_id"`
	OriginURL string `json:"origin_url"`
}

// BookingResponse is the booking representation for API callers.
type BookingResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EventID          string    `json:"event_id"`
	TicketTypeID     string    `json:"ticket_type_id"`
	Quantity         int       `json:"quantity"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	Status           string    `json:"status"`
	PaymentSessionID *string   `json:"payment_session_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// BookingDetailsResponse adds event and ticket type display fields for the
// caller's booking list.
type BookingDetailsResponse struct {
	BookingResponse
	EventTitle     string `json:"event_title"`
	EventDate      string `json:"event_date"`
	EventLocation  string `json:"event_location"`
	TicketTypeName string `json:"ticket_type_name"`
}

// CheckoutResponse returns the hosted payment page reference.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PaymentStatusResponse reports the outcome of a payment resolution attempt.
type PaymentStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	BookingStatus string `json:"booking_status"`
}

// NewBookingResponse maps a domain booking.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		EventID:          b.EventID,
		TicketTypeID:     b.TicketTypeID,
		Quantity:         b.Quantity,
		TotalPriceCents:  b.TotalPriceCents,
		Status:           string(b.Status),
		PaymentSessionID: b.PaymentSessionID,
		CreatedAt:        b.CreatedAt,
	}
}

// NewBookingDetailsResponse maps a booking joined with display fields.
func NewBookingDetailsResponse(b domain.BookingWithDetails) BookingDetailsResponse {
	return BookingDetailsResponse{
		BookingResponse: NewBookingResponse(&b.Booking),
		EventTitle:      b.EventTitle,
		EventDate:       b.EventDate,
		EventLocation:   b.EventLocation,
		TicketTypeName:  b.TicketTypeName,
	}
}
