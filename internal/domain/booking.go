package domain

import "time"

// BookingStatus enumerates booking lifecycle states. CONFIRMED and CANCELLED
// are terminal.
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

// CanTransition reports whether moving from one booking status to another is a
// permitted state-machine edge. Free bookings are created directly in
// CONFIRMED, paid ones in PENDING_PAYMENT; the only edges afterwards are
// PENDING_PAYMENT -> CONFIRMED and PENDING_PAYMENT -> CANCELLED.
func CanTransition(from, to BookingStatus) bool {
	if from == BookingStatusPendingPayment {
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	}
	return false
}

// Terminal reports whether a status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

// Booking records a reservation of ticket inventory by a buyer. Inventory is
// reserved at creation time and released only when the booking is cancelled.
// Status is mutated exclusively by the booking workflow.
type Booking struct {
	ID               string
	UserID           string
	EventID          string
	TicketTypeID     string
	Quantity         int
	TotalPriceCents  int64
	Status           BookingStatus
	PaymentSessionID *string
	QRToken          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BookingWithDetails augments a booking with event and ticket type display
// fields for the caller's booking list.
type BookingWithDetails struct {
	Booking
	EventTitle     string
	EventDate      string
	EventLocation  string
	TicketTypeName string
}
