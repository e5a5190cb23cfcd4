package domain

// TicketType is a priced category of admission to an event with a fixed
// inventory ceiling. QuantitySold counts reserved inventory and must satisfy
// 0 <= QuantitySold <= QuantityAvailable at all times; the repository enforces
// this with conditional updates, never read-then-write.
type TicketType struct {
	ID                string
	EventID           string
	Name              string
	PriceCents        int64
	QuantityAvailable int
	QuantitySold      int
}

// Free reports whether bookings of this type skip the payment step.
func (t TicketType) Free() bool {
	return t.PriceCents == 0
}

// Remaining returns the inventory still available for reservation.
func (t TicketType) Remaining() int {
	return t.QuantityAvailable - t.QuantitySold
}
