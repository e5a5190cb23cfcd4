package domain

import "time"

// PaymentStatus mirrors the checkout provider's payment outcome for a session.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// TransactionStatus tracks the local lifecycle of a checkout session record.
type TransactionStatus string

const (
	TransactionStatusInitiated  TransactionStatus = "initiated"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusExpired    TransactionStatus = "expired"
	TransactionStatusSuperseded TransactionStatus = "superseded"
)

// PaymentTransaction records one checkout session created for a booking.
// Re-initiating checkout supersedes the prior transaction; only the session
// currently referenced by the booking may drive its state.
type PaymentTransaction struct {
	ID            string
	SessionID     string
	BookingID     string
	UserID        string
	AmountCents   int64
	Currency      string
	PaymentStatus PaymentStatus
	Status        TransactionStatus
	CheckoutURL   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
