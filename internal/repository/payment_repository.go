package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// PaymentRepository tracks checkout sessions created for bookings.
type PaymentRepository interface {
	Create(ctx context.Context, txn *domain.PaymentTransaction) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error)
	// UpdateStatusBySession records the provider-reported status for a session.
	UpdateStatusBySession(ctx context.Context, sessionID string, paymentStatus domain.PaymentStatus, status domain.TransactionStatus) error
	// SupersedeInitiated marks every still-initiated transaction of a booking
	// as superseded; called before a replacement checkout session is created.
	SupersedeInitiated(ctx context.Context, bookingID string) error
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	const query = `
        INSERT INTO payment_transactions (session_id, booking_id, user_id, amount_cents, currency, payment_status, status, checkout_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		txn.SessionID,
		txn.BookingID,
		txn.UserID,
		txn.AmountCents,
		txn.Currency,
		txn.PaymentStatus,
		txn.Status,
		txn.CheckoutURL,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
}

func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	const query = `
        SELECT id, session_id, booking_id, user_id, amount_cents, currency,
               payment_status, status, checkout_url, created_at, updated_at
        FROM payment_transactions WHERE session_id=$1`

	var txn domain.PaymentTransaction
	if err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&txn.ID,
		&txn.SessionID,
		&txn.BookingID,
		&txn.UserID,
		&txn.AmountCents,
		&txn.Currency,
		&txn.PaymentStatus,
		&txn.Status,
		&txn.CheckoutURL,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepository) UpdateStatusBySession(ctx context.Context, sessionID string, paymentStatus domain.PaymentStatus, status domain.TransactionStatus) error {
	const query = `
        UPDATE payment_transactions SET payment_status=$1, status=$2, updated_at=NOW()
        WHERE session_id=$3`
	cmd, err := r.pool.Exec(ctx, query, paymentStatus, status, sessionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) SupersedeInitiated(ctx context.Context, bookingID string) error {
	const query = `
        UPDATE payment_transactions SET status='superseded', updated_at=NOW()
        WHERE booking_id=$1 AND status='initiated'`
	_, err := r.pool.Exec(ctx, query, bookingID)
	return err
}
