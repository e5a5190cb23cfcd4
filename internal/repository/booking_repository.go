package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// ErrInventoryExhausted is returned when a conditional reservation update
// matches no row because the requested quantity no longer fits.
var ErrInventoryExhausted = errors.New("inventory exhausted")

// BookingRepository encapsulates booking persistence together with the
// inventory counter updates that must stay atomic with booking transitions.
type BookingRepository interface {
	// CreateReserved atomically increments quantity_sold for the booking's
	// ticket type and inserts the booking in one transaction. Returns
	// ErrInventoryExhausted when the conditional increment matches no row and
	// pgx.ErrNoRows when the ticket type does not exist.
	CreateReserved(ctx context.Context, booking *domain.Booking) error

	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUserWithDetails(ctx context.Context, userID string) ([]domain.BookingWithDetails, error)

	// SetPaymentSession stores the checkout session reference on a booking
	// still awaiting payment.
	SetPaymentSession(ctx context.Context, bookingID, sessionID string) error

	// Confirm transitions PENDING_PAYMENT -> CONFIRMED for the booking, guarded
	// by the session reference currently stored on it. Returns true when this
	// call performed the transition, false when the booking was not in a
	// matching state (already terminal or superseded session).
	Confirm(ctx context.Context, bookingID, sessionID, qrToken string) (bool, error)

	// CancelAndRelease transitions PENDING_PAYMENT -> CANCELLED under the same
	// session guard and releases the reserved inventory in the same
	// transaction. Returns true when this call performed the transition, so a
	// repeated terminal resolution can never double-release.
	CancelAndRelease(ctx context.Context, bookingID, sessionID string) (bool, error)

	// CancelAllForEvent cancels every non-cancelled booking of an event and
	// releases the reserved inventory per ticket type, in one transaction.
	CancelAllForEvent(ctx context.Context, eventID string) (int, error)

	// AttachQRToken stores the entrance token on an already-confirmed booking
	// (the free-ticket path, where confirmation happens at creation).
	AttachQRToken(ctx context.Context, bookingID, token string) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates the repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const reserveInventorySQL = `
    UPDATE ticket_types
    SET quantity_sold = quantity_sold + $2
    WHERE id = $1 AND quantity_sold + $2 <= quantity_available`

const releaseInventorySQL = `
    UPDATE ticket_types
    SET quantity_sold = quantity_sold - $2
    WHERE id = $1 AND quantity_sold >= $2`

func (r *bookingRepository) CreateReserved(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Check-and-increment as one statement: either the quantity fits and the
	// counter moves, or nothing happens. No window for a concurrent oversell.
	cmd, err := tx.Exec(ctx, reserveInventorySQL, booking.TicketTypeID, booking.Quantity)
	if err != nil {
		return fmt.Errorf("reserve inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM ticket_types WHERE id=$1)`,
			booking.TicketTypeID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check ticket type: %w", err)
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return ErrInventoryExhausted
	}

	const insertSQL = `
        INSERT INTO bookings (user_id, event_id, ticket_type_id, quantity, total_price_cents, status, qr_token)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertSQL,
		booking.UserID,
		booking.EventID,
		booking.TicketTypeID,
		booking.Quantity,
		booking.TotalPriceCents,
		booking.Status,
		booking.QRToken,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, user_id, event_id, ticket_type_id, quantity, total_price_cents,
               status, payment_session_id, qr_token, created_at, updated_at
        FROM bookings WHERE id=$1`

	var b domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.EventID,
		&b.TicketTypeID,
		&b.Quantity,
		&b.TotalPriceCents,
		&b.Status,
		&b.PaymentSessionID,
		&b.QRToken,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) ListByUserWithDetails(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	const query = `
        SELECT b.id, b.user_id, b.event_id, b.ticket_type_id, b.quantity, b.total_price_cents,
               b.status, b.payment_session_id, b.qr_token, b.created_at, b.updated_at,
               e.title, e.date, e.location, t.name
        FROM bookings b
        JOIN events e ON e.id = b.event_id
        JOIN ticket_types t ON t.id = b.ticket_type_id
        WHERE b.user_id=$1
        ORDER BY b.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BookingWithDetails
	for rows.Next() {
		var b domain.BookingWithDetails
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.EventID,
			&b.TicketTypeID,
			&b.Quantity,
			&b.TotalPriceCents,
			&b.Status,
			&b.PaymentSessionID,
			&b.QRToken,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.EventTitle,
			&b.EventDate,
			&b.EventLocation,
			&b.TicketTypeName,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *bookingRepository) SetPaymentSession(ctx context.Context, bookingID, sessionID string) error {
	const query = `
        UPDATE bookings SET payment_session_id=$1, updated_at=NOW()
        WHERE id=$2 AND status='PENDING_PAYMENT'`
	cmd, err := r.pool.Exec(ctx, query, sessionID, bookingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) Confirm(ctx context.Context, bookingID, sessionID, qrToken string) (bool, error) {
	const query = `
        UPDATE bookings SET status='CONFIRMED', qr_token=$1, updated_at=NOW()
        WHERE id=$2 AND status='PENDING_PAYMENT' AND payment_session_id=$3`
	cmd, err := r.pool.Exec(ctx, query, qrToken, bookingID, sessionID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *bookingRepository) CancelAndRelease(ctx context.Context, bookingID, sessionID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The status transition is the idempotency guard: it can only happen once,
	// so the release below runs at most once per booking.
	const cancelSQL = `
        UPDATE bookings SET status='CANCELLED', updated_at=NOW()
        WHERE id=$1 AND status='PENDING_PAYMENT' AND payment_session_id=$2
        RETURNING ticket_type_id, quantity`

	var ticketTypeID string
	var quantity int
	err = tx.QueryRow(ctx, cancelSQL, bookingID, sessionID).Scan(&ticketTypeID, &quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	if _, err := tx.Exec(ctx, releaseInventorySQL, ticketTypeID, quantity); err != nil {
		return false, fmt.Errorf("release inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *bookingRepository) AttachQRToken(ctx context.Context, bookingID, token string) error {
	const query = `
        UPDATE bookings SET qr_token=$1, updated_at=NOW()
        WHERE id=$2 AND status='CONFIRMED'`
	cmd, err := r.pool.Exec(ctx, query, token, bookingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) CancelAllForEvent(ctx context.Context, eventID string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin cascade cancel: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const cancelSQL = `
        UPDATE bookings SET status='CANCELLED', updated_at=NOW()
        WHERE event_id=$1 AND status != 'CANCELLED'
        RETURNING ticket_type_id, quantity`

	rows, err := tx.Query(ctx, cancelSQL, eventID)
	if err != nil {
		return 0, fmt.Errorf("cancel event bookings: %w", err)
	}

	released := map[string]int{}
	cancelled := 0
	for rows.Next() {
		var ticketTypeID string
		var quantity int
		if err := rows.Scan(&ticketTypeID, &quantity); err != nil {
			rows.Close()
			return 0, err
		}
		released[ticketTypeID] += quantity
		cancelled++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for ticketTypeID, quantity := range released {
		if _, err := tx.Exec(ctx, releaseInventorySQL, ticketTypeID, quantity); err != nil {
			return 0, fmt.Errorf("release inventory: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cancelled, nil
}
