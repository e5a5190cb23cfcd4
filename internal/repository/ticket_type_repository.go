package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// TicketTypeRepository encapsulates ticket type persistence. Inventory counters
// are only ever touched through the booking repository's transactional paths.
type TicketTypeRepository interface {
	Create(ctx context.Context, tt *domain.TicketType) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.TicketType, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates the repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) Create(ctx context.Context, tt *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (event_id, name, price_cents, quantity_available, quantity_sold)
        VALUES ($1,$2,$3,$4,0)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		tt.EventID,
		tt.Name,
		tt.PriceCents,
		tt.QuantityAvailable,
	).Scan(&tt.ID)
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, event_id, name, price_cents, quantity_available, quantity_sold
        FROM ticket_types WHERE id=$1`

	var tt domain.TicketType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.PriceCents,
		&tt.QuantityAvailable,
		&tt.QuantitySold,
	); err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *ticketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	const query = `
        SELECT id, event_id, name, price_cents, quantity_available, quantity_sold
        FROM ticket_types WHERE event_id=$1 ORDER BY price_cents ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.Name,
			&tt.PriceCents,
			&tt.QuantityAvailable,
			&tt.QuantitySold,
		); err != nil {
			return nil, err
		}
		result = append(result, tt)
	}
	return result, rows.Err()
}
