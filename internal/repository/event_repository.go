package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// EventFilter captures public listing parameters.
type EventFilter struct {
	Category   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetWithCreator(ctx context.Context, id string) (*domain.EventWithCreator, error)
	ListActive(ctx context.Context, filter EventFilter) ([]domain.EventWithCreator, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error)
	MarkCancelled(ctx context.Context, id string) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (creator_id, title, description, date, location, capacity, category, image_url, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.CreatorID,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Capacity,
		event.Category,
		event.ImageURL,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, date=$3, location=$4,
            capacity=$5, category=$6, image_url=$7, status=$8
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Capacity,
		event.Category,
		event.ImageURL,
		event.Status,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT id, creator_id, title, description, date, location, capacity, category, image_url, status, created_at
        FROM events WHERE id=$1`

	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.CreatorID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Capacity,
		&event.Category,
		&event.ImageURL,
		&event.Status,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetWithCreator(ctx context.Context, id string) (*domain.EventWithCreator, error) {
	const query = `
        SELECT e.id, e.creator_id, e.title, e.description, e.date, e.location,
               e.capacity, e.category, e.image_url, e.status, e.created_at,
               u.name, u.email
        FROM events e JOIN users u ON u.id = e.creator_id
        WHERE e.id=$1`

	var ev domain.EventWithCreator
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ev.ID,
		&ev.CreatorID,
		&ev.Title,
		&ev.Description,
		&ev.Date,
		&ev.Location,
		&ev.Capacity,
		&ev.Category,
		&ev.ImageURL,
		&ev.Status,
		&ev.CreatedAt,
		&ev.CreatorName,
		&ev.CreatorEmail,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) ListActive(ctx context.Context, filter EventFilter) ([]domain.EventWithCreator, error) {
	base := `SELECT e.id, e.creator_id, e.title, e.description, e.date, e.location,
                    e.capacity, e.category, e.image_url, e.status, e.created_at,
                    u.name, u.email
             FROM events e JOIN users u ON u.id = e.creator_id`
	clauses := []string{"e.status = 'active'"}
	args := []any{}

	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("e.category=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(e.title) LIKE %s OR LOWER(e.description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EventWithCreator
	for rows.Next() {
		var ev domain.EventWithCreator
		if err := rows.Scan(
			&ev.ID,
			&ev.CreatorID,
			&ev.Title,
			&ev.Description,
			&ev.Date,
			&ev.Location,
			&ev.Capacity,
			&ev.Category,
			&ev.ImageURL,
			&ev.Status,
			&ev.CreatedAt,
			&ev.CreatorName,
			&ev.CreatorEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}

func (r *eventRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error) {
	const query = `
        SELECT id, creator_id, title, description, date, location, capacity, category, image_url, status, created_at
        FROM events WHERE creator_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.CreatorID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Location,
			&event.Capacity,
			&event.Category,
			&event.ImageURL,
			&event.Status,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) MarkCancelled(ctx context.Context, id string) error {
	const query = `UPDATE events SET status='cancelled' WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
