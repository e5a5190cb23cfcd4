package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-booking/internal/domain"
)

// AdminStats is the dashboard rollup. Revenue counts CONFIRMED bookings only.
type AdminStats struct {
	TotalUsers       int
	TotalEvents      int
	TotalBookings    int
	RevenueCents     int64
	RoleDistribution map[domain.Role]int
}

// StatsRepository computes read-only rollups for the admin dashboard.
type StatsRepository interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) AdminStats(ctx context.Context) (*AdminStats, error) {
	const totalsQuery = `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM events),
            (SELECT COUNT(*) FROM bookings),
            (SELECT COALESCE(SUM(total_price_cents), 0) FROM bookings WHERE status='CONFIRMED')`

	stats := &AdminStats{RoleDistribution: map[domain.Role]int{}}
	if err := r.pool.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalUsers,
		&stats.TotalEvents,
		&stats.TotalBookings,
		&stats.RevenueCents,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var role domain.Role
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.RoleDistribution[role] = count
	}
	return stats, rows.Err()
}
