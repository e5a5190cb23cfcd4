package dto

import "github.com/spec-kit/event-booking/internal/repository"

// RoleChangeRequest payload for an admin role assignment.
type RoleChangeRequest struct {
	Role string `json:"role"`
}

// AdminStatsResponse is the dashboard rollup.
type AdminStatsResponse struct {
	TotalUsers       int            `json:"total_users"`
	TotalEvents      int            `json:"total_events"`
	TotalBookings    int            `json:"total_bookings"`
	RevenueCents     int64          `json:"revenue_cents"`
	RoleDistribution map[string]int `json:"role_distribution"`
}

// NewAdminStatsResponse maps the repository rollup.
func NewAdminStatsResponse(s *repository.AdminStats) AdminStatsResponse {
	dist := make(map[string]int, len(s.RoleDistribution))
	for role, count := range s.RoleDistribution {
		dist[string(role)] = count
	}
	return AdminStatsResponse{
		TotalUsers:       s.TotalUsers,
		TotalEvents:      s.TotalEvents,
		TotalBookings:    s.TotalBookings,
		RevenueCents:     s.RevenueCents,
		RoleDistribution: dist,
	}
}
