package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/events"
	"github.com/spec-kit/event-booking/internal/repository"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// AdminService provides the dashboard rollups and role management.
type AdminService struct {
	stats      repository.StatsRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewAdminService constructs the service.
func NewAdminService(stats repository.StatsRepository, users repository.UserRepository, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{stats: stats, users: users, dispatcher: dispatcher}
}

// Stats returns the live dashboard rollup for an admin actor.
func (s *AdminService) Stats(ctx context.Context, actor *domain.User) (*repository.AdminStats, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionViewAdminDashboard, ""); err != nil {
		return nil, err
	}
	return s.stats.AdminStats(ctx)
}

// ListUsers returns users for the admin user table.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.User, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionViewAdminDashboard, ""); err != nil {
		return nil, err
	}
	return s.users.List(ctx, limit, offset)
}

// ChangeRole assigns a new non-admin role to the target user.
func (s *AdminService) ChangeRole(ctx context.Context, actor *domain.User, targetID string, newRole domain.Role) (*domain.User, error) {
	if err := auth.AuthorizeRoleChange(actor, newRole); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, err
	}
	if target.Role == domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role cannot be reassigned")
	}

	oldRole := target.Role
	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, err
	}
	target.Role = newRole

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventRoleChanged,
			ActorID: actor.ID,
			Payload: events.RoleChangedPayload{
				TargetUserID: targetID,
				OldRole:      oldRole,
				NewRole:      newRole,
			},
		})
	}
	return target, nil
}
