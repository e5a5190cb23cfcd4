package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/provider"
	"github.com/spec-kit/event-booking/internal/repository"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// SessionRegistry is the slice of the session store the identity service needs.
type SessionRegistry interface {
	Save(ctx context.Context, token, userID string) error
	Delete(ctx context.Context, token string) error
}

// IdentityService resolves external session credentials into canonical users,
// creating user records on first sight. The very first user ever created is
// the admin; the decision is made atomically in the store, never in process
// memory.
type IdentityService struct {
	identity provider.IdentityClient
	users    repository.UserRepository
	sessions SessionRegistry
	logger   *zap.Logger
}

// SessionResult is the outcome of a session exchange.
type SessionResult struct {
	User      *domain.User
	Token     string
	IsNewUser bool
}

// NewIdentityService constructs the service.
func NewIdentityService(identity provider.IdentityClient, users repository.UserRepository, sessions SessionRegistry, logger *zap.Logger) *IdentityService {
	return &IdentityService{identity: identity, users: users, sessions: sessions, logger: logger}
}

// ExchangeSession validates the opaque session id with the identity provider,
// resolves (or creates) the user, and registers the session token.
func (s *IdentityService) ExchangeSession(ctx context.Context, sessionID string) (*SessionResult, error) {
	if sessionID == "" {
		return nil, apperrors.NewValidationError("missing session id", nil)
	}

	data, err := s.identity.ResolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, created, err := s.users.EnsureByEmail(ctx, data.Email, data.Name, data.Picture)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("user created",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)))
	}

	if err := s.sessions.Save(ctx, data.SessionToken, user.ID); err != nil {
		return nil, err
	}

	return &SessionResult{User: user, Token: data.SessionToken, IsNewUser: created}, nil
}

// Logout invalidates a session token.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// SelectRole lets a non-admin user pick attendee or organizer for themselves.
func (s *IdentityService) SelectRole(ctx context.Context, actor *domain.User, newRole domain.Role) error {
	if err := auth.AuthorizeSelfRoleSelect(actor, newRole); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, actor.ID, newRole)
}
