package auth

import (
	"fmt"

	"github.com/spec-kit/event-booking/internal/domain"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// Action enumerates the operations governed by the role policy.
type Action string

const (
	ActionCreateEvent        Action = "create_event"
	ActionEditEvent          Action = "edit_event"
	ActionDeleteEvent        Action = "delete_event"
	ActionManageTicketTypes  Action = "manage_ticket_types"
	ActionChangeRole         Action = "change_role"
	ActionViewAdminDashboard Action = "view_admin_dashboard"
)

// Authorize is the pure authorization decision: given the actor's role and id,
// the requested action, and the owner of the target resource (empty when the
// action has no owned resource), it returns nil or a Forbidden error whose
// message names the denied action. No store access happens here so the rules
// are testable in isolation.
func Authorize(role domain.Role, actorID string, action Action, resourceOwnerID string) error {
	switch action {
	case ActionCreateEvent:
		if role == domain.RoleOrganizer || role == domain.RoleAdmin {
			return nil
		}
	case ActionEditEvent, ActionDeleteEvent, ActionManageTicketTypes:
		if role == domain.RoleAdmin {
			return nil
		}
		if role == domain.RoleOrganizer && actorID == resourceOwnerID {
			return nil
		}
	case ActionChangeRole, ActionViewAdminDashboard:
		if role == domain.RoleAdmin {
			return nil
		}
	}
	return apperrors.NewForbidden(fmt.Sprintf("%s not permitted for role %s", action, role))
}

// AuthorizeRoleChange applies the extra constraints on change_role: only an
// admin may change roles, the admin role itself is never assignable through
// this path, and the new role must be a known one.
func AuthorizeRoleChange(actor *domain.User, newRole domain.Role) error {
	if err := Authorize(actor.Role, actor.ID, ActionChangeRole, ""); err != nil {
		return err
	}
	if !domain.ValidRole(newRole) {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": string(newRole)})
	}
	if newRole == domain.RoleAdmin {
		return apperrors.NewForbidden("admin role cannot be assigned")
	}
	return nil
}

// AuthorizeSelfRoleSelect governs the signup-time role selection: a non-admin
// user may switch themselves between attendee and organizer.
func AuthorizeSelfRoleSelect(actor *domain.User, newRole domain.Role) error {
	if actor.Role == domain.RoleAdmin {
		return apperrors.NewForbidden("admin role cannot be changed")
	}
	if newRole != domain.RoleAttendee && newRole != domain.RoleOrganizer {
		return apperrors.NewValidationError("role must be attendee or organizer",
			map[string]any{"role": string(newRole)})
	}
	return nil
}
