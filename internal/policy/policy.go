// Package policy is the single authorization decision point. Every
// enforcement layer (HTTP handlers, services) calls CanPerform; no
// caller re-derives role rules on its own.
package policy

import "github.com/deskline/helpdesk-service/internal/domain"

// Action enumerates the operations subject to authorization.
type Action string

const (
	ActionCreateTicket Action = "create-ticket"
	ActionViewTicket   Action = "view-ticket"
	ActionChangeStatus Action = "change-status"
	ActionAssign       Action = "assign"
	ActionComment      Action = "comment"
	ActionListUsers    Action = "list-users"
	ActionManageUsers  Action = "manage-users"
)

// CanPerform decides whether an actor may perform an action, optionally
// against a specific ticket. It is pure: no I/O, no side effects, safe
// to call redundantly before and after a mutation attempt.
func CanPerform(role domain.Role, action Action, ticket *domain.Ticket, actorID string) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupport:
		switch action {
		case ActionCreateTicket, ActionViewTicket, ActionChangeStatus, ActionAssign, ActionComment:
			return true
		}
		return false
	case domain.RoleRequester:
		switch action {
		case ActionCreateTicket:
			return true
		case ActionViewTicket:
			return ticket != nil && ownsOrHolds(ticket, actorID)
		case ActionComment:
			return ticket != nil && ticket.CreatedBy == actorID
		}
		return false
	}
	return false
}

// ownsOrHolds covers creator and assignee. Assignment to a requester is
// itself disallowed, so in practice this reduces to creatorship.
func ownsOrHolds(ticket *domain.Ticket, actorID string) bool {
	if ticket.CreatedBy == actorID {
		return true
	}
	return ticket.AssignedTo != nil && *ticket.AssignedTo == actorID
}
