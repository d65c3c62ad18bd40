package policy

import (
	"testing"

	"github.com/deskline/helpdesk-service/internal/domain"
)

func ticketOwnedBy(creator string, assignee *string) *domain.Ticket {
	return &domain.Ticket{ID: "t1", CreatedBy: creator, AssignedTo: assignee}
}

func TestCanPerform(t *testing.T) {
	assignee := "u2"
	tests := []struct {
		name   string
		role   domain.Role
		action Action
		ticket *domain.Ticket
		actor  string
		want   bool
	}{
		{"admin can change status", domain.RoleAdmin, ActionChangeStatus, ticketOwnedBy("u1", nil), "admin", true},
		{"admin can list users", domain.RoleAdmin, ActionListUsers, nil, "admin", true},
		{"admin can manage users", domain.RoleAdmin, ActionManageUsers, nil, "admin", true},

		{"support can change status on any ticket", domain.RoleSupport, ActionChangeStatus, ticketOwnedBy("u1", nil), "s1", true},
		{"support can assign", domain.RoleSupport, ActionAssign, ticketOwnedBy("u1", nil), "s1", true},
		{"support can comment on any ticket", domain.RoleSupport, ActionComment, ticketOwnedBy("u1", nil), "s1", true},
		{"support cannot list users", domain.RoleSupport, ActionListUsers, nil, "s1", false},
		{"support cannot manage users", domain.RoleSupport, ActionManageUsers, nil, "s1", false},

		{"requester can create", domain.RoleRequester, ActionCreateTicket, nil, "u1", true},
		{"requester can view own ticket", domain.RoleRequester, ActionViewTicket, ticketOwnedBy("u1", nil), "u1", true},
		{"requester cannot view others ticket", domain.RoleRequester, ActionViewTicket, ticketOwnedBy("u9", nil), "u1", false},
		{"requester can view assigned ticket", domain.RoleRequester, ActionViewTicket, ticketOwnedBy("u9", &assignee), "u2", true},
		{"requester can comment on own ticket", domain.RoleRequester, ActionComment, ticketOwnedBy("u1", nil), "u1", true},
		{"requester cannot comment on others ticket", domain.RoleRequester, ActionComment, ticketOwnedBy("u9", nil), "u1", false},
		{"requester cannot change status even on own ticket", domain.RoleRequester, ActionChangeStatus, ticketOwnedBy("u1", nil), "u1", false},
		{"requester cannot assign even on own ticket", domain.RoleRequester, ActionAssign, ticketOwnedBy("u1", nil), "u1", false},
		{"requester cannot list users", domain.RoleRequester, ActionListUsers, nil, "u1", false},

		{"unknown role denied", domain.Role("intern"), ActionComment, ticketOwnedBy("u1", nil), "u1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPerform(tt.role, tt.action, tt.ticket, tt.actor); got != tt.want {
				t.Errorf("CanPerform(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestCanPerformIsIdempotent(t *testing.T) {
	ticket := ticketOwnedBy("u1", nil)
	for i := 0; i < 3; i++ {
		if !CanPerform(domain.RoleRequester, ActionComment, ticket, "u1") {
			t.Fatal("decision changed between redundant calls")
		}
	}
}
