package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskline/helpdesk-service/internal/domain"
	"github.com/deskline/helpdesk-service/internal/events"
	"github.com/deskline/helpdesk-service/internal/policy"
	"github.com/deskline/helpdesk-service/internal/repository"
	apperrors "github.com/deskline/helpdesk-service/pkg/util"
)

// auditPreviewLen bounds the comment excerpt stored in the audit
// description. The full body stays unabridged on the comment record.
const auditPreviewLen = 50

// LifecycleService owns the ticket state machine: which transitions
// are legal, who may trigger them, and the audit trail they leave.
type LifecycleService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	audit      repository.AuditRepository
	dispatcher events.Dispatcher
	locks      *ticketLocks
	now        func() time.Time
}

// LifecycleDependencies bundles repositories for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	AuditRepo  repository.AuditRepository
	Dispatcher events.Dispatcher
}

// CreateTicketInput describes the ticket creation payload.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
}

// TicketListFilter describes listing parameters for callers.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	CreatedBy  *string
	AssignedTo *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		audit:      deps.AuditRepo,
		dispatcher: deps.Dispatcher,
		locks:      newTicketLocks(),
		now:        time.Now,
	}
}

// CreateTicket validates input and persists a new ticket. Status is
// forced to open, the assignee starts unset, and the `created` audit
// entry commits in the same transaction as the ticket row.
func (s *LifecycleService) CreateTicket(ctx context.Context, actor *domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	if !policy.CanPerform(actor.Role, policy.ActionCreateTicket, nil, actor.ID) {
		return nil, apperrors.NewForbidden()
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
		CreatedBy:   actor.ID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if problems := ticket.ValidateNew(); problems != nil {
		return nil, apperrors.NewValidationError("invalid ticket", problems)
	}

	entry := s.newAuditEntry(actor.ID, ticket.ID, domain.AuditKindCreated,
		fmt.Sprintf("Ticket created: %s", ticket.Title), now)
	if err := s.tickets.CreateWithAudit(ctx, ticket, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// ChangeStatus applies a status transition. Any state may move to any
// other state in the closed set, including reopening a closed ticket;
// the only rejected transition is the one that goes nowhere.
func (s *LifecycleService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	unlock := s.locks.Lock(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Role, policy.ActionChangeStatus, ticket, actor.ID) {
		return nil, apperrors.NewForbidden()
	}
	if ticket.Status == newStatus {
		return nil, apperrors.NewNoOp(fmt.Sprintf("ticket already %s", newStatus))
	}

	now := s.now().UTC()
	oldStatus := ticket.Status
	ticket.Status = newStatus
	ticket.UpdatedAt = now

	entry := s.newAuditEntry(actor.ID, ticket.ID, domain.AuditKindStatusChanged,
		fmt.Sprintf("Status updated to: %s", newStatus), now)
	if err := s.tickets.UpdateWithAudit(ctx, ticket, ticket.Version, entry); err != nil {
		return nil, mapWriteError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// Assign routes a ticket to a support or admin user. Assigning to a
// requester is refused, and re-assigning to the current assignee is a
// no-op rather than a fresh audit entry.
func (s *LifecycleService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.CanBeAssignee() {
		return nil, apperrors.NewForbidden()
	}

	unlock := s.locks.Lock(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Role, policy.ActionAssign, ticket, actor.ID) {
		return nil, apperrors.NewForbidden()
	}
	if ticket.AssignedTo != nil && *ticket.AssignedTo == assignee.ID {
		return nil, apperrors.NewNoOp("ticket already assigned to this user")
	}

	now := s.now().UTC()
	ticket.AssignedTo = &assignee.ID
	ticket.UpdatedAt = now

	entry := s.newAuditEntry(actor.ID, ticket.ID, domain.AuditKindAssigned,
		fmt.Sprintf("Ticket assigned to user: %s", assignee.ID), now)
	if err := s.tickets.UpdateWithAudit(ctx, ticket, ticket.Version, entry); err != nil {
		return nil, mapWriteError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return ticket, nil
}

// AddComment appends a comment, snapshotting the author's current name
// and role into the record. The snapshot is deliberate: history shows
// the role held at comment time, not the role held later.
func (s *LifecycleService) AddComment(ctx context.Context, actor *domain.User, ticketID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is empty", nil)
	}

	unlock := s.locks.Lock(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Role, policy.ActionComment, ticket, actor.ID) {
		return nil, apperrors.NewForbidden()
	}

	now := s.now().UTC()
	comment := &domain.Comment{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		AuthorRole: actor.Role,
		Body:       body,
		CreatedAt:  now,
	}

	entry := s.newAuditEntry(actor.ID, ticket.ID, domain.AuditKindCommented,
		fmt.Sprintf("Comment added: %s", commentPreview(body)), now)
	if err := s.tickets.AddCommentWithAudit(ctx, comment, entry); err != nil {
		return nil, mapWriteError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			BodyPreview: commentPreview(body),
		},
	})
	return comment, nil
}

// GetTicket returns a ticket with its ordered comments and audit
// trail, enforcing view access.
func (s *LifecycleService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.AuditEntry, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanPerform(actor.Role, policy.ActionViewTicket, ticket, actor.ID) {
		return nil, nil, apperrors.NewForbidden()
	}

	comments, err := s.tickets.ListComments(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	ticket.Comments = comments

	trail, err := s.audit.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, trail, nil
}

// ListTickets returns tickets visible to the actor. Requesters are
// scoped to their own tickets regardless of the requested filter.
func (s *LifecycleService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CreatedBy:  filter.CreatedBy,
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Categories: filter.Categories,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if actor.Role == domain.RoleRequester {
		creator := actor.ID
		repoFilter.CreatedBy = &creator
		repoFilter.AssignedTo = nil
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *LifecycleService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *LifecycleService) newAuditEntry(actorID, ticketID string, kind domain.AuditKind, description string, at time.Time) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:          uuid.NewString(),
		ActorID:     actorID,
		TicketID:    ticketID,
		Kind:        kind,
		Description: description,
		CreatedAt:   at,
	}
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapWriteError(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperrors.NewConflict("ticket was modified concurrently", nil)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.MapError(err)
}

func commentPreview(body string) string {
	runes := []rune(body)
	if len(runes) <= auditPreviewLen {
		return body
	}
	return string(runes[:auditPreviewLen]) + "..."
}
