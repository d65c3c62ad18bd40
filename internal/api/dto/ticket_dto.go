package dto

import (
	"time"

	"github.com/deskline/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	Category   domain.TicketCategory `json:"category"`
	CreatedBy  string                `json:"created_by"`
	AssignedTo *string               `json:"assigned_to,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// CommentResponse carries the comment with its author snapshot.
type CommentResponse struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name"`
	AuthorRole domain.Role `json:"author_role"`
	Body       string      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuditEntryResponse response.
type AuditEntryResponse struct {
	ID          string           `json:"id"`
	ActorID     string           `json:"actor_id"`
	Kind        domain.AuditKind `json:"kind"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TicketDetailResponse provides full ticket info with comments and the
// audit trail.
type TicketDetailResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	CreatedBy   string                `json:"created_by"`
	AssignedTo  *string               `json:"assigned_to,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Comments    []CommentResponse     `json:"comments"`
	AuditTrail  []AuditEntryResponse  `json:"audit_trail"`
}

// FromTicketSummary maps the listing shape.
func FromTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:         ticket.ID,
		Title:      ticket.Title,
		Status:     ticket.Status,
		Priority:   ticket.Priority,
		Category:   ticket.Category,
		CreatedBy:  ticket.CreatedBy,
		AssignedTo: ticket.AssignedTo,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
	}
}

// FromTicketDetail maps the full shape.
func FromTicketDetail(ticket *domain.Ticket, trail []domain.AuditEntry) TicketDetailResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		comments = append(comments, CommentResponse{
			ID:         comment.ID,
			AuthorID:   comment.AuthorID,
			AuthorName: comment.AuthorName,
			AuthorRole: comment.AuthorRole,
			Body:       comment.Body,
			CreatedAt:  comment.CreatedAt,
		})
	}
	entries := make([]AuditEntryResponse, 0, len(trail))
	for _, entry := range trail {
		entries = append(entries, AuditEntryResponse{
			ID:          entry.ID,
			ActorID:     entry.ActorID,
			Kind:        entry.Kind,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return TicketDetailResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		CreatedBy:   ticket.CreatedBy,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Comments:    comments,
		AuditTrail:  entries,
	}
}
