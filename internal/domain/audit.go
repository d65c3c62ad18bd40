package domain

import "time"

// AuditKind captures which lifecycle operation produced an entry.
type AuditKind string

const (
	AuditKindCreated       AuditKind = "created"
	AuditKindStatusChanged AuditKind = "status-changed"
	AuditKindAssigned      AuditKind = "assigned"
	AuditKindCommented     AuditKind = "commented"
)

// AuditEntry is an immutable record of a lifecycle-affecting action.
// Entries reference ticket and actor by id only and are never updated
// or deleted.
type AuditEntry struct {
	ID          string
	ActorID     string
	TicketID    string
	Kind        AuditKind
	Description string
	CreatedAt   time.Time
}
