package domain

import "time"

// Comment is an append-only child of a ticket. AuthorName and
// AuthorRole are snapshots taken when the comment was written; they are
// never re-resolved against the user record, so history shows the role
// the author held at the time.
type Comment struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorName string
	AuthorRole Role
	Body       string
	CreatedAt  time.Time
}
