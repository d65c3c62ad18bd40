package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports membership in the closed status set.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidPriority reports membership in the closed priority set.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketCategory enumerates the fixed request categories.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccess   TicketCategory = "access"
	TicketCategoryOther    TicketCategory = "other"
)

// ValidCategory reports membership in the closed category set.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case TicketCategoryHardware, TicketCategorySoftware, TicketCategoryNetwork,
		TicketCategoryAccess, TicketCategoryOther:
		return true
	}
	return false
}

const (
	// MinTitleLen and MinDescriptionLen gate ticket creation.
	MinTitleLen       = 5
	MinDescriptionLen = 10
)

// Ticket is the aggregate for a unit of support work. Version is the
// optimistic-concurrency counter bumped on every mutation.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    TicketCategory
	CreatedBy   string
	AssignedTo  *string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment
}

// ValidateNew checks the creation constraints: minimum lengths on the
// trimmed title/description and membership in every enum set.
func (t *Ticket) ValidateNew() map[string]any {
	problems := map[string]any{}
	if len(strings.TrimSpace(t.Title)) < MinTitleLen {
		problems["title"] = "must be at least 5 characters"
	}
	if len(strings.TrimSpace(t.Description)) < MinDescriptionLen {
		problems["description"] = "must be at least 10 characters"
	}
	if !ValidPriority(t.Priority) {
		problems["priority"] = "unknown priority"
	}
	if !ValidCategory(t.Category) {
		problems["category"] = "unknown category"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}
