package service

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/deskline/helpdesk-service/internal/domain"
	"github.com/deskline/helpdesk-service/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// honors the same contracts: mutation and audit commit together, and
// writes against a stale version fail with ErrVersionConflict.
type memStore struct {
	mu       sync.Mutex
	tickets  map[string]*domain.Ticket
	comments map[string][]domain.Comment
	audits   map[string][]domain.AuditEntry
	users    map[string]*domain.User
}

func newMemStore() *memStore {
	return &memStore{
		tickets:  make(map[string]*domain.Ticket),
		comments: make(map[string][]domain.Comment),
		audits:   make(map[string][]domain.AuditEntry),
		users:    make(map[string]*domain.User),
	}
}

// --- repository.TicketRepository ---

func (m *memStore) CreateWithAudit(_ context.Context, ticket *domain.Ticket, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *ticket
	m.tickets[ticket.ID] = &copied
	m.audits[ticket.ID] = append(m.audits[ticket.ID], *entry)
	return nil
}

func (m *memStore) UpdateWithAudit(_ context.Context, ticket *domain.Ticket, expectedVersion int64, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	copied := *ticket
	copied.Version = expectedVersion + 1
	m.tickets[ticket.ID] = &copied
	ticket.Version = copied.Version
	m.audits[ticket.ID] = append(m.audits[ticket.ID], *entry)
	return nil
}

func (m *memStore) AddCommentWithAudit(_ context.Context, comment *domain.Comment, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tickets[comment.TicketID]
	if !ok {
		return pgx.ErrNoRows
	}
	m.comments[comment.TicketID] = append(m.comments[comment.TicketID], *comment)
	stored.Version++
	stored.UpdatedAt = comment.CreatedAt
	m.audits[comment.TicketID] = append(m.audits[comment.TicketID], *entry)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (m *memStore) ListComments(_ context.Context, ticketID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Comment{}, m.comments[ticketID]...), nil
}

func (m *memStore) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range m.tickets {
		if filter.CreatedBy != nil && ticket.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func containsStatus(set []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// --- repository.AuditRepository ---

func (m *memStore) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEntry{}, m.audits[ticketID]...), nil
}

// --- user store (repository.UserRepository shape) ---

func (m *memStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) getUserByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.User
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

// userStore adapts memStore to repository.UserRepository without
// colliding with the ticket GetByID method.
type userStore struct {
	*memStore
}

func (u userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	return u.getUserByID(id)
}
