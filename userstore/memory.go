package userstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kannan-innovates/zenCode"
)

// Memory is an in-memory UserStore for tests and local development.
// It enforces the same unique-email constraint as the Mongo index.
type Memory struct {
	mu      sync.Mutex
	nextID  int
	byID    map[string]*zencode.User
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*zencode.User),
		byEmail: make(map[string]string),
	}
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*zencode.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *m.byID[id]
	return &copied, nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*zencode.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *Memory) Create(_ context.Context, n zencode.NewUser) (*zencode.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[n.Email]; exists {
		return nil, zencode.ErrDuplicateEmail
	}

	m.nextID++
	now := time.Now()
	u := &zencode.User{
		ID:                 strconv.Itoa(m.nextID),
		FullName:           n.FullName,
		Email:              n.Email,
		PasswordHash:       n.PasswordHash,
		Role:               n.Role,
		IsEmailVerified:    n.IsEmailVerified,
		MustChangePassword: n.MustChangePassword,
		Expertise:          n.Expertise,
		ExperienceLevel:    n.ExperienceLevel,
		CreatedByAdminID:   n.CreatedByAdminID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u.ID

	copied := *u
	return &copied, nil
}

func (m *Memory) Update(_ context.Context, id string, upd zencode.UserUpdate) (*zencode.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, errNotFound(id)
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.IsBlocked != nil {
		u.IsBlocked = *upd.IsBlocked
	}
	if upd.IsEmailVerified != nil {
		u.IsEmailVerified = *upd.IsEmailVerified
	}
	if upd.MustChangePassword != nil {
		u.MustChangePassword = *upd.MustChangePassword
	}
	if upd.LastActiveAt != nil {
		u.LastActiveAt = *upd.LastActiveAt
	}
	u.UpdatedAt = time.Now()

	copied := *u
	return &copied, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "user " + string(e) + " not found" }
