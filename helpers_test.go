package zencode

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// userStoreStub is an in-memory UserStore with a storage-layer unique
// email constraint, mirroring what the Mongo index enforces.
type userStoreStub struct {
	mu      sync.Mutex
	nextID  int
	byID    map[string]*User
	byEmail map[string]string
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *userStoreStub) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := *s.byID[id]
	return &u, nil
}

func (s *userStoreStub) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *userStoreStub) Create(_ context.Context, n NewUser) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[n.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	s.nextID++
	now := time.Now()
	u := &User{
		ID:                 "u" + strconv.Itoa(s.nextID),
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
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID

	copied := *u
	return &copied, nil
}

func (s *userStoreStub) Update(_ context.Context, id string, upd UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrDuplicateEmail // not reachable in these tests
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

// sentMail records one Mailer.Send call.
type sentMail struct {
	To       string
	Template Template
	Data     map[string]string
}

// mailerStub records deliveries and can be told to fail.
type mailerStub struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *mailerStub) Send(_ context.Context, to string, tmpl Template, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Template: tmpl, Data: data})
	return nil
}

func (m *mailerStub) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mailerStub) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func testEngineConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("test-access-secret-0123456789abcdef")
	cfg.JWT.RefreshSecret = []byte("test-refresh-secret-0123456789abcde")
	cfg.FrontendURL = "https://app.test"
	// Cheap hashing keeps the suite fast; floors still hold.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

type testEnv struct {
	engine *Engine
	redis  *redis.Client
	mini   *miniredis.Miniredis
	users  *userStoreStub
	mailer *mailerStub
}

func newTestEngine(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newUserStoreStub()
	mailer := &mailerStub{}

	engine, err := New().
		WithConfig(testEngineConfig()).
		WithRedis(rdb).
		WithUserStore(users).
		WithMailer(mailer).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}

	return &testEnv{engine: engine, redis: rdb, mini: mr, users: users, mailer: mailer}
}

// storedOTP reads the live code for email straight out of Redis.
func (env *testEnv) storedOTP(t *testing.T, email string) string {
	t.Helper()
	code, err := env.mini.Get(otpKeyPrefix + email)
	if err != nil {
		t.Fatalf("no stored otp for %s: %v", email, err)
	}
	return code
}
