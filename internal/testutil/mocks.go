package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

// MockUserRepository is an in-memory implementation of repository.UserRepository.
// It enforces clerk id uniqueness the way the users table does.
type MockUserRepository struct {
	mu      sync.Mutex
	Users   map[string]*entity.User
	Creates int
	Updates int

	FindErr   error
	CreateErr error
	UpdateErr error
	// BeforeCreate runs after the lookup miss and before the insert; tests use
	// it to simulate a concurrent delivery winning the race.
	BeforeCreate func()
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*entity.User)}
}

func (m *MockUserRepository) FindByClerkID(_ context.Context, clerkID valueobject.ClerkID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	u, ok := m.Users[clerkID.String()]
	if !ok {
		return nil, apperror.NotFound("user", clerkID.String())
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) Create(_ context.Context, cmd valueobject.SaveUser) (*entity.User, error) {
	if m.BeforeCreate != nil {
		m.BeforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	key := cmd.ClerkID.String()
	if _, ok := m.Users[key]; ok {
		return nil, apperror.Duplicate("user", key, nil)
	}
	now := time.Now()
	u := &entity.User{
		ID:        uuid.NewString(),
		ClerkID:   key,
		Name:      cmd.Name.String(),
		AvatarURL: cmd.AvatarURL.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.Users[key] = u
	m.Creates++
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) Update(_ context.Context, cmd valueobject.SaveUser) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	key := cmd.ClerkID.String()
	u, ok := m.Users[key]
	if !ok {
		return nil, apperror.NotFound("user", key)
	}
	u.Name = cmd.Name.String()
	u.AvatarURL = cmd.AvatarURL.String()
	u.UpdatedAt = time.Now()
	m.Updates++
	cp := *u
	return &cp, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(u *entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[u.ClerkID] = u
}

// Count returns the number of stored users.
func (m *MockUserRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users)
}

// MockVerifier is a testify mock of application.SignatureVerifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(rawBody []byte, headers entity.WebhookHeaders) error {
	args := m.Called(rawBody, headers)
	return args.Error(0)
}

// MockPublisher records published documents.
type MockPublisher struct {
	mu        sync.Mutex
	Published []any
	Err       error
}

func (p *MockPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, body)
	return nil
}

// MockSearcher returns canned search results.
type MockSearcher struct {
	Results []entity.User
	Err     error
	Query   string
	Size    int
}

func (s *MockSearcher) Search(_ context.Context, q string, size int) ([]entity.User, error) {
	s.Query, s.Size = q, size
	return s.Results, s.Err
}
