package usecase_test

import (
	"context"
	"sync"
	"time"

	"rezo-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateWithProfile(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateDeviceToken(ctx context.Context, id int64, token *string) error {
	return m.Called(ctx, id, token).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, role domain.Role, id int64) (domain.Profile, error) {
	args := m.Called(ctx, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, role domain.Role, userID int64) (domain.Profile, error) {
	args := m.Called(ctx, role, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, profile domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepo) GetByIDWithCompany(ctx context.Context, id int64) (*domain.OfferWithCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfferWithCompany), args.Error(1)
}

func (m *MockOfferRepo) FetchWithCompany(ctx context.Context, limit, offset int) ([]domain.OfferWithCompany, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.OfferWithCompany), args.Get(1).(int64), args.Error(2)
}

func (m *MockOfferRepo) FetchByCompanyID(ctx context.Context, companyID int64, limit, offset int) ([]domain.Offer, int64, error) {
	args := m.Called(ctx, companyID, limit, offset)
	return args.Get(0).([]domain.Offer), args.Get(1).(int64), args.Error(2)
}

type MockFormationRepo struct {
	mock.Mock
}

func (m *MockFormationRepo) Create(ctx context.Context, formation *domain.Formation) error {
	return m.Called(ctx, formation).Error(0)
}

func (m *MockFormationRepo) GetByIDWithUniversity(ctx context.Context, id int64) (*domain.FormationWithUniversity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormationWithUniversity), args.Error(1)
}

func (m *MockFormationRepo) FetchWithUniversity(ctx context.Context, limit, offset int) ([]domain.FormationWithUniversity, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.FormationWithUniversity), args.Get(1).(int64), args.Error(2)
}

func (m *MockFormationRepo) FetchByUniversityID(ctx context.Context, universityID int64, limit, offset int) ([]domain.Formation, int64, error) {
	args := m.Called(ctx, universityID, limit, offset)
	return args.Get(0).([]domain.Formation), args.Get(1).(int64), args.Error(2)
}

type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) Create(ctx context.Context, match *domain.Match) error {
	return m.Called(ctx, match).Error(0)
}

func (m *MockMatchRepo) FetchByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Match, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Match), args.Get(1).(int64), args.Error(2)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(password, digest string) bool {
	return m.Called(password, digest).Bool(0)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(userID int64) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokens) Validate(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

// memConversationRepo is an in-memory ConversationRepository that enforces
// one conversation per unordered pair the same way the database index does.
type memConversationRepo struct {
	mu       sync.Mutex
	nextID   int64
	convs    map[int64]*domain.Conversation
	byPair   map[domain.Pair]int64
	messages map[int64][]domain.Message
	failWith error
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		convs:    make(map[int64]*domain.Conversation),
		byPair:   make(map[domain.Pair]int64),
		messages: make(map[int64][]domain.Message),
	}
}

func (r *memConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.convs)
}

func (r *memConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memConversationRepo) FindByPair(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPair[domain.NewPair(a, b)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.convs[id]
	return &cp, nil
}

func (r *memConversationRepo) Create(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPair[domain.NewPair(a, b)]; ok {
		return nil, domain.ErrConversationExists
	}
	return r.insertLocked(a, b), nil
}

func (r *memConversationRepo) FindOrCreate(ctx context.Context, a, b int64) (*domain.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, false, r.failWith
	}
	if id, ok := r.byPair[domain.NewPair(a, b)]; ok {
		cp := *r.convs[id]
		return &cp, false, nil
	}
	return r.insertLocked(a, b), true, nil
}

func (r *memConversationRepo) insertLocked(a, b int64) *domain.Conversation {
	r.nextID++
	c := &domain.Conversation{ID: r.nextID, ParticipantA: a, ParticipantB: b, CreatedAt: time.Now().UTC()}
	r.convs[c.ID] = c
	r.byPair[c.Pair()] = c.ID
	cp := *c
	return &cp
}

func (r *memConversationRepo) ListForUser(ctx context.Context, userID int64) ([]domain.ConversationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ConversationDetail
	for _, c := range r.convs {
		other, ok := c.OtherParticipant(userID)
		if !ok {
			continue
		}
		d := domain.ConversationDetail{ID: c.ID, OtherParticipant: &domain.PublicUser{ID: other}, CreatedAt: c.CreatedAt}
		if msgs := r.messages[c.ID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			d.LastMessage = &last
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.messages[conversationID]...), nil
}

func (r *memConversationRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convs[msg.ConversationID]; !ok {
		return domain.ErrNotFound
	}
	msg.ID = int64(len(r.messages[msg.ConversationID]) + 1)
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}
