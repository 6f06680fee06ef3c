package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rezo-backend/config"
	"rezo-backend/internal/delivery/http/middleware"
	"rezo-backend/internal/domain"
	"rezo-backend/internal/usecase"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUC struct{ mock.Mock }

func (m *MockAuthUC) Register(ctx context.Context, input *domain.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUC) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthUC) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUC) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUC) GetPublicUser(ctx context.Context, id int64) (*domain.PublicUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAuthUC) UpdateDeviceToken(ctx context.Context, userID int64, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

type MockMatchUC struct{ mock.Mock }

func (m *MockMatchUC) RecordLike(ctx context.Context, userID int64, target domain.MatchTarget) (*domain.MatchResult, error) {
	args := m.Called(ctx, userID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MockMatchUC) ListLikes(ctx context.Context, userID int64, page, pageSize int) ([]domain.Match, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Match), args.Get(1).(int64), args.Error(2)
}

type MockConversationUC struct{ mock.Mock }

func (m *MockConversationUC) ListForUser(ctx context.Context, actorID, userID int64) ([]domain.ConversationDetail, error) {
	args := m.Called(ctx, actorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversationDetail), args.Error(1)
}

func (m *MockConversationUC) ListMessages(ctx context.Context, actorID, conversationID int64) ([]domain.Message, error) {
	args := m.Called(ctx, actorID, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockConversationUC) SendMessage(ctx context.Context, actorID int64, input *domain.SendMessageInput) (*domain.Message, error) {
	args := m.Called(ctx, actorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockConversationUC) CreateDirect(ctx context.Context, actorID, otherUserID int64) (*domain.Conversation, bool, error) {
	args := m.Called(ctx, actorID, otherUserID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Conversation), args.Bool(1), args.Error(2)
}

type MockCatalogUC struct{ mock.Mock }

func (m *MockCatalogUC) CreateOffer(ctx context.Context, actorID, companyID int64, offer *domain.Offer) error {
	return m.Called(ctx, actorID, companyID, offer).Error(0)
}

func (m *MockCatalogUC) GetOffer(ctx context.Context, id int64) (*domain.OfferWithCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfferWithCompany), args.Error(1)
}

func (m *MockCatalogUC) ListOffers(ctx context.Context, page, pageSize int) ([]domain.OfferWithCompany, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.OfferWithCompany), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogUC) ListOffersByCompany(ctx context.Context, companyID int64, page, pageSize int) ([]domain.Offer, int64, error) {
	args := m.Called(ctx, companyID, page, pageSize)
	return args.Get(0).([]domain.Offer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogUC) CreateFormation(ctx context.Context, actorID, universityID int64, formation *domain.Formation) error {
	return m.Called(ctx, actorID, universityID, formation).Error(0)
}

func (m *MockCatalogUC) GetFormation(ctx context.Context, id int64) (*domain.FormationWithUniversity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormationWithUniversity), args.Error(1)
}

func (m *MockCatalogUC) ListFormations(ctx context.Context, page, pageSize int) ([]domain.FormationWithUniversity, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.FormationWithUniversity), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogUC) ListFormationsByUniversity(ctx context.Context, universityID int64, page, pageSize int) ([]domain.Formation, int64, error) {
	args := m.Called(ctx, universityID, page, pageSize)
	return args.Get(0).([]domain.Formation), args.Get(1).(int64), args.Error(2)
}

type MockProfileUC struct{ mock.Mock }

func (m *MockProfileUC) GetMyProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileUC) UpdateMyProfile(ctx context.Context, userID int64, profile domain.Profile) (domain.Profile, error) {
	args := m.Called(ctx, userID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileUC) GetProfile(ctx context.Context, role domain.Role, id int64) (domain.Profile, error) {
	args := m.Called(ctx, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileUC) CreateOrganization(ctx context.Context, actorID int64, profile domain.Profile) (domain.Profile, error) {
	args := m.Called(ctx, actorID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Profile), args.Error(1)
}

type testServer struct {
	router  *gin.Engine
	auth    *MockAuthUC
	match   *MockMatchUC
	conv    *MockConversationUC
	catalog *MockCatalogUC
	profile *MockProfileUC
}

const studentToken = "student-token"

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		auth:    new(MockAuthUC),
		match:   new(MockMatchUC),
		conv:    new(MockConversationUC),
		catalog: new(MockCatalogUC),
		profile: new(MockProfileUC),
	}
	s.auth.On("Authenticate", mock.Anything, studentToken).
		Return(&domain.User{ID: 1, Email: "s@example.com", Role: domain.RoleStudent, IsActive: true}, nil)

	cfg := &config.Config{
		Env:                      "test",
		FrontendURL:              "http://localhost:3000",
		RateLimitWindowSeconds:   60,
		RateLimitLoginThreshold:  2,
		RateLimitGlobalThreshold: 1000,
	}
	s.router = NewRouter(RouterDeps{
		AuthUC:         s.auth,
		ProfileUC:      s.profile,
		CatalogUC:      s.catalog,
		MatchUC:        s.match,
		ConversationUC: s.conv,
		HealthUC:       usecase.NewHealthUsecase(nil),
		RateLimiter:    middleware.NewRateLimiter(nil, audit.Nop()),
		Audit:          audit.Nop(),
		Config:         cfg,
	})
	return s
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer()
	s.auth.On("Authenticate", mock.Anything, "bogus").Return(nil, apperror.Unauthorized("Invalid or expired token"))

	w, _ := s.do(t, http.MethodGet, "/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/v1/auth/me", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecordLikeEndpoint(t *testing.T) {
	t.Run("Creates like and reports the conversation", func(t *testing.T) {
		s := newTestServer()
		convID := int64(3)
		offerID := int64(10)
		s.match.On("RecordLike", mock.Anything, int64(1), domain.OfferTarget{OfferID: 10}).Return(&domain.MatchResult{
			Match:             &domain.Match{ID: 7, UserID: 1, OfferID: &offerID, CreatedAt: time.Now()},
			IsNewConversation: true,
			ConversationID:    &convID,
		}, nil)

		w, env := s.do(t, http.MethodPost, "/v1/matches", studentToken, map[string]any{"offer_id": 10})
		require.Equal(t, http.StatusCreated, w.Code)

		var result domain.MatchResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.True(t, result.IsNewConversation)
		assert.Equal(t, int64(3), *result.ConversationID)
	})

	t.Run("Both targets are rejected before the usecase", func(t *testing.T) {
		s := newTestServer()
		w, _ := s.do(t, http.MethodPost, "/v1/matches", studentToken, map[string]any{"offer_id": 10, "formation_id": 20})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.match.AssertNotCalled(t, "RecordLike", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Neither target is rejected", func(t *testing.T) {
		s := newTestServer()
		w, _ := s.do(t, http.MethodPost, "/v1/matches", studentToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Liking on behalf of someone else is forbidden", func(t *testing.T) {
		s := newTestServer()
		w, _ := s.do(t, http.MethodPost, "/v1/matches", studentToken, map[string]any{"user_id": 2, "offer_id": 10})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Missing offer maps to 404", func(t *testing.T) {
		s := newTestServer()
		s.match.On("RecordLike", mock.Anything, int64(1), domain.OfferTarget{OfferID: 99}).Return(nil, domain.ErrNotFound)

		w, _ := s.do(t, http.MethodPost, "/v1/matches", studentToken, map[string]any{"offer_id": 99})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConversationEndpoints(t *testing.T) {
	t.Run("Other user's inbox is forbidden", func(t *testing.T) {
		s := newTestServer()
		s.conv.On("ListForUser", mock.Anything, int64(1), int64(2)).
			Return(nil, apperror.Forbidden("You can only view your own conversations"))

		w, _ := s.do(t, http.MethodGet, "/v1/users/2/conversations", studentToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Send message returns 201", func(t *testing.T) {
		s := newTestServer()
		s.conv.On("SendMessage", mock.Anything, int64(1), mock.MatchedBy(func(in *domain.SendMessageInput) bool {
			return in.ConversationID == 3 && in.Content == "hello"
		})).Return(&domain.Message{ID: 1, ConversationID: 3, SenderID: 1, Content: "hello", Timestamp: time.Now().UTC()}, nil)

		w, _ := s.do(t, http.MethodPost, "/v1/messages", studentToken, map[string]any{"conversation_id": 3, "content": "hello"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Non participant maps to 403", func(t *testing.T) {
		s := newTestServer()
		s.conv.On("ListMessages", mock.Anything, int64(1), int64(8)).Return(nil, domain.ErrNotParticipant)

		w, _ := s.do(t, http.MethodGet, "/v1/conversations/8/messages", studentToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid id is a bad request", func(t *testing.T) {
		s := newTestServer()
		w, _ := s.do(t, http.MethodGet, "/v1/conversations/abc/messages", studentToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		s := newTestServer()
		s.auth.On("Register", mock.Anything, mock.Anything).
			Return(nil, apperror.Wrap(apperror.Conflict("Email is already registered"), domain.ErrDuplicateEmail))

		w, env := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
			"email": "a@example.com", "password": "password1", "role": "student", "first_name": "A", "last_name": "B",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("Login sets the auth cookie", func(t *testing.T) {
		s := newTestServer()
		s.auth.On("Login", mock.Anything, "a@example.com", "password1").Return(&domain.Session{
			Token: "tok", ExpiresAt: time.Now().Add(time.Hour), User: &domain.User{ID: 1},
		}, nil)

		w, _ := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{"email": "a@example.com", "password": "password1"})
		require.Equal(t, http.StatusOK, w.Code)

		var found bool
		for _, c := range w.Result().Cookies() {
			if c.Name == authCookieName {
				found = true
				assert.Equal(t, "tok", c.Value)
				assert.True(t, c.HttpOnly)
			}
		}
		assert.True(t, found)
	})

	t.Run("Login is rate limited", func(t *testing.T) {
		s := newTestServer()
		s.auth.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

		body := map[string]any{"email": "a@example.com", "password": "wrong"}
		for i := 0; i < 2; i++ {
			w, _ := s.do(t, http.MethodPost, "/v1/auth/login", "", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}
		w, _ := s.do(t, http.MethodPost, "/v1/auth/login", "", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})
}

func TestCatalogEndpoints(t *testing.T) {
	t.Run("Offer list is public and paged", func(t *testing.T) {
		s := newTestServer()
		s.catalog.On("ListOffers", mock.Anything, 2, 5).Return([]domain.OfferWithCompany{}, int64(0), nil)

		w, _ := s.do(t, http.MethodGet, "/v1/offers?page=2&page_size=5", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		s.catalog.AssertExpectations(t)
	})

	t.Run("Create offer passes actor and company", func(t *testing.T) {
		s := newTestServer()
		s.catalog.On("CreateOffer", mock.Anything, int64(1), int64(2), mock.AnythingOfType("*domain.Offer")).Return(nil)

		w, _ := s.do(t, http.MethodPost, "/v1/companies/2/offers", studentToken, map[string]any{"title": "Intern"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer()
	s.profile.On("GetProfile", mock.Anything, domain.RoleUniversity, int64(4)).
		Return(&domain.University{ProfileBase: domain.ProfileBase{ID: 4}}, nil)
	s.profile.On("UpdateMyProfile", mock.Anything, int64(1), mock.AnythingOfType("*domain.Student")).
		Return(&domain.Student{ProfileBase: domain.ProfileBase{ID: 11}}, nil)

	w, _ := s.do(t, http.MethodGet, "/v1/universities/4", studentToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/v1/profile/me", studentToken, map[string]any{"school": "Lycee"})
	assert.Equal(t, http.StatusOK, w.Code)
	s.profile.AssertExpectations(t)
}

func TestCreateOrganizationEndpoint(t *testing.T) {
	t.Run("Ownerless university is created", func(t *testing.T) {
		s := newTestServer()
		s.profile.On("CreateOrganization", mock.Anything, int64(1), mock.MatchedBy(func(p domain.Profile) bool {
			u, ok := p.(*domain.University)
			return ok && u.Name != nil && *u.Name == "Universite de Lyon" && u.UserID == nil
		})).Return(&domain.University{ProfileBase: domain.ProfileBase{ID: 30}}, nil)

		w, _ := s.do(t, http.MethodPost, "/v1/universities", studentToken, map[string]any{"name": "Universite de Lyon"})
		assert.Equal(t, http.StatusCreated, w.Code)
		s.profile.AssertExpectations(t)
	})

	t.Run("Company owner is passed through", func(t *testing.T) {
		s := newTestServer()
		s.profile.On("CreateOrganization", mock.Anything, int64(1), mock.MatchedBy(func(p domain.Profile) bool {
			c, ok := p.(*domain.Company)
			return ok && c.UserID != nil && *c.UserID == 1
		})).Return(nil, apperror.Conflict("User already owns an organization"))

		w, _ := s.do(t, http.MethodPost, "/v1/companies", studentToken, map[string]any{"name": "Acme", "user_id": 1})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Students cannot be created directly", func(t *testing.T) {
		s := newTestServer()
		w, _ := s.do(t, http.MethodPost, "/v1/students", studentToken, map[string]any{"school": "Lycee"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPagingCapsHugePage(t *testing.T) {
	s := newTestServer()
	s.catalog.On("ListOffers", mock.Anything, 1_000_000, 10).Return([]domain.OfferWithCompany{}, int64(0), nil)

	w, _ := s.do(t, http.MethodGet, "/v1/offers?page=9223372036854775807", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	s.catalog.AssertExpectations(t)
}
