package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/util"
)

type mockAdminSessionRepo struct {
	mock.Mock
}

func (m *mockAdminSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminSession), args.Error(1)
}

func (m *mockAdminSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminSession), args.Error(1)
}

func (m *mockAdminSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockAdminSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

const (
	testPasswordHash = "$2b$12$abcdefghijklmnopqrstuv"
	testSecret       = "test-session-secret"
)

func runSessionMiddleware(repo *mockAdminSessionRepo, cookie *http.Cookie, passwordHash string) (*httptest.ResponseRecorder, bool) {
	m := NewAdminSessionMiddleware(repo, passwordHash, testSecret)

	reached := false
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestAdminSessionMiddleware(t *testing.T) {
	t.Run("valid session passes through with context", func(t *testing.T) {
		repo := new(mockAdminSessionRepo)
		session := &model.AdminSession{ID: 1, ExpiresAt: time.Now().Add(time.Hour)}
		repo.On("FindByTokenHash", mock.Anything, util.HmacSHA256(testSecret, "tok")).Return(session, nil)

		rec, reached := runSessionMiddleware(repo, &http.Cookie{Name: AdminSessionCookie, Value: "tok"}, testPasswordHash)

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		rec, reached := runSessionMiddleware(new(mockAdminSessionRepo), nil, testPasswordHash)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		repo := new(mockAdminSessionRepo)
		repo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, nil)

		rec, reached := runSessionMiddleware(repo, &http.Cookie{Name: AdminSessionCookie, Value: "bad"}, testPasswordHash)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unconfigured admin is unavailable", func(t *testing.T) {
		rec, reached := runSessionMiddleware(new(mockAdminSessionRepo), &http.Cookie{Name: AdminSessionCookie, Value: "tok"}, "")

		assert.False(t, reached)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("database error is a server error", func(t *testing.T) {
		repo := new(mockAdminSessionRepo)
		repo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		rec, reached := runSessionMiddleware(repo, &http.Cookie{Name: AdminSessionCookie, Value: "tok"}, testPasswordHash)

		assert.False(t, reached)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetAdminSession(t *testing.T) {
	t.Run("returns nil without a session", func(t *testing.T) {
		assert.Nil(t, GetAdminSession(context.Background()))
	})

	t.Run("returns the stored session", func(t *testing.T) {
		session := &model.AdminSession{ID: 7}
		ctx := context.WithValue(context.Background(), AdminSessionContextKey, session)
		assert.Equal(t, session, GetAdminSession(ctx))
	})
}
