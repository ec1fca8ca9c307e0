package service

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(users *MockUserRepository) *AuthService {
	return NewAuthService(users, config.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: time.Hour,
	})
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, "acme", "alex@example.com").Return(nil, nil)
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "alex@example.com" &&
				u.TenantID == "acme" &&
				u.IsActive &&
				u.HashedPassword != "" &&
				u.HashedPassword != "hunter2secret"
		})).Return(nil)

		resp, err := svc.Signup(context.Background(), dto.SignupRequest{
			Email:    "Alex@Example.com",
			Password: "hunter2secret",
			TenantID: "acme",
		})
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", resp.Email)
		users.AssertExpectations(t)
	})

	t.Run("rejects a duplicate email within the tenant", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, "acme", "alex@example.com").
			Return(&domain.User{ID: "existing"}, nil)

		_, err := svc.Signup(context.Background(), dto.SignupRequest{
			Email:    "alex@example.com",
			Password: "hunter2secret",
			TenantID: "acme",
		})

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeDuplicateUser, domainErr.Code)
	})

	t.Run("validates the request fields", func(t *testing.T) {
		svc := newAuthService(new(MockUserRepository))

		_, err := svc.Signup(context.Background(), dto.SignupRequest{
			Email:    "not-an-email",
			Password: "short",
		})

		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs, 3)
	})
}

func TestLogin(t *testing.T) {
	activeUser := func(t *testing.T) *domain.User {
		return &domain.User{
			ID:             "user-1",
			TenantID:       "acme",
			Email:          "alex@example.com",
			HashedPassword: hashedPassword(t, "hunter2secret"),
			IsActive:       true,
		}
	}

	t.Run("issues a token carrying user and tenant", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)
		users.On("GetByEmail", mock.Anything, "acme", "alex@example.com").Return(activeUser(t), nil)

		resp, err := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "alex@example.com",
			Password: "hunter2secret",
			TenantID: "acme",
		})
		require.NoError(t, err)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 3600, resp.ExpiresIn)

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "acme", claims.TenantID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)
		users.On("GetByEmail", mock.Anything, "acme", "alex@example.com").Return(activeUser(t), nil)
		users.On("GetByEmail", mock.Anything, "acme", "nobody@example.com").Return(nil, nil)

		_, wrongPassword := svc.Login(context.Background(), dto.LoginRequest{
			Email: "alex@example.com", Password: "wrong-password", TenantID: "acme",
		})
		_, unknownEmail := svc.Login(context.Background(), dto.LoginRequest{
			Email: "nobody@example.com", Password: "hunter2secret", TenantID: "acme",
		})

		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("rejects an inactive user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)
		user := activeUser(t)
		user.IsActive = false
		users.On("GetByEmail", mock.Anything, "acme", "alex@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Email: "alex@example.com", Password: "hunter2secret", TenantID: "acme",
		})

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})
}

func TestValidateToken(t *testing.T) {
	svc := newAuthService(new(MockUserRepository))

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		issuer := newAuthService(new(MockUserRepository))
		issuer.jwtCfg.AccessTokenTTL = -time.Hour
		token, err := issuer.generateToken(&domain.User{ID: "user-1", TenantID: "acme"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := NewAuthService(new(MockUserRepository), config.JWTConfig{
			SecretKey:      "different-secret",
			AccessTokenTTL: time.Hour,
		})
		token, err := other.generateToken(&domain.User{ID: "user-1", TenantID: "acme"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
