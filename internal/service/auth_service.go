package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService handles signup, login and token validation. Tokens are HS256
// JWTs carrying the user and tenant identity.
type AuthService struct {
	users  domain.UserRepository
	jwtCfg config.JWTConfig
	now    func() time.Time
}

func NewAuthService(users domain.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		users:  users,
		jwtCfg: jwtCfg,
		now:    time.Now,
	}
}

// Signup creates a new account. Emails are unique per tenant; the same email
// can exist in two different tenants.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.UserResponse, error) {
	if err := validateSignupRequest(&req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetByEmail(ctx, req.TenantID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicateUserError()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:             util.NewULID(),
		TenantID:       req.TenantID,
		Email:          email,
		HashedPassword: string(hashed),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsActive:       true,
		CreatedAt:      s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Get().Info("user signed up",
		zap.String("user_id", user.ID),
		zap.String("tenant_id", user.TenantID))

	return userResponse(user), nil
}

// Login verifies the credentials and issues an access token. A missing user
// and a wrong password produce the same error so responses do not reveal
// which emails exist.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.TenantID == "" {
		return nil, domain.NewInvalidCredentialsError()
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, req.TenantID, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, domain.NewInvalidCredentialsError()
	}
	if !user.IsActive {
		return nil, domain.NewUnauthorizedError("user account is inactive")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign token", err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtCfg.AccessTokenTTL.Seconds()),
		User:        *userResponse(user),
	}, nil
}

// ValidateToken parses and verifies an access token, returning the identity
// claims.
func (s *AuthService) ValidateToken(tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.NewUnauthorizedError("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	if userID == "" || tenantID == "" {
		return nil, domain.NewUnauthorizedError("token is missing identity claims")
	}

	return &dto.AuthClaims{UserID: userID, TenantID: tenantID}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"iat":       now.Unix(),
		"exp":       now.Add(s.jwtCfg.AccessTokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func validateSignupRequest(req *dto.SignupRequest) error {
	var errs domain.ValidationErrors
	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	} else if !strings.Contains(email, "@") {
		errs = append(errs, domain.NewInvalidFormatError("email", email))
	}
	if len(req.Password) < minPasswordLength {
		errs = append(errs, domain.ValidationFieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		})
	}
	if strings.TrimSpace(req.TenantID) == "" {
		errs = append(errs, domain.NewMissingFieldError("tenant_id"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func userResponse(user *domain.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		TenantID:  user.TenantID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}
