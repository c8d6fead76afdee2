package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/nimasrn/bizledger/pkg/prom"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(raw string) (uuid.UUID, error)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string         `json:"token"`
	User  model.Identity `json:"user"`
}

type AuthService struct {
	users      UserRepository
	tokens     TokenIssuer
	throttle   *LoginThrottle
	bcryptCost int
}

// NewAuthService wires the auth flow. throttle may be nil to disable login
// rate limiting.
func NewAuthService(users UserRepository, tokens TokenIssuer, throttle *LoginThrottle) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		throttle:   throttle,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost lowers hashing cost, used by tests.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		prom.IncAuthAttempt("register", "email_taken")
		return nil, ErrEmailTaken
	}
	if err = mapRepoErr(err, "find user"); !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return nil, mapRepoErr(err, "create user")
	}

	prom.IncAuthAttempt("register", "success")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Check(ctx, req.Email); err != nil {
			prom.IncAuthAttempt("login", "throttled")
			return nil, err
		}
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err = mapRepoErr(err, "find user"); !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, s.rejectLogin(ctx, req.Email)
	}

	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.rejectLogin(ctx, req.Email)
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, req.Email)
	}
	prom.IncAuthAttempt("login", "success")
	return s.issue(user)
}

func (s *AuthService) rejectLogin(ctx context.Context, email string) error {
	if s.throttle != nil {
		s.throttle.Fail(ctx, email)
	}
	prom.IncAuthAttempt("login", "invalid")
	return ErrInvalidCredentials
}

// Authenticate resolves a bearer token to an active user's identity.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*model.Identity, error) {
	id, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, errors.Wrap(ErrNotAuthorized, err.Error())
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err = mapRepoErr(err, "find user"); errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(ErrNotAuthorized, "unknown user")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.Wrap(ErrNotAuthorized, "inactive user")
	}

	identity := user.Identity()
	return &identity, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		logger.Error("failed to issue token", "user", user.ID, "error", err)
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Identity()}, nil
}
