package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zawamu/models"
	"zawamu/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

type UserRepository interface {
	Create(ctx context.Context, name, email, hashedPassword string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type Service struct {
	users UserRepository
	jwt   *JWTManager
}

func NewService(users UserRepository, jwt *JWTManager) *Service {
	return &Service{users: users, jwt: jwt}
}

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserSummary `json:"user"`
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password both report ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(u.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.jwt.Generate(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      models.UserSummary{ID: u.ID.Hex(), Name: u.Name, Email: u.Email},
	}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Register creates an admin account. It is not routed over HTTP.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("all fields are required")
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, name, email, hashed)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailInUse
	}
	return u, err
}

func (s *Service) Tokens() *JWTManager { return s.jwt }
