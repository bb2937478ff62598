package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/repository"
	"zenith-pos/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// UserService defines the interface for operator business logic
type UserService interface {
	Login(ctx context.Context, name, password string) (token string, user domain.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	Create(ctx context.Context, name string) (domain.User, error)
	List(ctx context.Context, cursor string, limit int) (store.Page[domain.User], error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

// Claims identifies the operator a token was issued to. Tokens carry no
// expiry; a terminal stays signed in until it logs out.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, jwtSecret string) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Login authenticates an operator by name and returns a signed token together
// with the operator stripped of its password.
func (s *userService) Login(ctx context.Context, name, password string) (string, domain.User, error) {
	if name == "" || password == "" {
		return "", domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	if err := s.userRepo.EnsureSeed(ctx); err != nil {
		return "", domain.User{}, err
	}

	user, err := s.userRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.Password, password); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user.Public(), nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	return claims, nil
}

// Create registers an operator by name only. Such operators cannot log in
// until a password is provisioned out of band.
func (s *userService) Create(ctx context.Context, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	user, err := s.userRepo.Create(ctx, domain.User{Name: name})
	if err != nil {
		return domain.User{}, err
	}
	return user.Public(), nil
}

// List returns a page of operators without their password hashes.
func (s *userService) List(ctx context.Context, cursor string, limit int) (store.Page[domain.User], error) {
	if err := s.userRepo.EnsureSeed(ctx); err != nil {
		return store.Page[domain.User]{}, err
	}
	page, err := s.userRepo.List(ctx, cursor, limit)
	if err != nil {
		return store.Page[domain.User]{}, err
	}
	for i := range page.Items {
		page.Items[i] = page.Items[i].Public()
	}
	return page, nil
}

func (s *userService) Delete(ctx context.Context, id string) (bool, error) {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids required", domain.ErrValidation)
	}
	return s.userRepo.DeleteMany(ctx, ids)
}

// verifyPassword verifies a password against a bcrypt hash
func (s *userService) verifyPassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return domain.ErrInvalidCredentials
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// generateToken signs an HS256 token naming the operator
func (s *userService) generateToken(user domain.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
