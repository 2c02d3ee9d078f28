package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

// TokenSigner issues a signed bearer token for the given identity.
type TokenSigner func(uid, username, role string, ttl time.Duration) (string, error)

const (
	AccessTokenTTL  = 12 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	store      AuthStore
	signToken  TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AuthResult is the token pair handed back to a logged-in client.
type AuthResult struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	UserID   string `json:"-"`
	Username string `json:"-"`
	Role     string `json:"-"`
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:      store,
		signToken:  signer,
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("username/password required")
	}
	u, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	access, err := s.signToken(u.ID, u.Username, u.Role, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(u.ID, u.Username, u.Role, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Access: access, Refresh: refresh, UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.accessTTL
}

// HashPassword returns the bcrypt hash stored for seeded users.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CanViewReports reports whether role may read responses and reports.
func CanViewReports(role string) bool {
	return role == RoleViewer || role == RoleAdmin
}
