package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mineart/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Credential is one back-office account.
type Credential struct {
	UserID       string
	Username     string
	PasswordHash string
}

// CredentialStore abstracts where admin credentials live. The current
// deployment has exactly one account, held in process configuration; the
// interface keeps the door open for a real account collection later.
type CredentialStore interface {
	Lookup(username string) (*Credential, error)
}

type envCredentialStore struct {
	cred Credential
}

// NewEnvCredentialStore builds a single-account store from configuration.
// The configured hash omits the bcrypt prefix; it is prepended here.
func NewEnvCredentialStore(cfg config.AdminConfig) CredentialStore {
	return &envCredentialStore{
		cred: Credential{
			UserID:       cfg.UserID,
			Username:     cfg.Username,
			PasswordHash: "$2a$12$" + cfg.PasswordHash,
		},
	}
}

func (s *envCredentialStore) Lookup(username string) (*Credential, error) {
	if username != s.cred.Username {
		return nil, ErrInvalidCredentials
	}
	cred := s.cred
	return &cred, nil
}

// Claims represents the admin session JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService defines the admin authentication logic
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	store  CredentialStore
	secret string
	expiry time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(store CredentialStore, secret string, expiryHours int) AuthService {
	if expiryHours <= 0 {
		expiryHours = 12
	}
	return &authService{
		store:  store,
		secret: secret,
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Login checks the credential and issues a signed session token. Wrong
// username and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	cred, err := s.store.Lookup(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		UserID: cred.UserID,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and verifies a session token
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
