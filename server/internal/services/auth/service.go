package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrUnauthorized is returned for missing, malformed or expired tokens
var ErrUnauthorized = errors.New("unauthorized")

// Service issues and validates bearer tokens for the gateway.
// With an empty secret auth is disabled and every request is allowed.
type Service struct {
	jwtSecret string
	ttl       time.Duration
}

// Claims represents JWT claims
type Claims struct {
	Client string `json:"client"`
	jwt.StandardClaims
}

// New creates a new auth service
func New(jwtSecret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: jwtSecret,
		ttl:       ttl,
	}
}

// Enabled reports whether requests must carry a token
func (s *Service) Enabled() bool {
	return s.jwtSecret != ""
}

// CreateToken creates a new JWT token for a client name
func (s *Service) CreateToken(client string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("auth is disabled: no JWT secret configured")
	}
	if client == "" {
		return "", fmt.Errorf("client name cannot be empty")
	}

	now := time.Now()
	claims := &Claims{
		Client: client,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken validates and parses a JWT token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	return claims, nil
}
