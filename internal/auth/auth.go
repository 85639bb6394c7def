// Package auth issues and verifies the API's JWT access and refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"esgboard/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

type Claims struct {
	Type     string `json:"typ"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

// Issued is a freshly signed token.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewManager(conf config.AuthConfig) *Manager {
	return &Manager{
		accessSecret:  []byte(conf.AccessSecret),
		refreshSecret: []byte(conf.RefreshSecret),
		accessTTL:     conf.AccessTTL,
		refreshTTL:    conf.RefreshTTL,
		now:           time.Now,
	}
}

func (m *Manager) IssueAccess(userID uint, username string) (Issued, error) {
	return m.issue(typeAccess, userID, username, m.accessTTL, m.accessSecret)
}

// IssueRefresh signs a refresh token. Its ID must be stored so the token can
// be rotated and revoked.
func (m *Manager) IssueRefresh(userID uint) (Issued, error) {
	return m.issue(typeRefresh, userID, "", m.refreshTTL, m.refreshSecret)
}

func (m *Manager) issue(typ string, userID uint, username string, ttl time.Duration, secret []byte) (Issued, error) {
	now := m.now()
	exp := now.Add(ttl)
	id := uuid.NewString()
	claims := Claims{
		Type:     typ,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return Issued{Token: signed, ID: id, ExpiresAt: exp}, nil
}

func (m *Manager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, typeAccess, m.accessSecret)
}

func (m *Manager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, typeRefresh, m.refreshSecret)
}

func (m *Manager) parse(token, typ string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Type != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
