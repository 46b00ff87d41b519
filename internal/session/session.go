// Package session issues and validates the signed bearer tokens that
// identify a signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session token revoked")
)

const revokedPrefix = "session:revoked:"

// Claims is the JWT payload
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Caller is the authenticated identity attached to a request
type Caller struct {
	UserID    primitive.ObjectID
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// Manager signs, parses and revokes session tokens
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	store  cache.Cache
	now    func() time.Time
}

func NewManager(cfg config.AuthConfig, store cache.Cache) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.SessionTTL(),
		store:  store,
		now:    time.Now,
	}
}

// Issue signs a new HS256 token for user
func (m *Manager) Issue(user *model.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		Name:  user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates tokenString and rejects revoked tokens
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	uid, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := m.store.Exists(ctx, revokedPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	return &Caller{
		UserID:    uid,
		Email:     claims.Email,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blacklists the caller's token until it would have expired anyway
func (m *Manager) Revoke(ctx context.Context, caller *Caller) error {
	ttl := caller.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.store.Set(ctx, revokedPrefix+caller.TokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
