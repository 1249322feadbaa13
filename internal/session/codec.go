// Package session mints and verifies the signed session tokens carried in the
// dashboard's "token" cookie, and optionally tracks revoked token IDs.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of a freshly minted token.
const DefaultTTL = 2 * time.Hour

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrEmptySecret is returned when a codec is built without a signing secret.
	ErrEmptySecret = errors.New("session: signing secret is empty")
)

// Claims is the JWT payload. userId mirrors sub as a number for clients.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// Token is a signed session token together with its metadata.
type Token struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the verified content of a token.
type Identity struct {
	UserID    int64
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Codec signs and verifies HS256 session tokens with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewCodec builds a Codec. A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration, now func() time.Time) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
		newID:  uuid.NewString,
	}, nil
}

// WithTokenIDs replaces the jti generator. Intended for tests.
func (c *Codec) WithTokenIDs(next func() string) *Codec {
	if next != nil {
		c.newID = next
	}
	return c
}

// TTL reports how long minted tokens stay valid.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint signs a token for the given user and role.
func (c *Codec) Mint(userID int64, role string) (Token, error) {
	if userID <= 0 || strings.TrimSpace(role) == "" {
		return Token{}, fmt.Errorf("session: mint requires a user id and role")
	}

	issued := c.now().Truncate(time.Second)
	expires := issued.Add(c.ttl)
	id := c.newID()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        id,
		},
		UserID: userID,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("signing session token: %w", err)
	}

	return Token{Value: signed, ID: id, IssuedAt: issued, ExpiresAt: expires}, nil
}

// Verify checks signature, algorithm, expiry and claim consistency.
// Every failure wraps ErrInvalidToken.
func (c *Codec) Verify(token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return Identity{}, fmt.Errorf("%w: subject does not match user id", ErrInvalidToken)
	}
	if claims.Role == "" {
		return Identity{}, fmt.Errorf("%w: missing role", ErrInvalidToken)
	}

	return Identity{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
