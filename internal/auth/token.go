package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "fintrack"

var ErrInvalidToken = errors.New("invalid session token")

// Claims identify a session. The token alone never authorizes a request: the
// session it names must still be active in the database.
type Claims struct {
	SessionID string
	UserID    int
	ExpiresAt time.Time
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token for sessionID that expires after the manager's TTL.
func (m *TokenManager) Issue(sessionID string, userID int) (string, Claims, error) {
	now := m.now()
	claims := Claims{SessionID: sessionID, UserID: userID, ExpiresAt: now.Add(m.ttl).Truncate(time.Second)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   strconv.Itoa(userID),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature, issuer and expiry of tokenString.
func (m *TokenManager) Parse(tokenString string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &rc, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.Atoi(rc.Subject)
	if err != nil || userID <= 0 {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	if _, err := uuid.Parse(rc.ID); err != nil {
		return Claims{}, fmt.Errorf("%w: bad session id", ErrInvalidToken)
	}
	return Claims{SessionID: rc.ID, UserID: userID, ExpiresAt: rc.ExpiresAt.Time}, nil
}
