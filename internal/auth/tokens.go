package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/id"
)

const (
	tokenIssuer   = "librarian-server"
	tokenAudience = "librarian-client"
)

// ErrTokenExpired is returned when an otherwise valid token is past its expiry.
var ErrTokenExpired = errors.New("token expired")

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	signingKey          []byte
	accessTokenDuration time.Duration
}

// NewTokenService creates a new token service with the given signing key.
// The key must be exactly 32 bytes.
func NewTokenService(key []byte, accessDuration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("signing key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	return &TokenService{
		signingKey:          key,
		accessTokenDuration: accessDuration,
	}, nil
}

// GenerateAccessToken creates a signed access token for the user.
// The admin flag travels in the claims so request handling never
// re-reads the user row to authorize.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	tokenID, err := id.Generate("tok")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}

	claims := &AccessClaims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenDuration)),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken verifies and parses an access token.
// Returns the claims if valid, ErrTokenExpired for expired tokens,
// or another error for anything else that's wrong with the token.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessTokenDuration
}
