// Package auth handles token issuance/verification and password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotRefresh   = errors.New("not a refresh token")
)

// TokenPair is the access/refresh pair handed out on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID    uuid.UUID
	IsAdmin   bool
	tokenType string
}

// IssueTokenPair signs an access and a refresh token for the account.
func IssueTokenPair(secret string, userID uuid.UUID, isAdmin bool, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	access, err := issue(secret, userID, isAdmin, tokenTypeAccess, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := issue(secret, userID, isAdmin, tokenTypeRefresh, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccess exchanges a valid refresh token for a new access token.
func RefreshAccess(secret, refreshToken string, accessTTL time.Duration) (string, error) {
	claims, err := Parse(secret, refreshToken)
	if err != nil {
		return "", err
	}
	if claims.tokenType != tokenTypeRefresh {
		return "", ErrNotRefresh
	}
	return issue(secret, claims.UserID, claims.IsAdmin, tokenTypeAccess, accessTTL)
}

// ParseAccess verifies an access token and returns its claims. Refresh
// tokens are rejected so they cannot be replayed against protected
// endpoints.
func ParseAccess(secret, token string) (*Claims, error) {
	claims, err := Parse(secret, token)
	if err != nil {
		return nil, err
	}
	if claims.tokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Parse verifies signature and expiry and extracts the claims.
func Parse(secret, token string) (*Claims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	isAdmin, _ := mc["adm"].(bool)
	tokenType, _ := mc["typ"].(string)
	return &Claims{UserID: userID, IsAdmin: isAdmin, tokenType: tokenType}, nil
}

func issue(secret string, userID uuid.UUID, isAdmin bool, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"adm": isAdmin,
		"typ": tokenType,
		"exp": time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
