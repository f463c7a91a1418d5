package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT plus its expiry, returned to the client.
type AccessToken struct {
	Token   string
	Expires time.Time
}

// RefreshToken carries the raw secret handed to the client; only its hash
// is stored server side.
type RefreshToken struct {
	Raw     string
	Expires time.Time
}

// Claims are the parsed access-token claims the middleware injects into the
// request context.
type Claims struct {
	UserID   uint
	Username string
	IsStaff  bool
}

// NewAccessToken issues an HS256 access token for the user.
func NewAccessToken(secret string, userID uint, username string, isStaff bool, ttl time.Duration) (AccessToken, error) {
	exp := time.Now().Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"staff":    isStaff,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Expires: exp}, nil
}

// ParseAccessToken validates the token signature and expiry and extracts
// the claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{UserID: uint(id)}
	if username, ok := mc["username"].(string); ok {
		claims.Username = username
	}
	if staff, ok := mc["staff"].(bool); ok {
		claims.IsStaff = staff
	}
	return claims, nil
}

// NewRefreshToken generates a random opaque refresh token.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw:     hex.EncodeToString(buf),
		Expires: time.Now().Add(ttl),
	}, nil
}

// HashRefreshToken returns the hex SHA-256 of the raw refresh token; the
// raw value never touches storage.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
