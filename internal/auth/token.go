package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and verifies the signed JWTs that carry identity
// facts between the session boundary and the core.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate issues a signed JWT for the given user.
func (t *TokenManager) Generate(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  t.issuer,
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a token string and returns the identity facts it carries.
func (t *TokenManager) Verify(tokenString string) (entity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return entity.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Identity{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := entity.Role(roleStr)
	if sub == "" || !role.Valid() {
		return entity.Identity{}, ErrInvalidToken
	}

	return entity.Identity{UserID: sub, Role: role}, nil
}
