package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	UID  string    `json:"uid"`
	Role string    `json:"role"` // "admin" or "supplier"
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration // access token
	RefreshTTL time.Duration
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issue 签发 access token
func (j *JWTer) Issue(uid, role string) (string, error) {
	return j.issue(uid, role, TokenAccess, j.TTL)
}

func (j *JWTer) IssuePair(uid, role string) (TokenPair, error) {
	access, err := j.issue(uid, role, TokenAccess, j.TTL)
	if err != nil {
		return TokenPair{}, err
	}
	ttl := j.RefreshTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	refresh, err := j.issue(uid, role, TokenRefresh, ttl)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWTer) issue(uid, role string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.UID != "" {
		return c, nil
	}
	return nil, ErrInvalidToken
}

// ParseAccess refresh token 不能当 access 用，反之亦然
func (j *JWTer) ParseAccess(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TokenAccess)
}

func (j *JWTer) ParseRefresh(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TokenRefresh)
}

func (j *JWTer) parseTyped(tokenStr string, want TokenType) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Type != want {
		return nil, ErrWrongTokenType
	}
	return c, nil
}
