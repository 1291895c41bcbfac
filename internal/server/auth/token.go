// Package auth issues and verifies bearer tokens, attaches the caller
// identity to requests and decides resource ownership.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and checks HS256 identity tokens. It holds no state
// besides the key, so one instance is shared by all requests.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity, now: time.Now}
}

// Issue returns a signed token for subject. Extra claims are copied first so
// that sub, iat and exp cannot be overridden by them.
func (s *TokenService) Issue(subject string, extra map[string]any) (string, error) {
	now := s.now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.validity))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ExtractSubject checks the token structure and signature and returns its
// subject. Expiry is not checked; use IsValid for that.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return sub, nil
}

// IsValid reports whether token belongs to expectedSubject and has not
// expired yet.
func (s *TokenService) IsValid(token, expectedSubject string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" || sub != expectedSubject {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.After(s.now())
}

func (s *TokenService) parse(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}
