package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	confirmationAudience = "email-confirmation"
	accessAudience       = "api-access"
)

// JWTService signs and verifies the email confirmation and API access tokens.
type JWTService struct {
	secret    []byte
	ttl       time.Duration
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTService creates a token service. ttl bounds confirmation links,
// accessTTL bounds the tokens handed out at login.
func NewJWTService(secret string, ttl, accessTTL time.Duration) *JWTService {
	return &JWTService{
		secret:    []byte(secret),
		ttl:       ttl,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// AccessTTL is the lifetime of tokens from GenerateAccessToken.
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// AccessClaims identify the account an access token was issued to.
type AccessClaims struct {
	Username string `json:"username"`
	gojwt.RegisteredClaims
}

// GenerateConfirmationToken returns a token whose subject is the username.
func (s *JWTService) GenerateConfirmationToken(username string) (string, error) {
	claims := gojwt.RegisteredClaims{Subject: username}
	s.stamp(&claims, confirmationAudience, s.ttl)
	return s.sign(claims)
}

// ParseConfirmationToken returns the username carried by a valid token.
func (s *JWTService) ParseConfirmationToken(token string) (string, error) {
	var claims gojwt.RegisteredClaims
	if err := s.parse(token, confirmationAudience, &claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// GenerateAccessToken signs a token for an authenticated user.
func (s *JWTService) GenerateAccessToken(userID int64, username string) (string, error) {
	claims := AccessClaims{
		Username:         username,
		RegisteredClaims: gojwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
	}
	s.stamp(&claims.RegisteredClaims, accessAudience, s.accessTTL)
	return s.sign(claims)
}

func (s *JWTService) stamp(claims *gojwt.RegisteredClaims, audience string, ttl time.Duration) {
	now := s.now()
	claims.Audience = gojwt.ClaimStrings{audience}
	claims.IssuedAt = gojwt.NewNumericDate(now)
	claims.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
}

func (s *JWTService) sign(claims gojwt.Claims) (string, error) {
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// parse checks signature, audience and expiry; the audience keeps a
// confirmation link from being used as an access token and back.
func (s *JWTService) parse(token, audience string, claims gojwt.Claims) error {
	_, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithAudience(audience),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
