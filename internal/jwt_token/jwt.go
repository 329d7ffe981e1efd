// Package jwttoken issues and validates the bearer tokens that identify the
// requesting user on the HTTP API. Tokens are HS256 and carry the numeric
// corpstats user id in the user_id claim.
package jwttoken

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
)

// Claims is the payload of a corpstats access token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies access tokens with one shared key.
type JWTService struct {
	key      []byte
	issuer   string
	audience string
	parser   *jwt.Parser
}

func NewJWTService(signingKey, issuer, audience string) *JWTService {
	return &JWTService{
		key:      []byte(signingKey),
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateAccessToken mints a token for userID. The token command uses it for
// development access; deployed front ends sign with the same key.
func (s *JWTService) GenerateAccessToken(userID id.UserID, expiresIn time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := Claims{UserID: strconv.FormatInt(int64(userID), 10)}
	claims.ID = uuid.NewString()
	claims.Issuer = s.issuer
	claims.Audience = jwt.ClaimStrings{s.audience}
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(expiresIn))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign access token")
	}
	return signed, nil
}

func (s *JWTService) keyFunc(*jwt.Token) (any, error) {
	return s.key, nil
}

// ValidateToken verifies signature, issuer, audience and expiry. Every
// failure is CodeUnauthorized.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, s.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// UserID validates raw and returns the user it names.
func (s *JWTService) UserID(raw string) (id.UserID, error) {
	claims, err := s.ValidateToken(raw)
	if err != nil {
		return 0, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return userID, nil
}
