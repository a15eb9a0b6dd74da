package service

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/myidentityapi/backend-go/internal/config"
	"github.com/myidentityapi/backend-go/internal/database/models"
)

// TokenService issues and parses short-lived signed access tokens. It is
// stateless: verification needs only the signing key, never the store.
type TokenService interface {
	Generate(user *models.User) (string, time.Time, error)
	Parse(tokenString string) (*AccessClaims, error)
}

// AccessClaims is the claim set embedded in every access token. The jti claim
// makes two tokens issued for the same user in the same second distinct.
type AccessClaims struct {
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
	logger   *slog.Logger
}

// NewTokenService creates a new access token service instance. The caller is
// expected to have validated the config; an empty secret here is a
// programming error, not a runtime condition.
func NewTokenService(cfg *config.Config, logger *slog.Logger) TokenService {
	return &tokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		expiry:   time.Duration(cfg.AccessTokenExpiryMinutes) * time.Minute,
		logger:   logger,
	}
}

func (s *tokenService) Generate(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("❌ [TokenService] Failed to sign access token", "error", err)
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *tokenService) Parse(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// A valid signature with no subject is still unusable.
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Service errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)
