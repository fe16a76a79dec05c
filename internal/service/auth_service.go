package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/dto"
	"birdsong-quiz/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const TokenTypeAccess = "access"

var ErrInvalidJWTToken = errors.New("invalid JWT token")

// AuthService issues and validates bearer tokens. Accounts live outside this service;
// tokens only carry the user id and contributor roles.
type AuthService interface {
	CreateJWT(claims dto.AuthClaims, ttl time.Duration) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	cfg config.AuthConfig
}

// NewAuthService creates a new instance of authServiceImpl
func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authServiceImpl{cfg: cfg}
}

func (s *authServiceImpl) CreateJWT(claims dto.AuthClaims, ttl time.Duration) (string, error) {
	if claims.UserID == "" {
		return "", errors.New("user id is required")
	}
	if claims.TokenType == "" {
		claims.TokenType = TokenTypeAccess
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Subject:   claims.UserID,
		Issuer:    s.cfg.Issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%w: token type %q is not accepted", ErrInvalidJWTToken, claims.TokenType)
	}
	return claims, nil
}
