package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"studentfolio/internal/config"
)

// ErrInvalidToken 表示令牌无法通过校验。
var ErrInvalidToken = errors.New("invalid token")

// AuthService 校验外部认证服务签发的访问令牌。
// 配置了 JWKS 地址时按 kid 取公钥校验（RS256/ES256），否则使用共享密钥校验 HS256。
type AuthService struct {
	secret   []byte
	jwks     *keyfunc.JWKS
	audience string
	parser   *jwt.Parser
}

// TokenClaims 表示 JWT 中的业务字段，Subject 为用户 UUID。
type TokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID 解析 Subject 中的用户 ID。
func (c *TokenClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse subject: %w", err)
	}
	return id, nil
}

// NewAuthService 根据配置构造校验器。使用 JWKS 时会在后台定期刷新密钥，需调用 Close 释放。
func NewAuthService(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (*AuthService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &AuthService{audience: cfg.Audience}
	methods := []string{jwt.SigningMethodHS256.Alg()}

	if url := strings.TrimSpace(cfg.JWKSURL); url != "" {
		jwks, err := keyfunc.Get(url, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("refresh jwks failed", slog.String("url", url), slog.Any("error", err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		s.jwks = jwks
		methods = []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg()}
	} else {
		if cfg.JWTSecret == "" {
			return nil, errors.New("jwt secret or jwks url is required")
		}
		s.secret = []byte(cfg.JWTSecret)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	s.parser = jwt.NewParser(opts...)

	return s, nil
}

// ValidateToken 解析并验证 JWT。
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	token, err := s.parser.ParseWithClaims(tokenString, &TokenClaims{}, s.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

func (s *AuthService) keyfunc(token *jwt.Token) (interface{}, error) {
	if s.jwks != nil {
		return s.jwks.Keyfunc(token)
	}
	return s.secret, nil
}

// Close 停止 JWKS 后台刷新。
func (s *AuthService) Close() {
	if s.jwks != nil {
		s.jwks.EndBackground()
	}
}

// IssueToken 使用共享密钥签发 HS256 访问令牌，供本地开发与测试使用。
func IssueToken(secret string, userID uuid.UUID, email, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
