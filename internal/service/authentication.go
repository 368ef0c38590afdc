package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cache"
	"storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	blacklistKeyPrefix = "token_blacklist:"
)

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
	newTokenID      = func() string { return uuid.NewString() }
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登入時發行的一組 access / refresh token
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenConfig 簽章金鑰與兩種 token 的存活時間
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService 發行、驗證與撤銷 HS256 JWT；撤銷的 refresh token 以 jti 記錄在快取黑名單
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	cache      cache.Cache
}

func NewTokenService(cfg TokenConfig, c cache.Cache) (*TokenService, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		cache:      c,
	}, nil
}

// AccessTTL access token 存活時間
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) sign(userID int64, username string, role model.Role, tokenType string, ttl time.Duration) (string, error) {
	now := timeNow()
	claims := CustomClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newTokenID(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// IssueAccessToken 依據使用者資訊產生短效 access token
func (s *TokenService) IssueAccessToken(user model.User) (string, error) {
	return s.sign(user.ID, user.Username, user.Role, TokenTypeAccess, s.accessTTL)
}

// IssueTokens 登入成功後發行 access + refresh token
func (s *TokenService) IssueTokens(user model.User) (TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, user.Username, user.Role, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// parse 驗證簽章、演算法、期限與 token 類型
func (s *TokenService) parse(tokenString, tokenType string) (*CustomClaims, error) {
	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccessToken 驗證並解析 access token
func (s *TokenService) VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

func blacklistKey(jti string) string {
	return blacklistKeyPrefix + jti
}

func (s *TokenService) revoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.cache.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

// Refresh 以未撤銷的 refresh token 換發新的 access token
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	revoked, err := s.revoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrInvalidToken
	}
	return s.sign(claims.UserID, claims.Username, claims.Role, TokenTypeAccess, s.accessTTL)
}

// Revoke 將 refresh token 加入黑名單，保存到 token 原本的到期時間。
// ownerID 不為 0 時 token 必須屬於該使用者；重複撤銷視為無效 token。
func (s *TokenService) Revoke(ctx context.Context, refreshToken string, ownerID int64) error {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return err
	}
	if ownerID != 0 && claims.UserID != ownerID {
		return ErrInvalidToken
	}

	ttl := claims.ExpiresAt.Sub(timeNow())
	if ttl < time.Second {
		ttl = time.Second
	}
	added, err := s.cache.SetNX(ctx, blacklistKey(claims.ID), claims.UserID, ttl).Result()
	if err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	if !added {
		return ErrInvalidToken
	}
	return nil
}
