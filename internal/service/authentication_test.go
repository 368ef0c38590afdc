package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/model"
	"storefront/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead = rand.Read
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
	newTokenID = func() string { return uuid.NewString() }
	createUser = store.CreateUser
	usernameExists = store.UsernameExists
	getUserByID = store.GetUserByID
	getUserByUsername = store.GetUserByUsername
	getUserByEmail = store.GetUserByEmail
	updateUserProfile = store.UpdateUserProfile
	updateUserPassword = store.UpdateUserPassword
}

// fixedClock 讓 timeNow 可以手動前進
func fixedClock(t *testing.T) *time.Time {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(restoreGlobals)
	return &now
}

func newTestTokens(t *testing.T, c cache.Cache) *TokenService {
	s, err := NewTokenService(TokenConfig{Secret: testSecret, AccessTTL: 5 * time.Minute, RefreshTTL: 24 * time.Hour}, c)
	require.NoError(t, err)
	return s
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: "short", AccessTTL: time.Minute, RefreshTTL: time.Hour}, nil)
	require.Error(t, err)
	_, err = NewTokenService(TokenConfig{Secret: testSecret, AccessTTL: 0, RefreshTTL: time.Hour}, nil)
	require.Error(t, err)
	s, err := NewTokenService(TokenConfig{Secret: testSecret, AccessTTL: time.Minute, RefreshTTL: time.Hour}, nil)
	require.NoError(t, err)
	require.Equal(t, time.Minute, s.AccessTTL())
}

func TestIssueAndVerifyTokens(t *testing.T) {
	fixedClock(t)
	s := newTestTokens(t, cache.MemoryCache(timeNow))
	user := model.User{ID: 5, Username: "alice", Role: model.RoleCustomer}

	pair, err := s.IssueTokens(user)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := s.VerifyAccessToken(pair.Access)
	require.NoError(t, err)
	require.Equal(t, int64(5), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, model.RoleCustomer, claims.Role)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, timeNow().Add(5*time.Minute).Unix(), claims.ExpiresAt.Unix())

	// refresh token 不能當作 access token
	_, err = s.VerifyAccessToken(pair.Refresh)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyAccessTokenRejects(t *testing.T) {
	now := fixedClock(t)
	s := newTestTokens(t, nil)

	_, err := s.VerifyAccessToken("invalid")
	require.ErrorIs(t, err, ErrInvalidToken)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "token_type": "access"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = s.VerifyAccessToken(tokNone)
	require.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenService(TokenConfig{Secret: strings.Repeat("x", 32), AccessTTL: time.Minute, RefreshTTL: time.Hour}, nil)
	require.NoError(t, err)
	foreign, err := other.IssueAccessToken(model.User{ID: 1})
	require.NoError(t, err)
	_, err = s.VerifyAccessToken(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	tok, err := s.IssueAccessToken(model.User{ID: 1})
	require.NoError(t, err)
	*now = now.Add(6 * time.Minute)
	_, err = s.VerifyAccessToken(tok)
	require.ErrorIs(t, err, ErrExpiredToken)

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: &CustomClaims{}, Valid: false}, nil
	}
	_, err = s.VerifyAccessToken("whatever")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAndRevoke(t *testing.T) {
	now := fixedClock(t)
	c := cache.MemoryCache(timeNow)
	s := newTestTokens(t, c)
	ctx := context.Background()
	user := model.User{ID: 9, Username: "bob", Role: model.RoleAdmin}

	pair, err := s.IssueTokens(user)
	require.NoError(t, err)

	access, err := s.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	claims, err := s.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, int64(9), claims.UserID)
	require.Equal(t, model.RoleAdmin, claims.Role)

	// access token 不能拿來換發或撤銷
	_, err = s.Refresh(ctx, pair.Access)
	require.ErrorIs(t, err, ErrWrongTokenType)
	require.ErrorIs(t, s.Revoke(ctx, pair.Access, 0), ErrWrongTokenType)

	// 不屬於呼叫者的 token
	require.ErrorIs(t, s.Revoke(ctx, pair.Refresh, 10), ErrInvalidToken)

	require.NoError(t, s.Revoke(ctx, pair.Refresh, 9))
	require.ErrorIs(t, s.Revoke(ctx, pair.Refresh, 9), ErrInvalidToken)

	// 撤銷後永遠無法再換發，直到 token 自然過期
	for _, step := range []time.Duration{0, time.Hour, 23 * time.Hour} {
		*now = now.Add(step)
		_, err = s.Refresh(ctx, pair.Refresh)
		require.Error(t, err)
	}

	// 另一組未撤銷的 token 不受影響
	*now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	other, err := s.IssueTokens(user)
	require.NoError(t, err)
	_, err = s.Refresh(ctx, other.Refresh)
	require.NoError(t, err)
}

func TestRevokeTTLAndCacheErrors(t *testing.T) {
	fixedClock(t)
	ctx := context.Background()

	var gotKey string
	var gotTTL time.Duration
	c := &cache.FakeCache{SetNXFn: func(_ context.Context, key string, _ any, ttl time.Duration) *redis.BoolCmd {
		gotKey, gotTTL = key, ttl
		return redis.NewBoolResult(true, nil)
	}}
	newTokenID = func() string { return "jti-1" }
	s := newTestTokens(t, c)
	pair, err := s.IssueTokens(model.User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, s.Revoke(ctx, pair.Refresh, 0))
	require.Equal(t, "token_blacklist:jti-1", gotKey)
	require.Equal(t, 24*time.Hour, gotTTL)

	c.SetNXFn = func(context.Context, string, any, time.Duration) *redis.BoolCmd {
		return redis.NewBoolResult(false, errors.New("redis down"))
	}
	err = s.Revoke(ctx, pair.Refresh, 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidToken)

	c.ExistsFn = func(context.Context, ...string) *redis.IntCmd {
		return redis.NewIntResult(0, errors.New("redis down"))
	}
	_, err = s.Refresh(ctx, pair.Refresh)
	require.Error(t, err)
}
