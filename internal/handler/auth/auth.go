package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

// Accounts 帳號相關操作，由 *service.Accounts 實作
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, upd service.ProfileUpdate) (*model.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// Tokens JWT 發行、換發與撤銷，由 *service.TokenService 實作
type Tokens interface {
	IssueTokens(user model.User) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string, ownerID int64) error
}

func currentClaims(c echo.Context) (*service.CustomClaims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, handler.NewError(http.StatusUnauthorized, "missing token")
	}
	return claims, nil
}

// currentUser 讀取登入者；token 有效但帳號已不存在時回傳 401
func currentUser(c echo.Context, accounts Accounts) (*model.User, error) {
	claims, err := currentClaims(c)
	if err != nil {
		return nil, err
	}
	user, err := accounts.GetUser(c.Request().Context(), claims.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		return nil, handler.NewError(http.StatusUnauthorized, "user not found")
	}
	return user, err
}

func isTokenError(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrExpiredToken) ||
		errors.Is(err, service.ErrWrongTokenType)
}

// policyError 密碼強度不足時回傳對應欄位的 400
func policyError(err error, field string) error {
	var pe *service.PasswordPolicyError
	if !errors.As(err, &pe) {
		return nil
	}
	return handler.FieldError("password is too weak", map[string]string{field: strings.Join(pe.Problems, " ")})
}
