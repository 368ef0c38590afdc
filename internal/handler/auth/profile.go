package auth

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/handler"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

// GetProfileHandler 取得登入者個人資料
// @Summary     取得個人資料
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.ProfileResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/profile/ [get]
func GetProfileHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c, accounts)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewProfileResponse(user))
	}
}

// UpdateProfileHandler 部分更新個人資料，未提供的欄位保持原值
// @Summary     更新個人資料
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateProfileRequest true "要更新的欄位"
// @Success     200  {object} api.ProfileResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/profile/ [put]
func UpdateProfileHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := currentClaims(c)
		if err != nil {
			return err
		}
		var req api.UpdateProfileRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user, err := accounts.UpdateProfile(c.Request().Context(), claims.UserID, service.ProfileUpdate{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if errors.Is(err, service.ErrUserNotFound) {
			return handler.NewError(http.StatusUnauthorized, "user not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewProfileResponse(user))
	}
}

// ProtectedHandler 僅供已登入者存取
// @Summary     受保護路由
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/protected/ [get]
func ProtectedHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := currentClaims(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{
			Message: fmt.Sprintf("Hello %s, you have access to this protected route!", claims.Username),
		})
	}
}
