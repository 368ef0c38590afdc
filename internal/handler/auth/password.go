package auth

import (
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/handler"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const resetSentMessage = "Password reset email sent"

// ChangePasswordHandler 變更登入者密碼
// @Summary     變更密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ChangePasswordRequest true "舊密碼與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/change-password/ [put]
func ChangePasswordHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := currentClaims(c)
		if err != nil {
			return err
		}
		var req api.ChangePasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		err = accounts.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword)
		switch {
		case errors.Is(err, service.ErrWrongOldPassword):
			return handler.FieldError("old password is incorrect", map[string]string{
				"old_password": "Old password is not correct",
			})
		case errors.Is(err, service.ErrUserNotFound):
			return handler.NewError(http.StatusUnauthorized, "user not found")
		}
		if perr := policyError(err, "new_password"); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Password updated successfully"})
	}
}

// ResetPasswordHandler 寄送重設密碼連結。
// revealUnknownEmail 為 false 時不論 email 是否存在都回傳 200
// @Summary     申請重設密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ResetPasswordRequest true "註冊 email"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Router      /auth/reset-password/ [post]
func ResetPasswordHandler(accounts Accounts, revealUnknownEmail bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ResetPasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		err := accounts.RequestPasswordReset(c.Request().Context(), req.Email)
		if errors.Is(err, service.ErrUserNotFound) {
			if revealUnknownEmail {
				return handler.NewError(http.StatusNotFound, "User with this email does not exist")
			}
			return c.JSON(http.StatusOK, api.MessageResponse{Message: resetSentMessage})
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: resetSentMessage})
	}
}

// ConfirmResetPasswordHandler 以信件中的 token 設定新密碼
// @Summary     確認重設密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ConfirmResetPasswordRequest true "token 與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Router      /auth/reset-password/confirm/ [post]
func ConfirmResetPasswordHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ConfirmResetPasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		err := accounts.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword)
		if errors.Is(err, service.ErrInvalidToken) {
			return handler.FieldError("invalid reset token", map[string]string{
				"token": "Reset link is invalid or has expired.",
			})
		}
		if perr := policyError(err, "new_password"); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Password has been reset successfully"})
	}
}
