package auth

import (
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/handler"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳 access / refresh token 與使用者摘要
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login/ [post]
func LoginHandler(accounts Accounts, tokens Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user, err := accounts.Authenticate(c.Request().Context(), req.Username, req.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			return handler.NewError(http.StatusBadRequest, "Invalid credentials")
		}
		if err != nil {
			return err
		}

		pair, err := tokens.IssueTokens(*user)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.LoginResponse{
			Access:  pair.Access,
			Refresh: pair.Refresh,
			User: api.UserSummary{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
			},
		})
	}
}
