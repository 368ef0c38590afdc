package auth

import (
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/handler"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 建立新帳號
// @Summary     註冊使用者
// @Description 以 username / email / password 建立一般顧客帳號，密碼需通過強度檢查
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register/ [post]
func RegisterHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		_, err := accounts.Register(c.Request().Context(), req.Username, req.Email, req.Password)
		if errors.Is(err, service.ErrUsernameTaken) {
			return handler.FieldError("username already exists", map[string]string{
				"username": "A user with that username already exists.",
			})
		}
		if perr := policyError(err, "password"); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.MessageResponse{Message: "User registered successfully"})
	}
}
