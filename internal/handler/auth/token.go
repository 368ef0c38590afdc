package auth

import (
	"net/http"

	"storefront/internal/api"
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 撤銷登入者自己的 refresh token
// @Summary     登出
// @Description 將 refresh token 加入黑名單；token 無效、過期、已撤銷或不屬於登入者時回傳 400
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshRequest true "refresh token"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/logout/ [post]
func LogoutHandler(tokens Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := currentClaims(c)
		if err != nil {
			return err
		}
		var req api.RefreshRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		err = tokens.Revoke(c.Request().Context(), req.Refresh, claims.UserID)
		if isTokenError(err) {
			return handler.NewError(http.StatusBadRequest, "Invalid token")
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully logged out"})
	}
}

// RefreshHandler 以 refresh token 換發 access token
// @Summary     換發 access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshRequest true "refresh token"
// @Success     200  {object} api.RefreshResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Router      /auth/token/refresh/ [post]
func RefreshHandler(tokens Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		access, err := tokens.Refresh(c.Request().Context(), req.Refresh)
		if isTokenError(err) {
			return handler.NewError(http.StatusUnauthorized, "Token is invalid or expired")
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.RefreshResponse{Access: access})
	}
}
