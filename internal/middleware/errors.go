package middleware

import (
	"errors"
	"net/http"

	"storefront/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorHandler 將錯誤統一輸出為 api.ErrorResponse；5xx 只記錄原因，不回傳內部細節
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var body api.ErrorResponse
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case api.ErrorResponse:
				body = m
			case string:
				body = api.ErrorResponse{Error: m}
			default:
				body = api.ErrorResponse{Error: http.StatusText(code)}
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
			body = api.ErrorResponse{Error: "internal server error"}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
