package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/validation"

	"github.com/labstack/echo/v4"
)

// NewError 回傳交由 HTTPErrorHandler 輸出的錯誤
func NewError(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, api.ErrorResponse{Error: msg})
}

// FieldError 400，附帶欄位錯誤
func FieldError(msg string, fields map[string]string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, api.ErrorResponse{Error: msg, Fields: fields})
}

// BindAndValidate 綁定請求並執行 validator，失敗時回傳 400；JSON 型別錯誤歸到對應欄位
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return FieldError("validation failed", map[string]string{
				ute.Field: "Incorrect type. Expected " + ute.Type.String() + ".",
			})
		}
		return NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		if fields := validation.FieldErrors(err); fields != nil {
			return FieldError("validation failed", fields)
		}
		return err
	}
	return nil
}
