package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/api"
	"storefront/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func newJSONContext(body string) echo.Context {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	var req sampleRequest
	require.NoError(t, BindAndValidate(newJSONContext(`{"name":"a","email":"a@example.com"}`), &req))
	require.Equal(t, "a", req.Name)

	err := BindAndValidate(newJSONContext(`{"name":`), &sampleRequest{})
	requireHTTPError(t, err, http.StatusBadRequest, "invalid request body")

	err = BindAndValidate(newJSONContext(`{"email":"nope"}`), &sampleRequest{})
	requireHTTPError(t, err, http.StatusBadRequest, "validation failed")
	fields := err.(*echo.HTTPError).Message.(api.ErrorResponse).Fields
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "email")
}

func TestBindAndValidateTypeError(t *testing.T) {
	err := BindAndValidate(newJSONContext(`{"name":5,"email":"a@example.com"}`), &sampleRequest{})
	requireHTTPError(t, err, http.StatusBadRequest, "validation failed")
	fields := err.(*echo.HTTPError).Message.(api.ErrorResponse).Fields
	require.Equal(t, "Incorrect type. Expected string.", fields["name"])
}
