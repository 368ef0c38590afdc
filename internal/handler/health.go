package handler

import (
	"net/http"

	"storefront/internal/cache"
	"storefront/internal/database"

	"github.com/labstack/echo/v4"
)

// HealthResponse 健康檢查回應模型
// swagger:model HealthResponse
type HealthResponse struct {
	// 回應訊息
	Message string `json:"message" example:"ok"`
}

// HealthHandler 健康檢查
// @Summary     Health Check
// @Description 檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /health [get]
func HealthHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return NewError(http.StatusServiceUnavailable, "database unhealthy")
		}
		if err := cch.Ping(ctx).Err(); err != nil {
			return NewError(http.StatusServiceUnavailable, "cache unhealthy")
		}
		return c.JSON(http.StatusOK, HealthResponse{Message: "ok"})
	}
}
