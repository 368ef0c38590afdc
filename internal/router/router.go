package router

import (
	"strings"

	"storefront/internal/cache"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/handler/auth"
	"storefront/internal/handler/catalog"
	"storefront/internal/middleware"
	"storefront/internal/storage"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// TokenService 同時提供 auth handler 與 RequireAuth 所需的 token 操作
type TokenService interface {
	auth.Tokens
	middleware.TokenVerifier
}

// Deps 路由所需的相依元件
type Deps struct {
	DB       database.DB
	Cache    cache.Cache
	Accounts auth.Accounts
	Tokens   TokenService
	Files    storage.Storage

	MediaRoot          string
	MediaURL           string
	RevealUnknownEmail bool
	RateLimitPerMinute int
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	// /api 底下的路徑一律補上結尾斜線
	e.Pre(echomw.AddTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))

	requireAuth := middleware.RequireAuth(d.Tokens)
	throttle := middleware.NewRateLimiter(d.RateLimitPerMinute).Middleware()

	api := e.Group("/api")

	// 健康檢查
	api.GET("/health/", handler.HealthHandler(d.DB, d.Cache))

	// 帳號與 token
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register/", auth.RegisterHandler(d.Accounts), throttle)
	apiAuth.POST("/login/", auth.LoginHandler(d.Accounts, d.Tokens), throttle)
	apiAuth.POST("/logout/", auth.LogoutHandler(d.Tokens), requireAuth)
	apiAuth.POST("/token/refresh/", auth.RefreshHandler(d.Tokens), throttle)
	apiAuth.PUT("/change-password/", auth.ChangePasswordHandler(d.Accounts), requireAuth)
	apiAuth.GET("/profile/", auth.GetProfileHandler(d.Accounts), requireAuth)
	apiAuth.PUT("/profile/", auth.UpdateProfileHandler(d.Accounts), requireAuth)
	apiAuth.POST("/reset-password/", auth.ResetPasswordHandler(d.Accounts, d.RevealUnknownEmail), throttle)
	apiAuth.POST("/reset-password/confirm/", auth.ConfirmResetPasswordHandler(d.Accounts), throttle)
	apiAuth.GET("/protected/", auth.ProtectedHandler(), requireAuth)

	// 分類：讀取公開，寫入需登入
	apiCategories := api.Group("/categories")
	apiCategories.GET("/", catalog.ListCategoriesHandler(d.DB))
	apiCategories.POST("/", catalog.CreateCategoryHandler(d.DB), requireAuth)
	apiCategories.GET("/:id/", catalog.GetCategoryHandler(d.DB))
	apiCategories.PUT("/:id/", catalog.UpdateCategoryHandler(d.DB, false), requireAuth)
	apiCategories.PATCH("/:id/", catalog.UpdateCategoryHandler(d.DB, true), requireAuth)
	apiCategories.DELETE("/:id/", catalog.DeleteCategoryHandler(d.DB), requireAuth)

	// 商品
	apiProducts := api.Group("/products")
	apiProducts.GET("/", catalog.ListProductsHandler(d.DB, d.Files))
	apiProducts.POST("/", catalog.CreateProductHandler(d.DB, d.Files), requireAuth)
	apiProducts.GET("/:id/", catalog.GetProductHandler(d.DB, d.Files))
	apiProducts.PUT("/:id/", catalog.UpdateProductHandler(d.DB, d.Files, false), requireAuth)
	apiProducts.PATCH("/:id/", catalog.UpdateProductHandler(d.DB, d.Files, true), requireAuth)
	apiProducts.DELETE("/:id/", catalog.DeleteProductHandler(d.DB, d.Files), requireAuth)

	// 上傳的商品圖片
	if d.MediaRoot != "" && d.MediaURL != "" {
		e.Static(d.MediaURL, d.MediaRoot)
	}

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
