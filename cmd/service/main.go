// @title        Storefront API
// @version      1.0
// @description  電商後端 API：帳號驗證、分類與商品管理
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <access token>
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/mail"
	"storefront/internal/middleware"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/validation"
	"storefront/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	_ "storefront/docs" // 引入 swag 產出的 docs
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	notifyContext   = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	exitFunc = os.Exit
)

// newMailer 未設定 SMTP_HOST 時只把信件寫進 log
func newMailer(cfg *config.Config, log zerolog.Logger) mail.Sender {
	if cfg.SMTPHost == "" {
		return mail.LogSender{Logger: log.With().Str("component", "mail").Logger()}
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

// newServer 組裝 Echo 與所有相依元件
func newServer(cfg *config.Config, log zerolog.Logger, db database.DB, cch cache.Cache, wp worker.Pool) (*echo.Echo, error) {
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, cch)
	if err != nil {
		return nil, err
	}
	files, err := storage.NewLocal(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return nil, err
	}
	accounts := service.NewAccounts(db, cch, mail.NewDispatcher(wp, newMailer(cfg, log)), service.AccountsConfig{
		ResetTokenTTL: cfg.ResetTokenTTL,
		ResetURLBase:  cfg.ResetURLBase,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	// 節流依來源 IP；預設不信任可偽造的代理標頭
	e.IPExtractor = echo.ExtractIPDirect()
	if cfg.TrustProxyHeaders {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(middleware.CORS(cfg.AllowedOrigins))
	e.Use(echomw.BodyLimit("10M"))

	router.Setup(e, router.Deps{
		DB:                 db,
		Cache:              cch,
		Accounts:           accounts,
		Tokens:             tokens,
		Files:              files,
		MediaRoot:          cfg.MediaRoot,
		MediaURL:           cfg.MediaURL,
		RevealUnknownEmail: cfg.ResetRevealUnknownEmail,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	return e, nil
}

// run 執行服務；args 為 "rollback" 時僅回滾所有 migration
func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.IsDev())

	if len(args) > 0 && args[0] == "rollback" {
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %w", err)
		}
		log.Info().Msg("all migrations rolled back")
		return nil
	}

	if cfg.RunMigrations {
		if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Migration 執行失敗: %w", err)
		}
	}

	ctx, stop := notifyContext()
	defer stop()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("關閉 Redis 連線失敗")
		}
	}()

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	e, err := newServer(cfg, log, db, rdb, wp)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		errCh <- startServer(e, cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
