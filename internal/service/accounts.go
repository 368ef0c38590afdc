package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/internal/cache"
	"storefront/internal/database"
	"storefront/internal/mail"
	"storefront/internal/model"
	"storefront/internal/store"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "password_reset:"

var (
	createUser         = store.CreateUser
	usernameExists     = store.UsernameExists
	getUserByID        = store.GetUserByID
	getUserByUsername  = store.GetUserByUsername
	getUserByEmail     = store.GetUserByEmail
	updateUserProfile  = store.UpdateUserProfile
	updateUserPassword = store.UpdateUserPassword
	randRead           = rand.Read
)

// 使用者不存在時仍執行一次 bcrypt 比對，避免以回應時間推測帳號是否存在
var (
	dummyHashOnce sync.Once
	dummyHash     string
)

func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("storefront-dummy-password")
	})
	_ = ComparePassword(dummyHash, password)
}

// ProfileUpdate 個人資料部分更新，nil 欄位保持原值
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// AccountsConfig 重設密碼 token 存活時間與信件中的連結前綴
type AccountsConfig struct {
	ResetTokenTTL time.Duration
	ResetURLBase  string
}

// Accounts 負責註冊、登入驗證、密碼變更與重設
type Accounts struct {
	db     database.DB
	cache  cache.Cache
	mailer mail.Sender
	cfg    AccountsConfig
}

func NewAccounts(db database.DB, c cache.Cache, mailer mail.Sender, cfg AccountsConfig) *Accounts {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &Accounts{db: db, cache: c, mailer: mailer, cfg: cfg}
}

// Register 建立一般顧客帳號；帳號重複回傳 ErrUsernameTaken，密碼太弱回傳 *PasswordPolicyError
func (a *Accounts) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := usernameExists(ctx, a.db, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}
	if err := ValidatePassword(password, username, email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := createUser(ctx, a.db, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 以帳號密碼登入，帳號不存在與密碼錯誤一律回傳 ErrInvalidCredentials
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := getUserByUsername(ctx, a.db, username)
	if errors.Is(err, store.ErrNotFound) {
		compareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (a *Accounts) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := getUserByID(ctx, a.db, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ChangePassword 驗證舊密碼、檢查新密碼強度後更新
func (a *Accounts) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return ErrWrongOldPassword
	}
	return a.setPassword(ctx, user, newPassword)
}

func (a *Accounts) setPassword(ctx context.Context, user *model.User, password string) error {
	if err := ValidatePassword(password, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return updateUserPassword(ctx, a.db, user.ID, hash)
}

// UpdateProfile 僅覆寫有提供的欄位
func (a *Accounts) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*model.User, error) {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if err := updateUserProfile(ctx, a.db, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func resetKey(token string) string {
	return resetKeyPrefix + token
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ResetLink 組出信件中的重設連結
func (a *Accounts) ResetLink(token string) string {
	base := a.cfg.ResetURLBase
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

// RequestPasswordReset 產生一次性 token 並寄出重設連結；Email 不存在回傳 ErrUserNotFound
func (a *Accounts) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := getUserByEmail(ctx, a.db, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := a.cache.Set(ctx, resetKey(token), user.ID, a.cfg.ResetTokenTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nClick the link below to reset your password:\n%s\n\nThe link expires in %s. If you did not request a reset, ignore this email.\n",
		user.Username, a.ResetLink(token), a.cfg.ResetTokenTTL)
	if err := a.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Password reset",
		Body:    body,
	}); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset 驗證新密碼通過後才消耗一次性 token 並設定新密碼；
// 密碼被拒時 token 仍可再用
func (a *Accounts) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	key := resetKey(token)
	val, err := a.cache.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("load reset token: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	user, err := a.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if err := ValidatePassword(newPassword, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		return err
	}

	// GETDEL 保證同一 token 只有一個請求能完成重設
	consumed, err := a.cache.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && consumed != val) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return a.setPassword(ctx, user, newPassword)
}
