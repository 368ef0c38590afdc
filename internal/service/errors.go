package service

import (
	"errors"
	"strings"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrExpiredToken       = errors.New("token has expired")
	ErrWrongTokenType     = errors.New("wrong token type")
)

// PasswordPolicyError 密碼未通過強度檢查，Problems 列出所有不符合的規則
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return strings.Join(e.Problems, " ")
}
