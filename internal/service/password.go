package service

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// MinPasswordLength 密碼最短長度
const MinPasswordLength = 8

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		password password1 password123 passw0rd 12345678 123456789 1234567890
		qwerty qwerty123 qwertyuiop 11111111 00000000 abc12345 abcdefgh
		iloveyou letmein1 welcome1 welcome123 admin123 administrator
		sunshine princess football baseball superman trustno1 starwars
		dragon123 monkey123 shadow123 master123 michael1 jennifer
		changeme secret123 computer internet whatever 1q2w3e4r 1qaz2wsx
		zaq12wsx q1w2e3r4 asdfghjk zxcvbnm1 password! p@ssw0rd p@ssword
	`) {
		commonPasswords[p] = struct{}{}
	}
}

// ValidatePassword 檢查密碼強度：
// 長度至少 MinPasswordLength、不可全為數字、不可為常見密碼、不可與使用者屬性過於相似
func ValidatePassword(password string, attrs ...string) error {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if similarToAny(password, attrs) {
		problems = append(problems, "The password is too similar to your personal information.")
	}

	if len(problems) > 0 {
		return &PasswordPolicyError{Problems: problems}
	}
	return nil
}

// similarToAny 任一屬性（Email 取 @ 前段）長度 >= 3 且與密碼互相包含即視為相似
func similarToAny(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	for _, a := range attrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if at := strings.IndexByte(a, '@'); at > 0 {
			a = a[:at]
		}
		if len(a) < 3 || pw == "" {
			continue
		}
		if strings.Contains(pw, a) || strings.Contains(a, pw) {
			return true
		}
	}
	return false
}
