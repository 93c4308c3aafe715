package validator

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"takeout/internal/repository"
	"takeout/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidEmailFormat = &usecase.HTTPError{Status: http.StatusBadRequest, Message: "invalid email format"}
	ErrPasswordTooShort   = &usecase.HTTPError{Status: http.StatusBadRequest, Message: "password too short"}
	ErrWeakPassword       = &usecase.HTTPError{Status: http.StatusBadRequest, Message: "weak password"}
	ErrInvalidPhone       = &usecase.HTTPError{Status: http.StatusBadRequest, Message: "invalid phone"}

	// emailが既に使用済み
	ErrEmailAlreadyUsed = &usecase.HTTPError{Status: http.StatusConflict, Message: "email already used"}
)

// パスワード最低文字数
const minPasswordLen = 8

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^1\d{10}$`)
)

type AuthValidator struct {
	users repository.UserRepository
}

func NewAuthValidator(users repository.UserRepository) *AuthValidator {
	return &AuthValidator{users: users}
}

// サインアップの入力を検証
func (v *AuthValidator) ValidateRegister(ctx context.Context, email, password, phone string) error {
	email = strings.TrimSpace(email)

	if !isEmailLike(email) {
		return ErrInvalidEmailFormat
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if isWeakPassword(password) {
		return ErrWeakPassword
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	// email重複チェック（DBが必要）
	_, err := v.users.FindByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyUsed
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// ログインの入力を検証
func (v *AuthValidator) ValidateLogin(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if !isEmailLike(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	if !emailPattern.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwertyuiop":   {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
