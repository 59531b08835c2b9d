package validator

import (
	"context"
	"regexp"
	"strings"

	"app/internal/repository"
	"app/internal/usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return usecase.ErrValidation
	}

	if len(username) > 150 {
		return usecase.ErrValidation
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.ErrValidation
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return usecase.ErrValidation
	}

	// username/email重複チェック（DBが必要）
	exists, err := v.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return usecase.ErrInternal
	}
	if exists {
		return usecase.ErrDuplicateRegistration
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return usecase.ErrValidation
	}
	return nil
}

// ざっくりしたemail形式チェック
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
