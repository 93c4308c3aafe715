package auth

import (
	"context"
	"errors"
	"strings"

	"takeout/internal/domain/model"
	"takeout/internal/repository"
	"takeout/internal/usecase"
	"takeout/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	validator *validator.AuthValidator
	hasher    usecase.PasswordHasher
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	v *validator.AuthValidator,
	hasher usecase.PasswordHasher,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		validator: v,
		hasher:    hasher,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := strings.TrimSpace(in.Email)
	if err := u.validator.ValidateRegister(ctx, email, in.Password, in.Phone); err != nil {
		if _, ok := usecase.AsHTTPError(err); ok {
			return out, err
		}
		return out, internal(err)
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, internal(err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Name:         strings.TrimSpace(in.Name),
		Phone:        in.Phone,
	}

	// DBへ保存（同時登録はユニーク制約で弾く）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, validator.ErrEmailAlreadyUsed
		}
		return out, internal(err)
	}

	out.User = *user
	return out, nil
}
