package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"takeout/internal/domain/model"
	"takeout/internal/repository"
	"takeout/internal/usecase"
	"takeout/internal/validator"

	"go.uber.org/zap"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// token 形
type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = &usecase.HTTPError{Status: http.StatusUnauthorized, Message: "invalid credentials"}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator *validator.AuthValidator
	verifier  usecase.PasswordVerifier
	issuer    usecase.TokenIssuer
	clock     usecase.Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	v *validator.AuthValidator,
	verifier usecase.PasswordVerifier,
	issuer usecase.TokenIssuer,
	clock usecase.Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: v,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(email, in.Password); err != nil {
		return out, err
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, internal(err)
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	accessToken, accessExp, err := u.issuer.Issue(user.ID, model.RoleUser, now)
	if err != nil {
		return out, internal(err)
	}

	//最終ログイン時刻更新（失敗してもログインは通す）
	if err := u.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		zap.L().Warn("touch last login failed", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	out.User = user
	out.Token = JwtAccessToken{
		AccessToken: accessToken,
		ExpiresIn:   int(accessExp.Sub(now).Seconds()),
	}
	return out, nil
}

func internal(err error) error {
	return &usecase.HTTPError{Status: http.StatusInternalServerError, Message: "internal error", Err: err}
}
