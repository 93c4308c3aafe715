package validator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"takeout/internal/domain/model"
	"takeout/internal/repository"
	"takeout/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	panic("not used in validator tests")
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	panic("not used in validator tests")
}

func (m *UserRepoMock) CountCreatedBetween(ctx context.Context, begin, end time.Time) (int64, error) {
	panic("not used in validator tests")
}

func (m *UserRepoMock) CountCreatedBefore(ctx context.Context, end time.Time) (int64, error) {
	panic("not used in validator tests")
}

func TestValidateRegister(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "new@example.com").Return(model.User{}, repository.ErrNotFound)
	users.On("FindByEmail", mock.Anything, "used@example.com").Return(model.User{ID: 1}, nil)
	users.On("FindByEmail", mock.Anything, "broken@example.com").Return(model.User{}, errors.New("db down"))
	v := validator.NewAuthValidator(users)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		phone    string
		want     error
	}{
		{"ok", "new@example.com", "s3cure-pass", "13812345678", nil},
		{"bad email", "new-example.com", "s3cure-pass", "", validator.ErrInvalidEmailFormat},
		{"short password", "new@example.com", "short", "", validator.ErrPasswordTooShort},
		{"weak password", "new@example.com", "Password123", "", validator.ErrWeakPassword},
		{"bad phone", "new@example.com", "s3cure-pass", "0312", validator.ErrInvalidPhone},
		{"email used", "used@example.com", "s3cure-pass", "", validator.ErrEmailAlreadyUsed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(ctx, tc.email, tc.password, tc.phone)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// DBエラーはそのまま返す
	err := v.ValidateRegister(ctx, "broken@example.com", "s3cure-pass", "")
	assert.EqualError(t, err, "db down")
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(new(UserRepoMock))

	assert.NoError(t, v.ValidateLogin(" taro@example.com ", "x"))
	assert.ErrorContains(t, v.ValidateLogin("", "x"), "required")
	assert.ErrorContains(t, v.ValidateLogin("taro@example.com", ""), "required")
	assert.ErrorIs(t, v.ValidateLogin("taro", "x"), validator.ErrInvalidEmailFormat)
}
