package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"
)

// 新規従業員の初期パスワード
const DefaultEmployeePassword = "123456"

var (
	phonePattern    = regexp.MustCompile(`^1\d{10}$`)
	idNumberPattern = regexp.MustCompile(`^\d{17}[\dXx]$`)
)

type EmployeeUsecase struct {
	tx        repo.TransactionManager
	employees repo.EmployeeRepository
	hasher    PasswordHasher
	verifier  PasswordVerifier
	issuer    TokenIssuer
	clock     Clock
}

// DI
func NewEmployeeUsecase(
	tx repo.TransactionManager,
	employees repo.EmployeeRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *EmployeeUsecase {
	return &EmployeeUsecase{
		tx:        tx,
		employees: employees,
		hasher:    hasher,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

type EmployeeLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type EmployeeLoginOutput struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type EmployeeInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Sex      string `json:"sex"`
	IDNumber string `json:"id_number"`
}

func (in EmployeeInput) validate() error {
	if l := len(strings.TrimSpace(in.Username)); l < 3 || l > 20 {
		return badRequest("invalid username")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("invalid name")
	}
	if in.Phone != "" && !phonePattern.MatchString(in.Phone) {
		return badRequest("invalid phone")
	}
	if in.IDNumber != "" && !idNumberPattern.MatchString(in.IDNumber) {
		return badRequest("invalid id_number")
	}
	return nil
}

type PasswordEditInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// 従業員ログイン：未登録 / パスワード違い / ロック を区別して返す
func (u *EmployeeUsecase) Login(ctx context.Context, in EmployeeLoginInput) (EmployeeLoginOutput, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return EmployeeLoginOutput{}, badRequest("username and password are required")
	}

	e, err := u.employees.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return EmployeeLoginOutput{}, ErrAccountNotFound
	}
	if err != nil {
		return EmployeeLoginOutput{}, internalError(err)
	}

	if !u.verifier.Verify(in.Password, e.PasswordHash) {
		return EmployeeLoginOutput{}, ErrPasswordError
	}
	if e.Status == model.StatusDisabled {
		return EmployeeLoginOutput{}, ErrAccountLocked
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(e.ID, model.RoleEmployee, now)
	if err != nil {
		return EmployeeLoginOutput{}, internalError(err)
	}

	return EmployeeLoginOutput{
		ID:        e.ID,
		Username:  e.Username,
		Name:      e.Name,
		Token:     token,
		ExpiresIn: int(exp.Sub(now).Seconds()),
	}, nil
}

// 従業員の追加（初期パスワード・有効状態）
func (u *EmployeeUsecase) Create(ctx context.Context, actorID int64, in EmployeeInput) (int64, error) {
	if actorID <= 0 {
		return 0, ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return 0, err
	}

	hash, err := u.hasher.Hash(DefaultEmployeePassword)
	if err != nil {
		return 0, internalError(err)
	}

	e := model.Employee{
		Username:     strings.TrimSpace(in.Username),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Phone:        in.Phone,
		Sex:          in.Sex,
		IDNumber:     in.IDNumber,
		Status:       model.StatusEnabled,
		CreateUser:   actorID,
		UpdateUser:   actorID,
	}
	if err := u.employees.Create(ctx, &e); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, ErrDuplicateUsername
		}
		return 0, internalError(err)
	}
	return e.ID, nil
}

func (u *EmployeeUsecase) Page(ctx context.Context, page, pageSize int, name string) (PageResult[model.Employee], error) {
	page, size, err := normalizePage(page, pageSize)
	if err != nil {
		return PageResult[model.Employee]{}, err
	}

	items, total, err := u.employees.Page(ctx, repo.EmployeePageQuery{
		Page:  page,
		Limit: size,
		Name:  strings.TrimSpace(name),
	})
	if err != nil {
		return PageResult[model.Employee]{}, internalError(err)
	}
	return PageResult[model.Employee]{Total: total, Records: items}, nil
}

func (u *EmployeeUsecase) Get(ctx context.Context, id int64) (model.Employee, error) {
	e, err := u.employees.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return model.Employee{}, internalError(err)
	}
	return e, nil
}

func (u *EmployeeUsecase) Update(ctx context.Context, actorID, id int64, in EmployeeInput) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return err
	}

	e, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	e.Username = strings.TrimSpace(in.Username)
	e.Name = strings.TrimSpace(in.Name)
	e.Phone = in.Phone
	e.Sex = in.Sex
	e.IDNumber = in.IDNumber
	e.UpdateUser = actorID

	if err := u.employees.Update(ctx, e); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrDuplicateUsername
		}
		return internalError(err)
	}
	return nil
}

// 有効化/ロック（監査ログ付き）
func (u *EmployeeUsecase) SetStatus(ctx context.Context, actorID, id int64, status model.Status) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if !status.Valid() {
		return badRequest("invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		e, err := r.Employees().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return internalError(err)
		}

		if err := r.Employees().UpdateStatus(ctx, id, status, actorID); err != nil {
			return internalError(err)
		}
		return writeAudit(ctx, r, actorID, model.AuditActionUpdateAccountStatus, model.AuditResourceEmployee, id,
			map[string]model.Status{"status": e.Status}, map[string]model.Status{"status": status}, u.clock)
	})
}

// 自分のパスワード変更（旧パスワード一致が必須）
func (u *EmployeeUsecase) ChangePassword(ctx context.Context, actorID int64, in PasswordEditInput) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if len(in.NewPassword) < 6 {
		return badRequest("new password too short")
	}

	e, err := u.Get(ctx, actorID)
	if err != nil {
		return err
	}
	if !u.verifier.Verify(in.OldPassword, e.PasswordHash) {
		return ErrPasswordEditFailed
	}

	hash, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return internalError(err)
	}
	if err := u.employees.UpdatePassword(ctx, actorID, hash, actorID); err != nil {
		return internalError(err)
	}
	return nil
}

// ロック中の従業員はトークンが有効でも弾く（ミドルウェア用）
func (u *EmployeeUsecase) IsActive(ctx context.Context, id int64) (bool, error) {
	e, err := u.employees.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, internalError(err)
	}
	return e.Status == model.StatusEnabled, nil
}
