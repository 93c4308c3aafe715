package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"takeout/internal/domain/model"
	"takeout/internal/repository"
)

type AddressDTO struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Consignee string  `json:"consignee"`
	Phone     string  `json:"phone"`
	Province  string  `json:"province"`
	City      string  `json:"city"`
	District  string  `json:"district"`
	Detail    string  `json:"detail"`
	Label     string  `json:"label"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// 作成・更新の共通入力
type AddressInput struct {
	Consignee string `json:"consignee"`
	Phone     string `json:"phone"`
	Province  string `json:"province"`
	City      string `json:"city"`
	District  string `json:"district"`
	Detail    string `json:"detail"`
	Label     string `json:"label"`
}

func (in AddressInput) validate() error {
	if strings.TrimSpace(in.Consignee) == "" || strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.Detail) == "" {
		return badRequest("consignee, phone and detail are required")
	}
	if len(in.Phone) > 20 {
		return badRequest("invalid phone")
	}
	return nil
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	if err := in.validate(); err != nil {
		return AddressDTO{}, err
	}

	//最初の住所はデフォルトにする
	existing, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return AddressDTO{}, internalError(err)
	}

	a := model.Address{
		UserID:    userID,
		Consignee: strings.TrimSpace(in.Consignee),
		Phone:     strings.TrimSpace(in.Phone),
		Province:  in.Province,
		City:      in.City,
		District:  in.District,
		Detail:    strings.TrimSpace(in.Detail),
		Label:     in.Label,
		IsDefault: len(existing) == 0,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, internalError(err)
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Get(ctx context.Context, userID int64, addressID int64) (AddressDTO, error) {
	a, err := u.findOwned(ctx, userID, addressID)
	if err != nil {
		return AddressDTO{}, err
	}
	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) GetDefault(ctx context.Context, userID int64) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}
	a, err := u.addresses.FindDefault(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return AddressDTO{}, ErrNotFound
	}
	if err != nil {
		return AddressDTO{}, internalError(err)
	}
	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in AddressInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	//所有チェック（本人のみ）
	a, err := u.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	a.Consignee = strings.TrimSpace(in.Consignee)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Province = in.Province
	a.City = in.City
	a.District = in.District
	a.Detail = strings.TrimSpace(in.Detail)
	a.Label = in.Label

	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return internalError(err)
	}

	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if _, err := u.findOwned(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return internalError(err)
	}

	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if _, err := u.findOwned(ctx, userID, addressID); err != nil {
		return err
	}

	//user内でdefaultは1つ
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return internalError(err)
	}

	return nil
}

// 他人の住所は404
func (u *AddressUsecase) findOwned(ctx context.Context, userID, addressID int64) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, ErrUnauthorized
	}
	if addressID <= 0 {
		return model.Address{}, badRequest("invalid id")
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Address{}, ErrNotFound
	}
	if err != nil {
		return model.Address{}, internalError(err)
	}
	if a.UserID != userID {
		return model.Address{}, ErrNotFound
	}
	return a, nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	dto := AddressDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Consignee: a.Consignee,
		Phone:     a.Phone,
		Province:  a.Province,
		City:      a.City,
		District:  a.District,
		Detail:    a.Detail,
		Label:     a.Label,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt.Format(time.RFC3339)
		dto.UpdatedAt = &t
	}
	return dto
}
