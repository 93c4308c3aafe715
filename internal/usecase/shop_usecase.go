package usecase

import (
	"context"
)

const shopStatusKey = "SHOP_STATUS"

// 営業状態（1=営業中, 0=準備中）
const (
	ShopOpen   = 1
	ShopClosed = 0
)

// 営業状態はキャッシュだけに置く
type ShopUsecase struct {
	cache Cache
}

func NewShopUsecase(cache Cache) *ShopUsecase {
	return &ShopUsecase{cache: cache}
}

func (u *ShopUsecase) SetStatus(ctx context.Context, status int) error {
	if status != ShopOpen && status != ShopClosed {
		return badRequest("invalid shop status")
	}
	if err := u.cache.SetJSON(ctx, shopStatusKey, status, 0); err != nil {
		return internalError(err)
	}
	return nil
}

// 未設定なら準備中
func (u *ShopUsecase) GetStatus(ctx context.Context) (int, error) {
	var status int
	ok, err := u.cache.GetJSON(ctx, shopStatusKey, &status)
	if err != nil {
		return 0, internalError(err)
	}
	if !ok {
		return ShopClosed, nil
	}
	return status, nil
}
