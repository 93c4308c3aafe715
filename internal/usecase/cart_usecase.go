package usecase

import (
	"context"
	"errors"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /user/shoppingCart の業務ロジックです。
type CartUsecase struct {
	cart   repo.CartItemRepository
	dishes repo.DishRepository
	combos repo.ComboRepository
	clock  Clock
}

func NewCartUsecase(
	cart repo.CartItemRepository,
	dishes repo.DishRepository,
	combos repo.ComboRepository,
	clock Clock,
) *CartUsecase {
	return &CartUsecase{
		cart:   cart,
		dishes: dishes,
		combos: combos,
		clock:  clock,
	}
}

// 料理（+口味）かセットのどちらか一方
type CartInput struct {
	DishID  *int64 `json:"dish_id"`
	ComboID *int64 `json:"combo_id"`
	Flavor  string `json:"flavor"`
}

func (in CartInput) key() (repo.CartItemKey, error) {
	if (in.DishID == nil) == (in.ComboID == nil) {
		return repo.CartItemKey{}, badRequest("either dish_id or combo_id is required")
	}
	if in.ComboID != nil {
		return repo.CartItemKey{ComboID: in.ComboID}, nil
	}
	return repo.CartItemKey{DishID: in.DishID, Flavor: in.Flavor}, nil
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

func (u *CartUsecase) List(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrUnauthorized
	}

	items, err := u.cart.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, internalError(err)
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return CartResponse{Items: items, Total: total}, nil
}

// Add はカートに追加（同じ明細は数量+1）。
func (u *CartUsecase) Add(ctx context.Context, userID int64, in CartInput) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	key, err := in.key()
	if err != nil {
		return err
	}

	existing, err := u.cart.FindByKey(ctx, userID, key)
	if err == nil {
		return u.increment(ctx, existing.ID)
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return internalError(err)
	}

	//価格・名前は追加時点のものを保存
	item := model.CartItem{
		UserID:    userID,
		DishID:    key.DishID,
		ComboID:   key.ComboID,
		Flavor:    key.Flavor,
		Quantity:  1,
		CreatedAt: u.clock.Now(),
	}
	if key.DishID != nil {
		d, err := u.dishes.FindByID(ctx, *key.DishID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDishNotFound
		}
		if err != nil {
			return internalError(err)
		}
		if d.Status != model.StatusEnabled {
			return ErrDishNotOnSale
		}
		item.Name, item.Image, item.Amount = d.Name, d.Image, d.Price
	} else {
		c, err := u.combos.FindByID(ctx, *key.ComboID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrComboNotFound
		}
		if err != nil {
			return internalError(err)
		}
		if c.Status != model.StatusEnabled {
			return ErrDishNotOnSale
		}
		item.Name, item.Image, item.Amount = c.Name, c.Image, c.Price
	}

	err = u.cart.Create(ctx, item)
	if errors.Is(err, repo.ErrDuplicate) {
		//同時の追加に先を越された。その行に足す
		existing, err := u.cart.FindByKey(ctx, userID, key)
		if err != nil {
			return internalError(err)
		}
		return u.increment(ctx, existing.ID)
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

func (u *CartUsecase) increment(ctx context.Context, cartItemID int64) error {
	if err := u.cart.AddQuantity(ctx, cartItemID, 1); err != nil {
		return internalError(err)
	}
	return nil
}

// Sub は数量を1減らす（1なら明細を削除）。
func (u *CartUsecase) Sub(ctx context.Context, userID int64, in CartInput) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	key, err := in.key()
	if err != nil {
		return err
	}

	existing, err := u.cart.FindByKey(ctx, userID, key)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return internalError(err)
	}

	if existing.Quantity > 1 {
		err = u.cart.AddQuantity(ctx, existing.ID, -1)
		if !errors.Is(err, repo.ErrNotFound) {
			if err != nil {
				return internalError(err)
			}
			return nil
		}
		//同時の減算で1になった
	}
	err = u.cart.DeleteByID(ctx, existing.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return internalError(err)
	}
	return nil
}

func (u *CartUsecase) Clean(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if err := u.cart.DeleteByUserID(ctx, userID); err != nil {
		return internalError(err)
	}
	return nil
}
