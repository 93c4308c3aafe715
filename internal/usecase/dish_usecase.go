package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// キャッシュキー
const (
	dishCachePattern  = "dish_*"
	comboCachePattern = "combo_*"
)

func dishCacheKey(categoryID int64) string  { return fmt.Sprintf("dish_%d", categoryID) }
func comboCacheKey(categoryID int64) string { return fmt.Sprintf("combo_%d", categoryID) }

type DishUsecase struct {
	tx       repo.TransactionManager
	dishes   repo.DishRepository
	flavors  repo.DishFlavorRepository
	cache    Cache
	cacheTTL time.Duration
	clock    Clock
}

// DI
func NewDishUsecase(
	tx repo.TransactionManager,
	dishes repo.DishRepository,
	flavors repo.DishFlavorRepository,
	cache Cache,
	cacheTTL time.Duration,
	clock Clock,
) *DishUsecase {
	return &DishUsecase{
		tx:       tx,
		dishes:   dishes,
		flavors:  flavors,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    clock,
	}
}

type FlavorInput struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

type DishInput struct {
	Name        string          `json:"name"`
	CategoryID  int64           `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Status      model.Status    `json:"status"`
	Flavors     []FlavorInput   `json:"flavors"`
}

func (in DishInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 64 {
		return badRequest("invalid name")
	}
	if in.CategoryID <= 0 {
		return badRequest("invalid category_id")
	}
	if in.Price.IsNegative() {
		return badRequest("price must be >= 0")
	}
	if in.Status != "" && !in.Status.Valid() {
		return badRequest("invalid status")
	}
	for _, f := range in.Flavors {
		if strings.TrimSpace(f.Name) == "" || len(f.Value) == 0 {
			return badRequest("invalid flavor")
		}
	}
	return nil
}

func (in DishInput) flavorModels() []model.DishFlavor {
	out := make([]model.DishFlavor, 0, len(in.Flavors))
	for _, f := range in.Flavors {
		out = append(out, model.DishFlavor{
			Name:  strings.TrimSpace(f.Name),
			Value: datatypes.JSONSlice[string](f.Value),
		})
	}
	return out
}

type DishWithFlavors struct {
	model.Dish
	Flavors []model.DishFlavor `json:"flavors"`
}

type DishPageInput struct {
	Page       int
	PageSize   int
	Name       string
	CategoryID *int64
	Status     *model.Status
}

// 料理＋口味をまとめて登録
func (u *DishUsecase) Save(ctx context.Context, actorID int64, in DishInput) (int64, error) {
	if actorID <= 0 {
		return 0, ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return 0, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusDisabled
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d := model.Dish{
			Name:        strings.TrimSpace(in.Name),
			CategoryID:  in.CategoryID,
			Price:       in.Price,
			Image:       in.Image,
			Description: in.Description,
			Status:      status,
			CreateUser:  actorID,
			UpdateUser:  actorID,
		}
		if err := r.Dishes().Create(ctx, &d); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateName
			}
			return internalError(err)
		}
		if err := r.DishFlavors().CreateBulk(ctx, d.ID, in.flavorModels()); err != nil {
			return internalError(err)
		}
		id = d.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.evict(ctx, dishCachePattern)
	return id, nil
}

func (u *DishUsecase) Page(ctx context.Context, in DishPageInput) (PageResult[model.Dish], error) {
	page, size, err := normalizePage(in.Page, in.PageSize)
	if err != nil {
		return PageResult[model.Dish]{}, err
	}

	items, total, err := u.dishes.Page(ctx, repo.DishPageQuery{
		Page:       page,
		Limit:      size,
		Name:       strings.TrimSpace(in.Name),
		CategoryID: in.CategoryID,
		Status:     in.Status,
	})
	if err != nil {
		return PageResult[model.Dish]{}, internalError(err)
	}
	return PageResult[model.Dish]{Total: total, Records: items}, nil
}

func (u *DishUsecase) Get(ctx context.Context, id int64) (DishWithFlavors, error) {
	d, err := u.dishes.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return DishWithFlavors{}, ErrDishNotFound
	}
	if err != nil {
		return DishWithFlavors{}, internalError(err)
	}

	flavors, err := u.flavors.ListByDishID(ctx, id)
	if err != nil {
		return DishWithFlavors{}, internalError(err)
	}
	return DishWithFlavors{Dish: d, Flavors: flavors}, nil
}

// 更新：口味は全削除→全登録
func (u *DishUsecase) Update(ctx context.Context, actorID int64, id int64, in DishInput) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return err
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := r.Dishes().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDishNotFound
		}
		if err != nil {
			return internalError(err)
		}

		d.Name = strings.TrimSpace(in.Name)
		d.CategoryID = in.CategoryID
		d.Price = in.Price
		d.Image = in.Image
		d.Description = in.Description
		d.UpdateUser = actorID
		if err := r.Dishes().Update(ctx, d); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateName
			}
			return internalError(err)
		}

		if err := r.DishFlavors().DeleteByDishIDs(ctx, []int64{id}); err != nil {
			return internalError(err)
		}
		if err := r.DishFlavors().CreateBulk(ctx, id, in.flavorModels()); err != nil {
			return internalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.evict(ctx, dishCachePattern)
	return nil
}

// 販売開始/停止。停止するとその料理を含むセットも停止する
func (u *DishUsecase) StartOrStop(ctx context.Context, actorID int64, id int64, status model.Status) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if !status.Valid() {
		return badRequest("invalid status")
	}

	combosChanged := false
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := r.Dishes().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDishNotFound
		}
		if err != nil {
			return internalError(err)
		}

		if err := r.Dishes().UpdateStatus(ctx, id, status, actorID); err != nil {
			return internalError(err)
		}
		if err := writeAudit(ctx, r, actorID, model.AuditActionUpdateSaleStatus, model.AuditResourceDish, id,
			map[string]model.Status{"status": d.Status}, map[string]model.Status{"status": status}, u.clock); err != nil {
			return err
		}

		if status != model.StatusDisabled {
			return nil
		}
		comboIDs, err := r.ComboDishes().ComboIDsByDishIDs(ctx, []int64{id})
		if err != nil {
			return internalError(err)
		}
		for _, cid := range comboIDs {
			if err := r.Combos().UpdateStatus(ctx, cid, model.StatusDisabled, actorID); err != nil {
				return internalError(err)
			}
			combosChanged = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.evict(ctx, dishCachePattern)
	if combosChanged {
		u.evict(ctx, comboCachePattern)
	}
	return nil
}

// 一括削除：販売中、またはセットに含まれる料理が1つでもあれば全体を失敗にする
func (u *DishUsecase) DeleteBatch(ctx context.Context, actorID int64, ids []int64) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	ids, err := uniqueIDs(ids)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return badRequest("ids is required")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		dishes, err := r.Dishes().FindByIDs(ctx, ids)
		if err != nil {
			return internalError(err)
		}
		if len(dishes) != len(ids) {
			return ErrDishNotFound
		}
		for _, d := range dishes {
			if d.Status == model.StatusEnabled {
				return ErrDishOnSale
			}
		}

		comboIDs, err := r.ComboDishes().ComboIDsByDishIDs(ctx, ids)
		if err != nil {
			return internalError(err)
		}
		if len(comboIDs) > 0 {
			return ErrDishRelatedByCombo
		}

		if err := r.Dishes().DeleteByIDs(ctx, ids); err != nil {
			return internalError(err)
		}
		if err := r.DishFlavors().DeleteByDishIDs(ctx, ids); err != nil {
			return internalError(err)
		}
		for _, d := range dishes {
			if err := writeAudit(ctx, r, actorID, model.AuditActionDelete, model.AuditResourceDish, d.ID, d, nil, u.clock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.evict(ctx, dishCachePattern)
	return nil
}

// 管理画面用：カテゴリ内の料理（販売状態を問わない）
func (u *DishUsecase) ListByCategory(ctx context.Context, categoryID int64) ([]model.Dish, error) {
	if categoryID <= 0 {
		return nil, badRequest("invalid category_id")
	}
	items, err := u.dishes.ListByCategory(ctx, categoryID, nil)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

// ユーザー向け：販売中の料理＋口味（キャッシュ優先）
func (u *DishUsecase) ListForCustomer(ctx context.Context, categoryID int64) ([]DishWithFlavors, error) {
	if categoryID <= 0 {
		return nil, badRequest("invalid category_id")
	}

	key := dishCacheKey(categoryID)
	var cached []DishWithFlavors
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	enabled := model.StatusEnabled
	dishes, err := u.dishes.ListByCategory(ctx, categoryID, &enabled)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]DishWithFlavors, 0, len(dishes))
	for _, d := range dishes {
		flavors, err := u.flavors.ListByDishID(ctx, d.ID)
		if err != nil {
			return nil, internalError(err)
		}
		out = append(out, DishWithFlavors{Dish: d, Flavors: flavors})
	}

	if err := u.cache.SetJSON(ctx, key, out, u.cacheTTL); err != nil {
		zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

// キャッシュ削除の失敗はログだけ
func (u *DishUsecase) evict(ctx context.Context, pattern string) {
	if err := u.cache.DeletePattern(ctx, pattern); err != nil {
		zap.L().Warn("cache evict failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// 重複は除く。0以下が混じっていたら全体を弾く
func uniqueIDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, badRequest("invalid id")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
