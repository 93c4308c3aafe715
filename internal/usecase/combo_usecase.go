package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// セットメニュー
type ComboUsecase struct {
	tx          repo.TransactionManager
	combos      repo.ComboRepository
	comboDishes repo.ComboDishRepository
	dishes      repo.DishRepository
	cache       Cache
	cacheTTL    time.Duration
	clock       Clock
}

// DI
func NewComboUsecase(
	tx repo.TransactionManager,
	combos repo.ComboRepository,
	comboDishes repo.ComboDishRepository,
	dishes repo.DishRepository,
	cache Cache,
	cacheTTL time.Duration,
	clock Clock,
) *ComboUsecase {
	return &ComboUsecase{
		tx:          tx,
		combos:      combos,
		comboDishes: comboDishes,
		dishes:      dishes,
		cache:       cache,
		cacheTTL:    cacheTTL,
		clock:       clock,
	}
}

// 名前と価格は料理の行から取る
type ComboDishInput struct {
	DishID int64 `json:"dish_id"`
	Copies int   `json:"copies"`
}

type ComboInput struct {
	Name        string           `json:"name"`
	CategoryID  int64            `json:"category_id"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Status      model.Status     `json:"status"`
	Dishes      []ComboDishInput `json:"dishes"`
}

func (in ComboInput) validate() error {
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
	if len(in.Dishes) == 0 {
		return badRequest("combo meal needs at least one dish")
	}
	for _, d := range in.Dishes {
		if d.DishID <= 0 || d.Copies < 1 {
			return badRequest("invalid combo dish")
		}
	}
	return nil
}

// 参照する料理を全部読み、紐づけを作る。無い料理があれば ErrDishNotFound
func (in ComboInput) resolveLinks(ctx context.Context, r repo.TxRepos, requireEnabled bool) ([]model.ComboMealDish, error) {
	ids := make([]int64, 0, len(in.Dishes))
	for _, d := range in.Dishes {
		ids = append(ids, d.DishID)
	}
	ids, err := uniqueIDs(ids)
	if err != nil {
		return nil, err
	}

	dishes, err := r.Dishes().FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err)
	}
	byID := make(map[int64]model.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	out := make([]model.ComboMealDish, 0, len(in.Dishes))
	for _, l := range in.Dishes {
		d, ok := byID[l.DishID]
		if !ok {
			return nil, ErrDishNotFound
		}
		if requireEnabled && d.Status != model.StatusEnabled {
			return nil, ErrComboEnableFailed
		}
		out = append(out, model.ComboMealDish{
			DishID: d.ID,
			Name:   d.Name,
			Price:  d.Price,
			Copies: l.Copies,
		})
	}
	return out, nil
}

type ComboWithDishes struct {
	model.ComboMeal
	Dishes []model.ComboMealDish `json:"dishes"`
}

type ComboPageInput struct {
	Page       int
	PageSize   int
	Name       string
	CategoryID *int64
	Status     *model.Status
}

// ユーザー向けのセット内容
type ComboDishItem struct {
	Name        string `json:"name"`
	Copies      int    `json:"copies"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (u *ComboUsecase) Save(ctx context.Context, actorID int64, in ComboInput) (int64, error) {
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
		links, err := in.resolveLinks(ctx, r, status == model.StatusEnabled)
		if err != nil {
			return err
		}

		c := model.ComboMeal{
			Name:        strings.TrimSpace(in.Name),
			CategoryID:  in.CategoryID,
			Price:       in.Price,
			Image:       in.Image,
			Description: in.Description,
			Status:      status,
			CreateUser:  actorID,
			UpdateUser:  actorID,
		}
		if err := r.Combos().Create(ctx, &c); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateName
			}
			return internalError(err)
		}
		if err := r.ComboDishes().CreateBulk(ctx, c.ID, links); err != nil {
			return internalError(err)
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.evict(ctx)
	return id, nil
}

func (u *ComboUsecase) Page(ctx context.Context, in ComboPageInput) (PageResult[model.ComboMeal], error) {
	page, size, err := normalizePage(in.Page, in.PageSize)
	if err != nil {
		return PageResult[model.ComboMeal]{}, err
	}

	items, total, err := u.combos.Page(ctx, repo.ComboPageQuery{
		Page:       page,
		Limit:      size,
		Name:       strings.TrimSpace(in.Name),
		CategoryID: in.CategoryID,
		Status:     in.Status,
	})
	if err != nil {
		return PageResult[model.ComboMeal]{}, internalError(err)
	}
	return PageResult[model.ComboMeal]{Total: total, Records: items}, nil
}

func (u *ComboUsecase) Get(ctx context.Context, id int64) (ComboWithDishes, error) {
	c, err := u.combos.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ComboWithDishes{}, ErrComboNotFound
	}
	if err != nil {
		return ComboWithDishes{}, internalError(err)
	}

	links, err := u.comboDishes.ListByComboID(ctx, id)
	if err != nil {
		return ComboWithDishes{}, internalError(err)
	}
	return ComboWithDishes{ComboMeal: c, Dishes: links}, nil
}

// 更新：紐づけは全削除→全登録
func (u *ComboUsecase) Update(ctx context.Context, actorID int64, id int64, in ComboInput) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return err
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Combos().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrComboNotFound
		}
		if err != nil {
			return internalError(err)
		}

		//販売中のセットに停止中の料理は入れられない
		links, err := in.resolveLinks(ctx, r, c.Status == model.StatusEnabled)
		if err != nil {
			return err
		}

		c.Name = strings.TrimSpace(in.Name)
		c.CategoryID = in.CategoryID
		c.Price = in.Price
		c.Image = in.Image
		c.Description = in.Description
		c.UpdateUser = actorID
		if err := r.Combos().Update(ctx, c); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateName
			}
			return internalError(err)
		}

		if err := r.ComboDishes().DeleteByComboIDs(ctx, []int64{id}); err != nil {
			return internalError(err)
		}
		if err := r.ComboDishes().CreateBulk(ctx, id, links); err != nil {
			return internalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.evict(ctx)
	return nil
}

// 販売開始は含まれる料理がすべて販売中のときだけ
func (u *ComboUsecase) StartOrStop(ctx context.Context, actorID int64, id int64, status model.Status) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}
	if !status.Valid() {
		return badRequest("invalid status")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Combos().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrComboNotFound
		}
		if err != nil {
			return internalError(err)
		}

		if status == model.StatusEnabled {
			links, err := r.ComboDishes().ListByComboID(ctx, id)
			if err != nil {
				return internalError(err)
			}
			if err := ensureDishesEnabled(ctx, r, links); err != nil {
				return err
			}
		}

		if err := r.Combos().UpdateStatus(ctx, id, status, actorID); err != nil {
			return internalError(err)
		}
		return writeAudit(ctx, r, actorID, model.AuditActionUpdateSaleStatus, model.AuditResourceCombo, id,
			map[string]model.Status{"status": c.Status}, map[string]model.Status{"status": status}, u.clock)
	})
	if err != nil {
		return err
	}

	u.evict(ctx)
	return nil
}

// 一括削除：販売中が1つでもあれば全体を失敗にする
func (u *ComboUsecase) DeleteBatch(ctx context.Context, actorID int64, ids []int64) error {
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
		combos, err := r.Combos().FindByIDs(ctx, ids)
		if err != nil {
			return internalError(err)
		}
		if len(combos) != len(ids) {
			return ErrComboNotFound
		}
		for _, c := range combos {
			if c.Status == model.StatusEnabled {
				return ErrComboOnSale
			}
		}

		if err := r.Combos().DeleteByIDs(ctx, ids); err != nil {
			return internalError(err)
		}
		if err := r.ComboDishes().DeleteByComboIDs(ctx, ids); err != nil {
			return internalError(err)
		}
		for _, c := range combos {
			if err := writeAudit(ctx, r, actorID, model.AuditActionDelete, model.AuditResourceCombo, c.ID, c, nil, u.clock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.evict(ctx)
	return nil
}

// ユーザー向け：販売中のセット（キャッシュ優先）
func (u *ComboUsecase) ListForCustomer(ctx context.Context, categoryID int64) ([]model.ComboMeal, error) {
	if categoryID <= 0 {
		return nil, badRequest("invalid category_id")
	}

	key := comboCacheKey(categoryID)
	var cached []model.ComboMeal
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	enabled := model.StatusEnabled
	items, err := u.combos.ListByCategory(ctx, categoryID, &enabled)
	if err != nil {
		return nil, internalError(err)
	}

	if err := u.cache.SetJSON(ctx, key, items, u.cacheTTL); err != nil {
		zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

// ユーザー向け：セットに含まれる料理
func (u *ComboUsecase) DishItems(ctx context.Context, comboID int64) ([]ComboDishItem, error) {
	links, err := u.comboDishes.ListByComboID(ctx, comboID)
	if err != nil {
		return nil, internalError(err)
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.DishID)
	}
	dishes, err := u.dishes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err)
	}
	byID := make(map[int64]model.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	out := make([]ComboDishItem, 0, len(links))
	for _, l := range links {
		d := byID[l.DishID]
		out = append(out, ComboDishItem{
			Name:        l.Name,
			Copies:      l.Copies,
			Image:       d.Image,
			Description: d.Description,
		})
	}
	return out, nil
}

func (u *ComboUsecase) evict(ctx context.Context) {
	if err := u.cache.DeletePattern(ctx, comboCachePattern); err != nil {
		zap.L().Warn("cache evict failed", zap.String("pattern", comboCachePattern), zap.Error(err))
	}
}

func ensureDishesEnabled(ctx context.Context, r repo.TxRepos, links []model.ComboMealDish) error {
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.DishID)
	}
	ids, err := uniqueIDs(ids)
	if err != nil {
		return err
	}

	dishes, err := r.Dishes().FindByIDs(ctx, ids)
	if err != nil {
		return internalError(err)
	}
	if len(dishes) != len(ids) {
		return ErrDishNotFound
	}
	for _, d := range dishes {
		if d.Status != model.StatusEnabled {
			return ErrComboEnableFailed
		}
	}
	return nil
}
