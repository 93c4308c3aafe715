package repository

import (
	"context"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

type DishGormRepository struct {
	db *gorm.DB
}

func NewDishGormRepository(db *gorm.DB) *DishGormRepository {
	return &DishGormRepository{db: db}
}

func (r *DishGormRepository) Create(ctx context.Context, dish *model.Dish) error {
	return translate(r.db.WithContext(ctx).Create(dish).Error)
}

func (r *DishGormRepository) FindByID(ctx context.Context, id int64) (model.Dish, error) {
	var d model.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return model.Dish{}, translate(err)
	}
	return d, nil
}

func (r *DishGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Dish, error) {
	var items []model.Dish
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return []model.Dish{}, err
	}
	return items, nil
}

// 基本情報だけ更新（ステータスは StartOrStop で変える）
func (r *DishGormRepository) Update(ctx context.Context, dish model.Dish) error {
	res := r.db.WithContext(ctx).Model(&model.Dish{}).
		Where("id = ?", dish.ID).
		Select("name", "category_id", "price", "image", "description", "update_user").
		Updates(dish)
	return affected(res)
}

func (r *DishGormRepository) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	res := r.db.WithContext(ctx).Model(&model.Dish{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "update_user": updateUser})
	return affected(res)
}

func (r *DishGormRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Dish{}).Error
}

func (r *DishGormRepository) Page(ctx context.Context, q repo.DishPageQuery) ([]model.Dish, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Dish{})
	if q.Name != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Name+"%")
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Dish{}, 0, err
	}

	var items []model.Dish
	if err := tx.Order("updated_at desc, id desc").Limit(q.Limit).Offset(pageOffset(q.Page, q.Limit)).Find(&items).Error; err != nil {
		return []model.Dish{}, 0, err
	}
	return items, total, nil
}

func (r *DishGormRepository) ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.Dish, error) {
	tx := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}

	var items []model.Dish
	if err := tx.Order("id asc").Find(&items).Error; err != nil {
		return []model.Dish{}, err
	}
	return items, nil
}

type DishFlavorGormRepository struct {
	db *gorm.DB
}

func NewDishFlavorGormRepository(db *gorm.DB) *DishFlavorGormRepository {
	return &DishFlavorGormRepository{db: db}
}

func (r *DishFlavorGormRepository) CreateBulk(ctx context.Context, dishID int64, flavors []model.DishFlavor) error {
	if len(flavors) == 0 {
		return nil
	}
	for i := range flavors {
		flavors[i].ID = 0
		flavors[i].DishID = dishID
	}
	return r.db.WithContext(ctx).Create(&flavors).Error
}

func (r *DishFlavorGormRepository) ListByDishID(ctx context.Context, dishID int64) ([]model.DishFlavor, error) {
	var items []model.DishFlavor
	if err := r.db.WithContext(ctx).Where("dish_id = ?", dishID).Order("id asc").Find(&items).Error; err != nil {
		return []model.DishFlavor{}, err
	}
	return items, nil
}

func (r *DishFlavorGormRepository) DeleteByDishIDs(ctx context.Context, dishIDs []int64) error {
	if len(dishIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("dish_id IN ?", dishIDs).Delete(&model.DishFlavor{}).Error
}
