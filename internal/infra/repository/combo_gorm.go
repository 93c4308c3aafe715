package repository

import (
	"context"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

type ComboGormRepository struct {
	db *gorm.DB
}

func NewComboGormRepository(db *gorm.DB) *ComboGormRepository {
	return &ComboGormRepository{db: db}
}

func (r *ComboGormRepository) Create(ctx context.Context, combo *model.ComboMeal) error {
	return translate(r.db.WithContext(ctx).Create(combo).Error)
}

func (r *ComboGormRepository) FindByID(ctx context.Context, id int64) (model.ComboMeal, error) {
	var c model.ComboMeal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return model.ComboMeal{}, translate(err)
	}
	return c, nil
}

func (r *ComboGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ComboMeal, error) {
	var items []model.ComboMeal
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return []model.ComboMeal{}, err
	}
	return items, nil
}

func (r *ComboGormRepository) Update(ctx context.Context, combo model.ComboMeal) error {
	res := r.db.WithContext(ctx).Model(&model.ComboMeal{}).
		Where("id = ?", combo.ID).
		Select("name", "category_id", "price", "image", "description", "update_user").
		Updates(combo)
	return affected(res)
}

func (r *ComboGormRepository) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	res := r.db.WithContext(ctx).Model(&model.ComboMeal{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "update_user": updateUser})
	return affected(res)
}

func (r *ComboGormRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ComboMeal{}).Error
}

func (r *ComboGormRepository) Page(ctx context.Context, q repo.ComboPageQuery) ([]model.ComboMeal, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.ComboMeal{})
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
		return []model.ComboMeal{}, 0, err
	}

	var items []model.ComboMeal
	if err := tx.Order("updated_at desc, id desc").Limit(q.Limit).Offset(pageOffset(q.Page, q.Limit)).Find(&items).Error; err != nil {
		return []model.ComboMeal{}, 0, err
	}
	return items, total, nil
}

func (r *ComboGormRepository) ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.ComboMeal, error) {
	tx := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}

	var items []model.ComboMeal
	if err := tx.Order("id asc").Find(&items).Error; err != nil {
		return []model.ComboMeal{}, err
	}
	return items, nil
}

type ComboDishGormRepository struct {
	db *gorm.DB
}

func NewComboDishGormRepository(db *gorm.DB) *ComboDishGormRepository {
	return &ComboDishGormRepository{db: db}
}

func (r *ComboDishGormRepository) CreateBulk(ctx context.Context, comboID int64, links []model.ComboMealDish) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].ID = 0
		links[i].ComboID = comboID
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *ComboDishGormRepository) ListByComboID(ctx context.Context, comboID int64) ([]model.ComboMealDish, error) {
	var items []model.ComboMealDish
	if err := r.db.WithContext(ctx).Where("combo_id = ?", comboID).Order("id asc").Find(&items).Error; err != nil {
		return []model.ComboMealDish{}, err
	}
	return items, nil
}

func (r *ComboDishGormRepository) DeleteByComboIDs(ctx context.Context, comboIDs []int64) error {
	if len(comboIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("combo_id IN ?", comboIDs).Delete(&model.ComboMealDish{}).Error
}

func (r *ComboDishGormRepository) ComboIDsByDishIDs(ctx context.Context, dishIDs []int64) ([]int64, error) {
	var ids []int64
	if len(dishIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&model.ComboMealDish{}).
		Where("dish_id IN ?", dishIDs).
		Distinct("combo_id").
		Pluck("combo_id", &ids).Error
	if err != nil {
		return []int64{}, err
	}
	return ids, nil
}
