package repository

import (
	"context"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

type employeeGormRepository struct {
	db *gorm.DB
}

// DI
func NewEmployeeGormRepository(db *gorm.DB) repo.EmployeeRepository {
	return &employeeGormRepository{db: db}
}

func (r *employeeGormRepository) Create(ctx context.Context, e *model.Employee) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *employeeGormRepository) FindByID(ctx context.Context, id int64) (model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return model.Employee{}, translate(err)
	}
	return e, nil
}

// usernameで1件取得
func (r *employeeGormRepository) FindByUsername(ctx context.Context, username string) (model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&e).Error; err != nil {
		return model.Employee{}, translate(err)
	}
	return e, nil
}

func (r *employeeGormRepository) Update(ctx context.Context, e model.Employee) error {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("id = ?", e.ID).
		Select("username", "name", "phone", "sex", "id_number", "update_user").
		Updates(e)
	return affected(res)
}

func (r *employeeGormRepository) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "update_user": updateUser})
	return affected(res)
}

func (r *employeeGormRepository) UpdatePassword(ctx context.Context, id int64, hash string, updateUser int64) error {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "update_user": updateUser})
	return affected(res)
}

func (r *employeeGormRepository) Page(ctx context.Context, q repo.EmployeePageQuery) ([]model.Employee, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Employee{})
	if q.Name != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Name+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Employee{}, 0, err
	}

	var items []model.Employee
	if err := tx.Order("created_at desc, id desc").Limit(q.Limit).Offset(pageOffset(q.Page, q.Limit)).Find(&items).Error; err != nil {
		return []model.Employee{}, 0, err
	}
	return items, total, nil
}
