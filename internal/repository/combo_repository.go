package repository

import (
	"context"

	"takeout/internal/domain/model"
)

type ComboPageQuery struct {
	Page       int
	Limit      int
	Name       string
	CategoryID *int64
	Status     *model.Status
}

type ComboRepository interface {
	Create(ctx context.Context, combo *model.ComboMeal) error
	FindByID(ctx context.Context, id int64) (model.ComboMeal, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ComboMeal, error)
	Update(ctx context.Context, combo model.ComboMeal) error
	UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	Page(ctx context.Context, q ComboPageQuery) ([]model.ComboMeal, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.ComboMeal, error)
}

// セットと料理の紐づけ
type ComboDishRepository interface {
	CreateBulk(ctx context.Context, comboID int64, links []model.ComboMealDish) error
	ListByComboID(ctx context.Context, comboID int64) ([]model.ComboMealDish, error)
	DeleteByComboIDs(ctx context.Context, comboIDs []int64) error
	//料理を含むセットのID
	ComboIDsByDishIDs(ctx context.Context, dishIDs []int64) ([]int64, error)
}
