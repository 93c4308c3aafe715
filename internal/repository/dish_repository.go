package repository

import (
	"context"

	"takeout/internal/domain/model"
)

type DishPageQuery struct {
	Page       int
	Limit      int
	Name       string
	CategoryID *int64
	Status     *model.Status
}

type DishRepository interface {
	Create(ctx context.Context, dish *model.Dish) error
	FindByID(ctx context.Context, id int64) (model.Dish, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Dish, error)
	Update(ctx context.Context, dish model.Dish) error
	UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	Page(ctx context.Context, q DishPageQuery) ([]model.Dish, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.Dish, error)
}

// 料理の口味
type DishFlavorRepository interface {
	CreateBulk(ctx context.Context, dishID int64, flavors []model.DishFlavor) error
	ListByDishID(ctx context.Context, dishID int64) ([]model.DishFlavor, error)
	DeleteByDishIDs(ctx context.Context, dishIDs []int64) error
}
