package repository

import (
	"context"

	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	cartItems   repo.CartItemRepository
	dishes      repo.DishRepository
	dishFlavors repo.DishFlavorRepository
	combos      repo.ComboRepository
	comboDishes repo.ComboDishRepository
	auditLogs   repo.AuditLogRepository
	employees   repo.EmployeeRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) CartItems() repo.CartItemRepository     { return r.cartItems }
func (r *txReposGorm) Dishes() repo.DishRepository            { return r.dishes }
func (r *txReposGorm) DishFlavors() repo.DishFlavorRepository { return r.dishFlavors }
func (r *txReposGorm) Combos() repo.ComboRepository           { return r.combos }
func (r *txReposGorm) ComboDishes() repo.ComboDishRepository  { return r.comboDishes }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }
func (r *txReposGorm) Employees() repo.EmployeeRepository     { return r.employees }

// トランザクション外でも同じ形で使えるようにする
func NewRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		orders:      NewOrderGormRepository(db),
		orderItems:  NewOrderItemGormRepository(db),
		cartItems:   NewCartGormRepository(db),
		dishes:      NewDishGormRepository(db),
		dishFlavors: NewDishFlavorGormRepository(db),
		combos:      NewComboGormRepository(db),
		comboDishes: NewComboDishGormRepository(db),
		auditLogs:   NewAuditLogGormRepository(db),
		employees:   NewEmployeeGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewRepos(tx))
	})
}
