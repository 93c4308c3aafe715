package repository

import (
	"context"

	"takeout/internal/domain/model"
)

type EmployeePageQuery struct {
	Page  int
	Limit int
	Name  string
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id int64) (model.Employee, error)
	FindByUsername(ctx context.Context, username string) (model.Employee, error)
	//プロフィール列の更新（パスワード・ステータスは別）
	Update(ctx context.Context, e model.Employee) error
	UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error
	UpdatePassword(ctx context.Context, id int64, hash string, updateUser int64) error
	Page(ctx context.Context, q EmployeePageQuery) ([]model.Employee, int64, error)
}
