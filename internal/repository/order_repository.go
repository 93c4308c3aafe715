package repository

import (
	"context"
	"time"

	"takeout/internal/domain/model"

	"github.com/shopspring/decimal"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Number string
	Phone  string
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByNumber(ctx context.Context, number string) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, status string, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//ステータス・支払い・時刻・理由の列だけ更新する。
	//現在のstatusが from のときだけ書き、違えば ErrStateChanged
	UpdateState(ctx context.Context, order model.Order, from model.OrderStatus) error

	//返金の結果を書く（pay_status が from のときだけ）
	UpdatePayStatus(ctx context.Context, orderID int64, from, to model.PayStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)

	//定期処理用：指定ステータスで order_time < before のもの
	ListByStatusBefore(ctx context.Context, status model.OrderStatus, before time.Time) ([]model.Order, error)

	//レポート用（status が空なら全件）
	SumAmount(ctx context.Context, status model.OrderStatus, begin, end time.Time) (decimal.Decimal, error)
	Count(ctx context.Context, status model.OrderStatus, begin, end time.Time) (int64, error)
}
