package task

import (
	"context"
	"errors"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 1回の実行に与える上限時間
const runTimeout = 50 * time.Second

type Clock interface {
	Now() time.Time
}

// 注文の定期処理（未払いのタイムアウト・配達中の自動完了）
type OrderTask struct {
	orders   repo.OrderRepository
	clock    Clock
	timeout  time.Duration
	lookback time.Duration
}

func NewOrderTask(orders repo.OrderRepository, clock Clock, timeout, lookback time.Duration) *OrderTask {
	return &OrderTask{orders: orders, clock: clock, timeout: timeout, lookback: lookback}
}

// order_time から timeout 過ぎても未払いの注文を取り消す
func (t *OrderTask) CancelTimedOut(ctx context.Context) (int, error) {
	now := t.clock.Now()
	return t.sweep(ctx, "cancel_timed_out", model.OrderStatusSubmitted, now.Add(-t.timeout), func(o *model.Order) {
		o.Status = model.OrderStatusCancelled
		o.CancelReason = model.CancelReasonTimeout
		o.CancelTime = &now
	})
}

// 配達中のまま残った注文を完了にする
func (t *OrderTask) CompleteDelivering(ctx context.Context) (int, error) {
	now := t.clock.Now()
	return t.sweep(ctx, "complete_delivering", model.OrderStatusDelivering, now.Add(-t.lookback), func(o *model.Order) {
		o.Status = model.OrderStatusCompleted
		o.DeliveryTime = &now
	})
}

// 1件ずつ読み直して書く。1件の失敗はログに残して続ける
func (t *OrderTask) sweep(ctx context.Context, name string, status model.OrderStatus, before time.Time, apply func(o *model.Order)) (int, error) {
	orders, err := t.orders.ListByStatusBefore(ctx, status, before)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, listed := range orders {
		o, err := t.orders.FindByID(ctx, listed.ID)
		if err != nil {
			zap.L().Error("order task: reload failed", zap.String("task", name), zap.Int64("order_id", listed.ID), zap.Error(err))
			continue
		}
		// 他の処理で既に動いた
		if o.Status != status {
			continue
		}

		apply(&o)
		err = t.orders.UpdateState(ctx, o, status)
		if errors.Is(err, repo.ErrStateChanged) {
			// 読み直した後に支払い・取り消しが入った
			zap.L().Info("order task: skipped changed order", zap.String("task", name), zap.Int64("order_id", o.ID))
			continue
		}
		if err != nil {
			zap.L().Error("order task: update failed", zap.String("task", name), zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}
		done++
	}

	if len(orders) > 0 {
		zap.L().Info("order task finished", zap.String("task", name), zap.Int("found", len(orders)), zap.Int("updated", done))
	}
	return done, nil
}

// cron に2つのジョブを登録する
func Register(c *cron.Cron, t *OrderTask, timeoutSpec, deliverySpec string) error {
	if _, err := c.AddFunc(timeoutSpec, t.run("cancel_timed_out", t.CancelTimedOut)); err != nil {
		return err
	}
	if _, err := c.AddFunc(deliverySpec, t.run("complete_delivering", t.CompleteDelivering)); err != nil {
		return err
	}
	return nil
}

func (t *OrderTask) run(name string, fn func(ctx context.Context) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := fn(ctx); err != nil {
			zap.L().Error("order task failed", zap.String("task", name), zap.Error(err))
		}
	}
}
