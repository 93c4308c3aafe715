package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// 管理画面の注文操作
type AdminOrderUsecase struct {
	tx      repo.TransactionManager
	payment PaymentGateway
	events  EventPublisher
	clock   Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, payment PaymentGateway, events EventPublisher, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, payment: payment, events: events, clock: clock}
}

// 受付待ち・受付済み・配達中の件数
type OrderStatistics struct {
	ToBeConfirmed      int64 `json:"to_be_confirmed"`
	Confirmed          int64 `json:"confirmed"`
	DeliveryInProgress int64 `json:"delivery_in_progress"`
}

func (u *AdminOrderUsecase) Search(ctx context.Context, f repo.AdminOrderListFilter) (PageResult[OrderOutput], error) {
	if f.Page < 1 {
		return PageResult[OrderOutput]{}, badRequest("invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return PageResult[OrderOutput]{}, badRequest("invalid limit")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return PageResult[OrderOutput]{}, badRequest("invalid period")
	}

	var out PageResult[OrderOutput]
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return internalError(err)
		}
		outs, err := withItems(ctx, r, orders)
		if err != nil {
			return err
		}
		out = PageResult[OrderOutput]{Total: total, Records: outs}
		return nil
	})
	if err != nil {
		return PageResult[OrderOutput]{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Statistics(ctx context.Context) (OrderStatistics, error) {
	var out OrderStatistics
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		counts := []struct {
			status model.OrderStatus
			dst    *int64
		}{
			{model.OrderStatusPaid, &out.ToBeConfirmed},
			{model.OrderStatusConfirmed, &out.Confirmed},
			{model.OrderStatusDelivering, &out.DeliveryInProgress},
		}
		for _, c := range counts {
			n, err := r.Orders().CountByStatus(ctx, c.status)
			if err != nil {
				return internalError(err)
			}
			*c.dst = n
		}
		return nil
	})
	if err != nil {
		return OrderStatistics{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Detail(ctx context.Context, orderID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		outs, err := withItems(ctx, r, []model.Order{o})
		if err != nil {
			return err
		}
		out = outs[0]
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 受付：PAID → CONFIRMED
func (u *AdminOrderUsecase) Confirm(ctx context.Context, actorID, orderID int64) error {
	return u.transition(ctx, actorID, orderID, func(o *model.Order) error {
		if o.Status != model.OrderStatusPaid {
			return ErrOrderStatus
		}
		o.Status = model.OrderStatusConfirmed
		return nil
	})
}

// 拒否：PAID → CANCELLED（返金あり）
func (u *AdminOrderUsecase) Reject(ctx context.Context, actorID, orderID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return badRequest("rejection reason is required")
	}
	return u.transition(ctx, actorID, orderID, func(o *model.Order) error {
		if o.Status != model.OrderStatusPaid {
			return ErrOrderStatus
		}
		markRefunding(o)
		now := u.clock.Now()
		o.Status = model.OrderStatusCancelled
		o.RejectionReason = reason
		o.CancelTime = &now
		return nil
	})
}

// 配達開始：CONFIRMED → DELIVERING
func (u *AdminOrderUsecase) Deliver(ctx context.Context, actorID, orderID int64) error {
	return u.transition(ctx, actorID, orderID, func(o *model.Order) error {
		if o.Status != model.OrderStatusConfirmed {
			return ErrOrderStatus
		}
		o.Status = model.OrderStatusDelivering
		return nil
	})
}

// 完了：DELIVERING → COMPLETED
func (u *AdminOrderUsecase) Complete(ctx context.Context, actorID, orderID int64) error {
	return u.transition(ctx, actorID, orderID, func(o *model.Order) error {
		if o.Status != model.OrderStatusDelivering {
			return ErrOrderStatus
		}
		now := u.clock.Now()
		o.Status = model.OrderStatusCompleted
		o.DeliveryTime = &now
		return nil
	})
}

// 店舗側の取り消し（完了前ならいつでも）
func (u *AdminOrderUsecase) Cancel(ctx context.Context, actorID, orderID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return badRequest("cancel reason is required")
	}
	return u.transition(ctx, actorID, orderID, func(o *model.Order) error {
		if !o.AdminCancellable() {
			return ErrOrderStatus
		}
		markRefunding(o)
		now := u.clock.Now()
		o.Status = model.OrderStatusCancelled
		o.CancelReason = reason
		o.CancelTime = &now
		return nil
	})
}

type orderAuditState struct {
	Status    model.OrderStatus `json:"status"`
	PayStatus model.PayStatus   `json:"pay_status"`
}

// 読んで→変えて→保存＋監査ログ（同じトランザクション）
func (u *AdminOrderUsecase) transition(ctx context.Context, actorID, orderID int64, apply func(o *model.Order) error) error {
	if actorID <= 0 {
		return ErrUnauthorized
	}

	var after model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		before := orderAuditState{Status: o.Status, PayStatus: o.PayStatus}

		if err := apply(&o); err != nil {
			return err
		}
		if err := updateState(ctx, r, o, before.Status); err != nil {
			return err
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
			before, orderAuditState{Status: o.Status, PayStatus: o.PayStatus}, u.clock); err != nil {
			return err
		}
		after = o
		return nil
	})
	if err != nil {
		return err
	}

	refundAfterCancel(ctx, u.tx, u.payment, after)
	if after.Status == model.OrderStatusCancelled {
		// 通知失敗で取り消しは戻さない
		if err := u.events.PublishOrderEvent(ctx, toOrderEvent(model.OrderEventCancelled, after, u.clock.Now())); err != nil {
			zap.L().Warn("publish order event failed", zap.String("number", after.Number), zap.Error(err))
		}
	}
	return nil
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, ErrOrderNotFound
	}
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, internalError(err)
	}
	return o, nil
}

// 監査ログを書く（before/after はJSON）
func writeAudit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, resType model.AuditResourceType, resID int64, before, after any, clock Clock) error {
	b, err := json.Marshal(before)
	if err != nil {
		return internalError(err)
	}
	a, err := json.Marshal(after)
	if err != nil {
		return internalError(err)
	}
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorEmployeeID: actorID,
		Action:          action,
		ResourceType:    resType,
		ResourceID:      resID,
		Before:          datatypes.JSON(b),
		After:           datatypes.JSON(a),
		CreatedAt:       clock.Now(),
	}); err != nil {
		return internalError(err)
	}
	return nil
}
