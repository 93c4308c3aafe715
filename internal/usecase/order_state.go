package usecase

import (
	"context"
	"errors"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"go.uber.org/zap"
)

// 読んだ時の status のままなら書く。間に別の更新が入っていたら ErrOrderStatus
func updateState(ctx context.Context, r repo.TxRepos, o model.Order, from model.OrderStatus) error {
	err := r.Orders().UpdateState(ctx, o, from)
	if errors.Is(err, repo.ErrStateChanged) {
		return ErrOrderStatus
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

// 支払い済みの注文は返金待ちにしてから取り消す
func markRefunding(o *model.Order) {
	if o.PayStatus == model.PayStatusPaid {
		o.PayStatus = model.PayStatusRefunding
	}
}

// 取り消しのコミット後に返金する。失敗したら REFUNDING のまま残す
func refundAfterCancel(ctx context.Context, tx repo.TransactionManager, payment PaymentGateway, o model.Order) {
	if o.PayStatus != model.PayStatusRefunding {
		return
	}
	if err := payment.Refund(ctx, o); err != nil {
		zap.L().Error("refund failed", zap.String("number", o.Number), zap.Error(err))
		return
	}
	err := tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().UpdatePayStatus(ctx, o.ID, model.PayStatusRefunding, model.PayStatusRefunded)
	})
	if err != nil {
		zap.L().Error("mark refunded failed", zap.String("number", o.Number), zap.Error(err))
	}
}
