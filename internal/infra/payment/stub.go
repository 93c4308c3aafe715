package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"takeout/internal/domain/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 外部決済の代わり。前払いIDを払い出し、返金はログだけ
type StubGateway struct {
	now func() time.Time
}

func NewStubGateway() *StubGateway {
	return &StubGateway{now: time.Now}
}

func (g *StubGateway) Prepay(ctx context.Context, order model.Order) (model.PaymentHandle, error) {
	prepayID := "wx" + strings.ReplaceAll(uuid.NewString(), "-", "")
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")

	zap.L().Info("prepay issued",
		zap.String("number", order.Number),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("prepay_id", prepayID),
	)

	return model.PaymentHandle{
		PrepayID:  prepayID,
		NonceStr:  nonce,
		TimeStamp: strconv.FormatInt(g.now().Unix(), 10),
		SignType:  "STUB",
		PaySign:   nonce,
	}, nil
}

func (g *StubGateway) Refund(ctx context.Context, order model.Order) error {
	zap.L().Info("refund requested",
		zap.String("number", order.Number),
		zap.String("amount", order.Amount.StringFixed(2)),
	)
	return nil
}
