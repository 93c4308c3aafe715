package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
	payment   PaymentGateway
	events    EventPublisher
	clock     Clock
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	addresses repo.AddressRepository,
	payment PaymentGateway,
	events EventPublisher,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		addresses: addresses,
		payment:   payment,
		events:    events,
		clock:     clock,
	}
}

type SubmitOrderInput struct {
	AddressID       int64
	Remark          string
	PayMethod       int
	PackAmount      int
	TablewareNumber int
}

type SubmitOrderOutput struct {
	ID        int64           `json:"id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	OrderTime time.Time       `json:"order_time"`
}

type OrderItemOutput struct {
	DishID   *int64          `json:"dish_id,omitempty"`
	ComboID  *int64          `json:"combo_id,omitempty"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Flavor   string          `json:"flavor"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

type OrderOutput struct {
	model.Order
	Items []OrderItemOutput `json:"items"`
}

// 注文作成：住所・カートを確認して、注文＋明細作成とカート削除を1トランザクションで行う
func (u *OrderUsecase) Submit(ctx context.Context, userID int64, in SubmitOrderInput) (SubmitOrderOutput, error) {
	if userID <= 0 {
		return SubmitOrderOutput{}, ErrUnauthorized
	}
	if len(in.Remark) > 100 {
		return SubmitOrderOutput{}, badRequest("remark too long")
	}
	if in.PayMethod == 0 {
		in.PayMethod = 1
	}

	//住所の存在確認＋所有チェック（他人の住所は存在しない扱い）
	if in.AddressID <= 0 {
		return SubmitOrderOutput{}, ErrAddressNotFound
	}
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if errors.Is(err, repo.ErrNotFound) {
		return SubmitOrderOutput{}, ErrAddressNotFound
	}
	if err != nil {
		return SubmitOrderOutput{}, internalError(err)
	}
	if addr.UserID != userID {
		return SubmitOrderOutput{}, ErrAddressNotFound
	}

	var out SubmitOrderOutput
	var created model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート明細取得（ここまで書き込みなし）
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return internalError(err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		//スナップショット
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				DishID:   ci.DishID,
				ComboID:  ci.ComboID,
				Name:     ci.Name,
				Image:    ci.Image,
				Flavor:   ci.Flavor,
				Quantity: ci.Quantity,
				Amount:   ci.Amount,
			})
			total = total.Add(ci.Subtotal())
		}

		// 注文作成
		now := u.clock.Now()
		order := model.Order{
			Number:          newOrderNumber(),
			UserID:          userID,
			AddressID:       addr.ID,
			Status:          model.OrderStatusSubmitted,
			PayStatus:       model.PayStatusUnpaid,
			PayMethod:       in.PayMethod,
			Amount:          total,
			PackAmount:      in.PackAmount,
			TablewareNumber: in.TablewareNumber,
			Remark:          strings.TrimSpace(in.Remark),
			Consignee:       addr.Consignee,
			Phone:           addr.Phone,
			Address:         addr.FullText(),
			OrderTime:       now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return internalError(err)
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return internalError(err)
		}

		//カートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return internalError(err)
		}

		created = order
		out = SubmitOrderOutput{
			ID:        orderID,
			Number:    order.Number,
			Amount:    total,
			OrderTime: now,
		}
		return nil
	})
	if err != nil {
		return SubmitOrderOutput{}, err
	}

	u.publish(ctx, model.OrderEventSubmitted, created)
	return out, nil
}

// 支払い開始
func (u *OrderUsecase) Payment(ctx context.Context, userID int64, number string) (model.PaymentHandle, error) {
	if userID <= 0 {
		return model.PaymentHandle{}, ErrUnauthorized
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return model.PaymentHandle{}, badRequest("invalid order number")
	}

	var handle model.PaymentHandle
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNumber(ctx, number)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return internalError(err)
		}
		if o.UserID != userID {
			return ErrOrderNotFound
		}
		if o.PayStatus == model.PayStatusPaid {
			return ErrOrderAlreadyPaid
		}
		if o.Status != model.OrderStatusSubmitted {
			return ErrOrderStatus
		}

		h, err := u.payment.Prepay(ctx, o)
		if err != nil {
			return internalError(err)
		}
		handle = h
		return nil
	})
	if err != nil {
		return model.PaymentHandle{}, err
	}
	return handle, nil
}

// 支払い完了。本人の注文だけで、同じ通知が2回来ても何もしない
func (u *OrderUsecase) MarkPaid(ctx context.Context, userID int64, number string) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, ErrUnauthorized
	}

	var paid model.Order
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNumber(ctx, strings.TrimSpace(number))
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return internalError(err)
		}
		if o.UserID != userID {
			return ErrOrderNotFound
		}
		if o.PayStatus == model.PayStatusPaid {
			paid = o
			return nil
		}
		if o.Status != model.OrderStatusSubmitted {
			return ErrOrderStatus
		}

		now := u.clock.Now()
		o.Status = model.OrderStatusPaid
		o.PayStatus = model.PayStatusPaid
		o.CheckoutTime = &now
		if err := updateState(ctx, r, o, model.OrderStatusSubmitted); err != nil {
			return err
		}
		paid = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		u.publish(ctx, model.OrderEventPaid, paid)
	}
	return paid, nil
}

// ユーザーによる取り消し（受付前のみ）。支払い済みなら返金する
func (u *OrderUsecase) Cancel(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}

	var cancelled model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwned(ctx, r, userID, orderID)
		if err != nil {
			return err
		}
		if !o.UserCancellable() {
			return ErrOrderStatus
		}

		from := o.Status
		markRefunding(&o)
		now := u.clock.Now()
		o.Status = model.OrderStatusCancelled
		o.CancelReason = model.CancelReasonUser
		o.CancelTime = &now
		if err := updateState(ctx, r, o, from); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	refundAfterCancel(ctx, u.tx, u.payment, cancelled)
	u.publish(ctx, model.OrderEventCancelled, cancelled)
	return nil
}

// 過去の注文明細をそのままカートに入れ直す（価格は再確認しない）
func (u *OrderUsecase) Reorder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwned(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return internalError(err)
		}

		now := u.clock.Now()
		for _, it := range items {
			if err := addToCart(ctx, r.CartItems(), model.CartItem{
				UserID:    userID,
				DishID:    it.DishID,
				ComboID:   it.ComboID,
				Flavor:    it.Flavor,
				Name:      it.Name,
				Image:     it.Image,
				Quantity:  it.Quantity,
				Amount:    it.Amount,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// 同じ明細が既にカートにあれば数量を足す
func addToCart(ctx context.Context, cart repo.CartItemRepository, item model.CartItem) error {
	key := repo.CartItemKey{DishID: item.DishID, ComboID: item.ComboID, Flavor: item.Flavor}
	existing, err := cart.FindByKey(ctx, item.UserID, key)
	if err == nil {
		err = cart.AddQuantity(ctx, existing.ID, item.Quantity)
	} else if errors.Is(err, repo.ErrNotFound) {
		err = cart.Create(ctx, item)
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

// 催促（店舗に通知するだけ）
func (u *OrderUsecase) Remind(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}

	var o model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := u.findOwned(ctx, r, userID, orderID)
		o = found
		return err
	})
	if err != nil {
		return err
	}

	if err := u.events.PublishOrderEvent(ctx, toOrderEvent(model.OrderEventReminder, o, u.clock.Now())); err != nil {
		return internalError(err)
	}
	return nil
}

type OrderHistoryInput struct {
	Page     int
	PageSize int
	Status   string
}

func (u *OrderUsecase) History(ctx context.Context, userID int64, in OrderHistoryInput) (PageResult[OrderOutput], error) {
	if userID <= 0 {
		return PageResult[OrderOutput]{}, ErrUnauthorized
	}
	page, size, err := normalizePage(in.Page, in.PageSize)
	if err != nil {
		return PageResult[OrderOutput]{}, err
	}

	var out PageResult[OrderOutput]
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, in.Status, page, size)
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

func (u *OrderUsecase) Detail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwned(ctx, r, userID, orderID)
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

// 他人の注文は「存在しない扱い」にする
func (u *OrderUsecase) findOwned(ctx context.Context, r repo.TxRepos, userID, orderID int64) (model.Order, error) {
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
	if o.UserID != userID {
		return model.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// 送信失敗は注文自体を失敗にしない
func (u *OrderUsecase) publish(ctx context.Context, t model.OrderEventType, o model.Order) {
	if err := u.events.PublishOrderEvent(ctx, toOrderEvent(t, o, u.clock.Now())); err != nil {
		zap.L().Warn("publish order event failed",
			zap.String("type", string(t)),
			zap.String("number", o.Number),
			zap.Error(err))
	}
}

func toOrderEvent(t model.OrderEventType, o model.Order, at time.Time) model.OrderEvent {
	return model.OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		Number:     o.Number,
		UserID:     o.UserID,
		Status:     o.Status,
		Amount:     o.Amount,
		OccurredAt: at,
	}
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, internalError(err)
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			DishID:   it.DishID,
			ComboID:  it.ComboID,
			Name:     it.Name,
			Image:    it.Image,
			Flavor:   it.Flavor,
			Quantity: it.Quantity,
			Amount:   it.Amount,
		})
	}
	return OrderOutput{Order: o, Items: outItems}
}

// 時刻順に並ぶUUIDv7から注文番号を作る（同時刻でも衝突しない）
func newOrderNumber() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
