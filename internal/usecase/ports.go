package usecase

import (
	"context"
	"time"

	"takeout/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// JSONで値を置くキャッシュ（実装は redis）
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// 店舗側への注文イベント送信
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error
}

// 決済
type PaymentGateway interface {
	Prepay(ctx context.Context, order model.Order) (model.PaymentHandle, error)
	Refund(ctx context.Context, order model.Order) error
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(subject int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}
