package repository

import (
	"context"
	"time"

	"takeout/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	//レポート用：[begin, end) に登録した人数 / end より前の累計
	CountCreatedBetween(ctx context.Context, begin, end time.Time) (int64, error)
	CountCreatedBefore(ctx context.Context, end time.Time) (int64, error)
}
