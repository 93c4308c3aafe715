package repository

import (
	"errors"

	"takeout/internal/infra/db"
	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーに変換
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if db.IsUniqueViolation(err) {
		return repo.ErrDuplicate
	}
	return err
}

// 更新・削除で0件なら ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付き更新で0件なら ErrStateChanged
func guarded(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrStateChanged
	}
	return nil
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
