package repository

import "errors"

// 対象の行が無い
var ErrNotFound = errors.New("not found")

// 一意制約違反
var ErrDuplicate = errors.New("duplicate")

// 読んだ後に別の処理が状態を変えた（条件付き更新で0件）
var ErrStateChanged = errors.New("state changed")
