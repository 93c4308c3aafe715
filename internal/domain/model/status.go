package model

// 販売・アカウントの有効/無効
type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

func (s Status) Valid() bool {
	return s == StatusEnabled || s == StatusDisabled
}
