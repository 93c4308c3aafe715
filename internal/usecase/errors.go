package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type HTTPError struct {
	Status  int
	Message string
	Err     error // ログ用の元エラー（レスポンスには出さない）
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// DBなど内部の失敗は500にまとめる
func internalError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "db error",
		Err:     err,
	}
}

// 業務エラー（errors.Is で比較できるよう固定のポインタ）
var (
	ErrUnauthorized = &HTTPError{Status: http.StatusUnauthorized, Message: "unauthorized"}

	//注文
	ErrAddressNotFound  = &HTTPError{Status: http.StatusBadRequest, Message: "address book is empty"}
	ErrCartEmpty        = &HTTPError{Status: http.StatusBadRequest, Message: "shopping cart is empty"}
	ErrOrderNotFound    = &HTTPError{Status: http.StatusNotFound, Message: "order not found"}
	ErrOrderAlreadyPaid = &HTTPError{Status: http.StatusConflict, Message: "order has been paid"}
	ErrOrderStatus      = &HTTPError{Status: http.StatusConflict, Message: "order status error"}

	//商品
	ErrDishNotFound       = &HTTPError{Status: http.StatusNotFound, Message: "dish not found"}
	ErrDishOnSale         = &HTTPError{Status: http.StatusConflict, Message: "dish is on sale and cannot be deleted"}
	ErrDishRelatedByCombo = &HTTPError{Status: http.StatusConflict, Message: "dish is related by a combo meal and cannot be deleted"}
	ErrDishNotOnSale      = &HTTPError{Status: http.StatusBadRequest, Message: "dish is not on sale"}
	ErrComboNotFound      = &HTTPError{Status: http.StatusNotFound, Message: "combo meal not found"}
	ErrComboOnSale        = &HTTPError{Status: http.StatusConflict, Message: "combo meal is on sale and cannot be deleted"}
	ErrComboEnableFailed  = &HTTPError{Status: http.StatusConflict, Message: "combo meal contains a dish that is not on sale"}
	ErrDuplicateName      = &HTTPError{Status: http.StatusConflict, Message: "name already exists"}

	//アカウント
	ErrAccountNotFound    = &HTTPError{Status: http.StatusUnauthorized, Message: "account not found"}
	ErrPasswordError      = &HTTPError{Status: http.StatusUnauthorized, Message: "password error"}
	ErrAccountLocked      = &HTTPError{Status: http.StatusForbidden, Message: "account is locked"}
	ErrDuplicateUsername  = &HTTPError{Status: http.StatusConflict, Message: "username already exists"}
	ErrEmployeeNotFound   = &HTTPError{Status: http.StatusNotFound, Message: "employee not found"}
	ErrPasswordEditFailed = &HTTPError{Status: http.StatusBadRequest, Message: "password edit failed"}

	ErrNotFound = &HTTPError{Status: http.StatusNotFound, Message: "not found"}
)

func badRequest(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}
