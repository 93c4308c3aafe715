package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EmployeeChecker interface {
	IsActive(ctx context.Context, id int64) (bool, error)
}

// ロックされた従業員はトークンが有効期限内でも弾く。
func EmployeeStatusGuard(employees EmployeeChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			id, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || id <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新の状態を取得する
			active, err := employees.IsActive(c.Request().Context(), id)
			if err != nil {
				zap.L().Error("employee status check failed", zap.Int64("employee_id", id), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			if !active {
				return c.JSON(http.StatusForbidden, errorJSON("account is locked"))
			}

			return next(c)
		}
	}
}
