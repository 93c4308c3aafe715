package middleware

import (
	"net/http"

	"takeout/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleが一致するか確認します。
// 管理画面はEMPLOYEE、ユーザー側はUSERのトークンだけ通す
func RoleGuard(want model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(model.Role)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != want {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
