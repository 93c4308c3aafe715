package server

import (
	"takeout/internal/domain/model"
	"takeout/internal/handler"
	"takeout/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Employee   *handler.EmployeeHandler
	Dish       *handler.DishHandler
	Combo      *handler.ComboHandler
	Shop       *handler.ShopHandler
	AdminOrder *handler.AdminOrderHandler
	Report     *handler.ReportHandler
	AuditLog   *handler.AuditLogHandler

	Auth    *handler.AuthHandler
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
	Address *handler.AddressHandler
}

// /admin は従業員トークン、/user はユーザートークン
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, employees middleware.EmployeeChecker) {
	adminPublic := e.Group("/admin")
	h.Employee.RegisterPublicRoutes(adminPublic)

	admin := e.Group(
		"/admin",
		middleware.AuthJWT(jwtSecret),
		middleware.RoleGuard(model.RoleEmployee),
		middleware.EmployeeStatusGuard(employees),
	)
	h.Employee.RegisterRoutes(admin)
	h.Dish.RegisterRoutes(admin)
	h.Combo.RegisterRoutes(admin)
	h.Shop.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.Report.RegisterRoutes(admin)
	h.AuditLog.RegisterRoutes(admin)

	userPublic := e.Group("/user")
	h.Auth.RegisterRoutes(userPublic)
	h.Shop.RegisterUserRoutes(userPublic)

	user := e.Group(
		"/user",
		middleware.AuthJWT(jwtSecret),
		middleware.RoleGuard(model.RoleUser),
	)
	h.Dish.RegisterUserRoutes(user)
	h.Combo.RegisterUserRoutes(user)
	h.Order.RegisterRoutes(user)
	h.Cart.RegisterRoutes(user)
	h.Address.RegisterRoutes(user)
}
