package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CartItems() CartItemRepository
	Dishes() DishRepository
	DishFlavors() DishFlavorRepository
	Combos() ComboRepository
	ComboDishes() ComboDishRepository
	AuditLogs() AuditLogRepository
	Employees() EmployeeRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
