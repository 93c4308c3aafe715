package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// in-memory store（Txの失敗時はスナップショットへ戻す）
// =====================

type memData struct {
	nextID      int64
	orders      map[int64]model.Order
	orderItems  map[int64][]model.OrderItem
	cartItems   map[int64]model.CartItem
	dishes      map[int64]model.Dish
	flavors     map[int64][]model.DishFlavor
	combos      map[int64]model.ComboMeal
	comboDishes map[int64][]model.ComboMealDish
	auditLogs   []model.AuditLog
	employees   map[int64]model.Employee
	addresses   map[int64]model.Address
	users       map[int64]model.User
}

type memStore struct {
	mu sync.Mutex
	memData

	// "Orders.Create" などのキーで書き込みを失敗させる
	fail map[string]error

	// 注文を1回読んだ直後に割り込む別の更新（ロールバックでも消えない）
	interleave func(d *memData, orderID int64)
	outside    []func(d *memData)

	// カート明細の INSERT 直前に割り込む別の追加
	beforeCartCreate func(d *memData)
}

func newMemStore() *memStore {
	return &memStore{
		memData: memData{
			orders:      map[int64]model.Order{},
			orderItems:  map[int64][]model.OrderItem{},
			cartItems:   map[int64]model.CartItem{},
			dishes:      map[int64]model.Dish{},
			flavors:     map[int64][]model.DishFlavor{},
			combos:      map[int64]model.ComboMeal{},
			comboDishes: map[int64][]model.ComboMealDish{},
			employees:   map[int64]model.Employee{},
			addresses:   map[int64]model.Address{},
			users:       map[int64]model.User{},
		},
		fail: map[string]error{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// ロック済みで呼ぶ
func (s *memStore) failure(op string) error {
	return s.fail[op]
}

// mu を持った状態で呼ぶ
func (s *memStore) afterRead(orderID int64) {
	if f := s.interleave; f != nil {
		s.interleave = nil
		f(&s.memData, orderID)
		s.outside = append(s.outside, func(d *memData) { f(d, orderID) })
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

func (s *memStore) snapshot() memData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memData{
		nextID:      s.nextID,
		orders:      cloneMap(s.orders),
		orderItems:  cloneSliceMap(s.orderItems),
		cartItems:   cloneMap(s.cartItems),
		dishes:      cloneMap(s.dishes),
		flavors:     cloneSliceMap(s.flavors),
		combos:      cloneMap(s.combos),
		comboDishes: cloneSliceMap(s.comboDishes),
		auditLogs:   append([]model.AuditLog(nil), s.auditLogs...),
		employees:   cloneMap(s.employees),
		addresses:   cloneMap(s.addresses),
		users:       cloneMap(s.users),
	}
}

func (s *memStore) restore(d memData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memData = d
	for _, f := range s.outside {
		f(&s.memData)
	}
}

// テスト用の直接投入
func (s *memStore) putDish(d model.Dish) model.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	s.dishes[d.ID] = d
	return d
}

func (s *memStore) putCombo(c model.ComboMeal, links ...model.ComboMealDish) model.ComboMeal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.combos[c.ID] = c
	for _, l := range links {
		l.ID = s.id()
		l.ComboID = c.ID
		s.comboDishes[c.ID] = append(s.comboDishes[c.ID], l)
	}
	return c
}

func (s *memStore) putOrder(o model.Order, items ...model.OrderItem) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	s.orders[o.ID] = o
	for _, it := range items {
		it.ID = s.id()
		it.OrderID = o.ID
		s.orderItems[o.ID] = append(s.orderItems[o.ID], it)
	}
	return o
}

func (s *memStore) putAddress(a model.Address) model.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.addresses[a.ID] = a
	return a
}

func (s *memStore) putEmployee(e model.Employee) model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.employees[e.ID] = e
	return e
}

func (s *memStore) putUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) putCartItem(c model.CartItem) model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	c.ItemKey = c.Key()
	s.cartItems[c.ID] = c
	return c
}

func (s *memStore) order(id int64) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) audits() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AuditLog(nil), s.auditLogs...)
}

func (s *memStore) cartOf(userID int64) []model.CartItem {
	items, _ := cartRepo{s}.ListByUserID(context.Background(), userID)
	return items
}

func (s *memStore) repos() repo.TxRepos { return txRepos{s} }

// =====================
// TxManager / TxRepos
// =====================

type memTx struct{ s *memStore }

func (t memTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snap := t.s.snapshot()
	if err := fn(txRepos{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type txRepos struct{ s *memStore }

func (r txRepos) Orders() repo.OrderRepository           { return orderRepo{r.s} }
func (r txRepos) OrderItems() repo.OrderItemRepository   { return orderItemRepo{r.s} }
func (r txRepos) CartItems() repo.CartItemRepository     { return cartRepo{r.s} }
func (r txRepos) Dishes() repo.DishRepository            { return dishRepo{r.s} }
func (r txRepos) DishFlavors() repo.DishFlavorRepository { return flavorRepo{r.s} }
func (r txRepos) Combos() repo.ComboRepository           { return comboRepo{r.s} }
func (r txRepos) ComboDishes() repo.ComboDishRepository  { return comboDishRepo{r.s} }
func (r txRepos) AuditLogs() repo.AuditLogRepository     { return auditRepo{r.s} }
func (r txRepos) Employees() repo.EmployeeRepository     { return employeeRepo{r.s} }

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func inRange(t, begin, end time.Time) bool {
	return !t.Before(begin) && t.Before(end)
}

// =====================
// orders
// =====================

type orderRepo struct{ s *memStore }

func (r orderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	r.s.afterRead(orderID)
	return o, nil
}

func (r orderRepo) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.Number == number {
			r.s.afterRead(o.ID)
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r orderRepo) sorted(match func(o model.Order) bool) []model.Order {
	out := []model.Order{}
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderTime.Equal(out[j].OrderTime) {
			return out[i].OrderTime.After(out[j].OrderTime)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r orderRepo) ListByUserID(ctx context.Context, userID int64, status string, page int, limit int) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.sorted(func(o model.Order) bool {
		return o.UserID == userID && (status == "" || string(o.Status) == status)
	})
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r orderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("Orders.Create"); err != nil {
		return 0, err
	}
	order.ID = r.s.id()
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r orderRepo) UpdateState(ctx context.Context, order model.Order, from model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("Orders.UpdateState"); err != nil {
		return err
	}
	cur, ok := r.s.orders[order.ID]
	if !ok || cur.Status != from {
		return repo.ErrStateChanged
	}
	r.s.orders[order.ID] = order
	return nil
}

func (r orderRepo) UpdatePayStatus(ctx context.Context, orderID int64, from, to model.PayStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("Orders.UpdatePayStatus"); err != nil {
		return err
	}
	o, ok := r.s.orders[orderID]
	if !ok || o.PayStatus != from {
		return repo.ErrStateChanged
	}
	o.PayStatus = to
	r.s.orders[orderID] = o
	return nil
}

func (r orderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.sorted(func(o model.Order) bool {
		if f.Status != "" && string(o.Status) != f.Status {
			return false
		}
		if f.Number != "" && !strings.Contains(o.Number, f.Number) {
			return false
		}
		if f.Phone != "" && !strings.Contains(o.Phone, f.Phone) {
			return false
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			return false
		}
		if f.From != nil && o.OrderTime.Before(*f.From) {
			return false
		}
		if f.To != nil && o.OrderTime.After(*f.To) {
			return false
		}
		return true
	})
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r orderRepo) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, o := range r.s.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r orderRepo) ListByStatusBefore(ctx context.Context, status model.OrderStatus, before time.Time) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Order{}
	for _, o := range r.s.orders {
		if o.Status == status && o.OrderTime.Before(before) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r orderRepo) SumAmount(ctx context.Context, status model.OrderStatus, begin, end time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, o := range r.s.orders {
		if (status == "" || o.Status == status) && inRange(o.OrderTime, begin, end) {
			sum = sum.Add(o.Amount)
		}
	}
	return sum, nil
}

func (r orderRepo) Count(ctx context.Context, status model.OrderStatus, begin, end time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, o := range r.s.orders {
		if (status == "" || o.Status == status) && inRange(o.OrderTime, begin, end) {
			n++
		}
	}
	return n, nil
}

type orderItemRepo struct{ s *memStore }

func (r orderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("OrderItems.CreateBulk"); err != nil {
		return err
	}
	for _, it := range items {
		it.ID = r.s.id()
		it.OrderID = orderID
		r.s.orderItems[orderID] = append(r.s.orderItems[orderID], it)
	}
	return nil
}

func (r orderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.OrderItem{}, r.s.orderItems[orderID]...), nil
}

func (r orderItemRepo) TopSales(ctx context.Context, begin, end time.Time, limit int) ([]model.SalesTop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byName := map[string]int64{}
	for id, o := range r.s.orders {
		if o.Status != model.OrderStatusCompleted || !inRange(o.OrderTime, begin, end) {
			continue
		}
		for _, it := range r.s.orderItems[id] {
			byName[it.Name] += it.Quantity
		}
	}
	out := make([]model.SalesTop, 0, len(byName))
	for name, q := range byName {
		out = append(out, model.SalesTop{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// =====================
// cart
// =====================

type cartRepo struct{ s *memStore }

func (r cartRepo) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.CartItem{}
	for _, c := range r.s.cartItems {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r cartRepo) FindByKey(ctx context.Context, userID int64, key repo.CartItemKey) (model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cartItems {
		if c.UserID == userID && c.ItemKey == key.String() {
			return c, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

// (user_id, item_key) の一意制約も再現する
func (r cartRepo) Create(ctx context.Context, item model.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f := r.s.beforeCartCreate; f != nil {
		r.s.beforeCartCreate = nil
		f(&r.s.memData)
	}
	if err := r.s.failure("CartItems.Create"); err != nil {
		return err
	}
	item.ItemKey = item.Key()
	for _, c := range r.s.cartItems {
		if c.UserID == item.UserID && c.ItemKey == item.ItemKey {
			return repo.ErrDuplicate
		}
	}
	item.ID = r.s.id()
	r.s.cartItems[item.ID] = item
	return nil
}

func (r cartRepo) AddQuantity(ctx context.Context, cartItemID int64, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cartItems[cartItemID]
	if !ok || c.Quantity+delta < 1 {
		return repo.ErrNotFound
	}
	c.Quantity += delta
	r.s.cartItems[cartItemID] = c
	return nil
}

func (r cartRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cartItems, cartItemID)
	return nil
}

func (r cartRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("CartItems.DeleteByUserID"); err != nil {
		return err
	}
	for id, c := range r.s.cartItems {
		if c.UserID == userID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

// =====================
// dishes / flavors
// =====================

type dishRepo struct{ s *memStore }

func (r dishRepo) nameTaken(name string, exceptID int64) bool {
	for _, d := range r.s.dishes {
		if d.Name == name && d.ID != exceptID {
			return true
		}
	}
	return false
}

func (r dishRepo) Create(ctx context.Context, dish *model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(dish.Name, 0) {
		return repo.ErrDuplicate
	}
	dish.ID = r.s.id()
	r.s.dishes[dish.ID] = *dish
	return nil
}

func (r dishRepo) FindByID(ctx context.Context, id int64) (model.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dishes[id]
	if !ok {
		return model.Dish{}, repo.ErrNotFound
	}
	return d, nil
}

func (r dishRepo) FindByIDs(ctx context.Context, ids []int64) ([]model.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Dish{}
	for _, id := range ids {
		if d, ok := r.s.dishes[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r dishRepo) Update(ctx context.Context, dish model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(dish.Name, dish.ID) {
		return repo.ErrDuplicate
	}
	r.s.dishes[dish.ID] = dish
	return nil
}

func (r dishRepo) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dishes[id]
	if !ok {
		return repo.ErrNotFound
	}
	d.Status = status
	d.UpdateUser = updateUser
	r.s.dishes[id] = d
	return nil
}

func (r dishRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.dishes, id)
	}
	return nil
}

func (r dishRepo) Page(ctx context.Context, q repo.DishPageQuery) ([]model.Dish, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []model.Dish{}
	for _, d := range r.s.dishes {
		if q.Name != "" && !strings.Contains(d.Name, q.Name) {
			continue
		}
		if q.CategoryID != nil && d.CategoryID != *q.CategoryID {
			continue
		}
		if q.Status != nil && d.Status != *q.Status {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, q.Page, q.Limit), int64(len(all)), nil
}

func (r dishRepo) ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Dish{}
	for _, d := range r.s.dishes {
		if d.CategoryID == categoryID && (status == nil || d.Status == *status) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type flavorRepo struct{ s *memStore }

func (r flavorRepo) CreateBulk(ctx context.Context, dishID int64, flavors []model.DishFlavor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("DishFlavors.CreateBulk"); err != nil {
		return err
	}
	for _, f := range flavors {
		f.ID = r.s.id()
		f.DishID = dishID
		r.s.flavors[dishID] = append(r.s.flavors[dishID], f)
	}
	return nil
}

func (r flavorRepo) ListByDishID(ctx context.Context, dishID int64) ([]model.DishFlavor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.DishFlavor{}, r.s.flavors[dishID]...), nil
}

func (r flavorRepo) DeleteByDishIDs(ctx context.Context, dishIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range dishIDs {
		delete(r.s.flavors, id)
	}
	return nil
}

// =====================
// combos
// =====================

type comboRepo struct{ s *memStore }

func (r comboRepo) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.s.combos {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r comboRepo) Create(ctx context.Context, combo *model.ComboMeal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(combo.Name, 0) {
		return repo.ErrDuplicate
	}
	combo.ID = r.s.id()
	r.s.combos[combo.ID] = *combo
	return nil
}

func (r comboRepo) FindByID(ctx context.Context, id int64) (model.ComboMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.combos[id]
	if !ok {
		return model.ComboMeal{}, repo.ErrNotFound
	}
	return c, nil
}

func (r comboRepo) FindByIDs(ctx context.Context, ids []int64) ([]model.ComboMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.ComboMeal{}
	for _, id := range ids {
		if c, ok := r.s.combos[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r comboRepo) Update(ctx context.Context, combo model.ComboMeal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(combo.Name, combo.ID) {
		return repo.ErrDuplicate
	}
	r.s.combos[combo.ID] = combo
	return nil
}

func (r comboRepo) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.combos[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.Status = status
	c.UpdateUser = updateUser
	r.s.combos[id] = c
	return nil
}

func (r comboRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.combos, id)
	}
	return nil
}

func (r comboRepo) Page(ctx context.Context, q repo.ComboPageQuery) ([]model.ComboMeal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []model.ComboMeal{}
	for _, c := range r.s.combos {
		if q.Name != "" && !strings.Contains(c.Name, q.Name) {
			continue
		}
		if q.CategoryID != nil && c.CategoryID != *q.CategoryID {
			continue
		}
		if q.Status != nil && c.Status != *q.Status {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, q.Page, q.Limit), int64(len(all)), nil
}

func (r comboRepo) ListByCategory(ctx context.Context, categoryID int64, status *model.Status) ([]model.ComboMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.ComboMeal{}
	for _, c := range r.s.combos {
		if c.CategoryID == categoryID && (status == nil || c.Status == *status) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type comboDishRepo struct{ s *memStore }

func (r comboDishRepo) CreateBulk(ctx context.Context, comboID int64, links []model.ComboMealDish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range links {
		l.ID = r.s.id()
		l.ComboID = comboID
		r.s.comboDishes[comboID] = append(r.s.comboDishes[comboID], l)
	}
	return nil
}

func (r comboDishRepo) ListByComboID(ctx context.Context, comboID int64) ([]model.ComboMealDish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.ComboMealDish{}, r.s.comboDishes[comboID]...), nil
}

func (r comboDishRepo) DeleteByComboIDs(ctx context.Context, comboIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range comboIDs {
		delete(r.s.comboDishes, id)
	}
	return nil
}

func (r comboDishRepo) ComboIDsByDishIDs(ctx context.Context, dishIDs []int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range dishIDs {
		want[id] = true
	}
	out := []int64{}
	for comboID, links := range r.s.comboDishes {
		for _, l := range links {
			if want[l.DishID] {
				out = append(out, comboID)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// =====================
// audit / employees / addresses / users
// =====================

type auditRepo struct{ s *memStore }

func (r auditRepo) Create(ctx context.Context, log model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("AuditLogs.Create"); err != nil {
		return err
	}
	log.ID = r.s.id()
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (r auditRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.AuditLog{}
	for _, l := range r.s.auditLogs {
		if f.ActorEmployeeID != nil && l.ActorEmployeeID != *f.ActorEmployeeID {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type employeeRepo struct{ s *memStore }

func (r employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.employees {
		if x.Username == e.Username {
			return repo.ErrDuplicate
		}
	}
	e.ID = r.s.id()
	r.s.employees[e.ID] = *e
	return nil
}

func (r employeeRepo) FindByID(ctx context.Context, id int64) (model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return model.Employee{}, repo.ErrNotFound
	}
	return e, nil
}

func (r employeeRepo) FindByUsername(ctx context.Context, username string) (model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return model.Employee{}, repo.ErrNotFound
}

func (r employeeRepo) Update(ctx context.Context, e model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.employees {
		if x.Username == e.Username && x.ID != e.ID {
			return repo.ErrDuplicate
		}
	}
	cur, ok := r.s.employees[e.ID]
	if !ok {
		return repo.ErrNotFound
	}
	//パスワード・ステータスは残す
	e.PasswordHash = cur.PasswordHash
	e.Status = cur.Status
	r.s.employees[e.ID] = e
	return nil
}

func (r employeeRepo) UpdateStatus(ctx context.Context, id int64, status model.Status, updateUser int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.Status = status
	e.UpdateUser = updateUser
	r.s.employees[id] = e
	return nil
}

func (r employeeRepo) UpdatePassword(ctx context.Context, id int64, hash string, updateUser int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.PasswordHash = hash
	e.UpdateUser = updateUser
	r.s.employees[id] = e
	return nil
}

func (r employeeRepo) Page(ctx context.Context, q repo.EmployeePageQuery) ([]model.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []model.Employee{}
	for _, e := range r.s.employees {
		if q.Name == "" || strings.Contains(e.Name, q.Name) {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, q.Page, q.Limit), int64(len(all)), nil
}

type addressRepo struct{ s *memStore }

func (r addressRepo) Create(ctx context.Context, address model.Address) (model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	address.ID = r.s.id()
	r.s.addresses[address.ID] = address
	return address, nil
}

func (r addressRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Address{}
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r addressRepo) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[addressID]
	if !ok {
		return model.Address{}, repo.ErrNotFound
	}
	return a, nil
}

func (r addressRepo) FindDefault(ctx context.Context, userID int64) (model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.addresses {
		if a.UserID == userID && a.IsDefault {
			return a, nil
		}
	}
	return model.Address{}, repo.ErrNotFound
}

func (r addressRepo) Update(ctx context.Context, address model.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.addresses[address.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.addresses[address.ID] = address
	return nil
}

func (r addressRepo) Delete(ctx context.Context, addressID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.addresses[addressID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.addresses, addressID)
	return nil
}

func (r addressRepo) SetDefault(ctx context.Context, userID, addressID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.addresses[addressID]
	if !ok || target.UserID != userID {
		return repo.ErrNotFound
	}
	for id, a := range r.s.addresses {
		if a.UserID == userID {
			a.IsDefault = id == addressID
			r.s.addresses[id] = a
		}
	}
	return nil
}

type userRepo struct{ s *memStore }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repo.ErrDuplicate
		}
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(ctx context.Context, userID int64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

func (r userRepo) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.LastLoginAt = &at
	r.s.users[userID] = u
	return nil
}

func (r userRepo) CountCreatedBetween(ctx context.Context, begin, end time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if inRange(u.CreatedAt, begin, end) {
			n++
		}
	}
	return n, nil
}

func (r userRepo) CountCreatedBefore(ctx context.Context, end time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

// =====================
// port mocks
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type CacheMock struct{ mock.Mock }

func (m *CacheMock) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	args := m.Called(ctx, key, v, ttl)
	return args.Error(0)
}

func (m *CacheMock) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

type EventPublisherMock struct{ mock.Mock }

func (m *EventPublisherMock) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type PaymentGatewayMock struct{ mock.Mock }

func (m *PaymentGatewayMock) Prepay(ctx context.Context, order model.Order) (model.PaymentHandle, error) {
	args := m.Called(ctx, order)
	h, _ := args.Get(0).(model.PaymentHandle)
	return h, args.Error(1)
}

func (m *PaymentGatewayMock) Refund(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type PasswordHasherMock struct{ mock.Mock }

func (m *PasswordHasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type PasswordVerifierMock struct{ mock.Mock }

func (m *PasswordVerifierMock) Verify(plain string, hashed string) bool {
	args := m.Called(plain, hashed)
	return args.Bool(0)
}

type TokenIssuerMock struct{ mock.Mock }

func (m *TokenIssuerMock) Issue(subject int64, role model.Role, now time.Time) (string, time.Time, error) {
	args := m.Called(subject, role, now)
	exp, _ := args.Get(1).(time.Time)
	return args.String(0), exp, args.Error(2)
}

func int64Ptr(v int64) *int64 { return &v }
