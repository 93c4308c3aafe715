package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"takeout/internal/domain/model"
	"takeout/internal/handler"
	"takeout/internal/infra/cache"
	"takeout/internal/usecase"
	auth "takeout/internal/usecase/auth_usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type EmployeeCheckerMock struct{ mock.Mock }

func (m *EmployeeCheckerMock) IsActive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// shop以外のusecaseはnilのまま（ミドルウェアで止まるルートだけ叩く）
func newTestServer(t *testing.T, employees *EmployeeCheckerMock) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	pool, err := radix.NewPool("tcp", mr.Addr(), 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	h := Handlers{
		Employee:   handler.NewEmployeeHandler(nil),
		Dish:       handler.NewDishHandler(nil),
		Combo:      handler.NewComboHandler(nil),
		Shop:       handler.NewShopHandler(usecase.NewShopUsecase(cache.NewRedisCache(pool))),
		AdminOrder: handler.NewAdminOrderHandler(nil),
		Report:     handler.NewReportHandler(nil),
		AuditLog:   handler.NewAuditLogHandler(nil),
		Auth:       handler.NewAuthHandler(nil, nil),
		Order:      handler.NewOrderHandler(nil, nil),
		Cart:       handler.NewCartHandler(nil),
		Address:    handler.NewAddressHandler(nil),
	}
	return New(h, testSecret, employees)
}

func bearer(t *testing.T, id int64, role model.Role) string {
	t.Helper()
	issuer, err := auth.NewJWTIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	signed, _, err := issuer.Issue(id, role, time.Now())
	require.NoError(t, err)
	return "Bearer " + signed
}

func get(e *echo.Echo, target, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	e := newTestServer(t, new(EmployeeCheckerMock))

	rec := get(e, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_PublicShopStatus(t *testing.T) {
	e := newTestServer(t, new(EmployeeCheckerMock))

	rec := get(e, "/user/shop/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":1,"msg":"","data":0}`, rec.Body.String())
}

func TestServer_AdminRequiresToken(t *testing.T) {
	e := newTestServer(t, new(EmployeeCheckerMock))

	rec := get(e, "/admin/shop/status", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(e, "/admin/shop/status", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RoleSeparation(t *testing.T) {
	employees := new(EmployeeCheckerMock)
	employees.On("IsActive", mock.Anything, int64(3)).Return(true, nil)
	e := newTestServer(t, employees)

	// ユーザートークンで管理画面
	rec := get(e, "/admin/shop/status", bearer(t, 7, model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 従業員トークンでユーザー側
	rec = get(e, "/user/order/history", bearer(t, 3, model.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(e, "/admin/shop/status", bearer(t, 3, model.RoleEmployee))
	assert.Equal(t, http.StatusOK, rec.Code)
	employees.AssertExpectations(t)
}

func TestServer_LockedEmployee(t *testing.T) {
	employees := new(EmployeeCheckerMock)
	employees.On("IsActive", mock.Anything, int64(3)).Return(false, nil)
	e := newTestServer(t, employees)

	rec := get(e, "/admin/shop/status", bearer(t, 3, model.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"code":0,"msg":"account is locked","data":null}`, rec.Body.String())
}
