package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"takeout/internal/middleware"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 共通レスポンス（code=1 成功, 0 失敗）
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Result{Code: 1, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Result{Code: 0, Msg: msg})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return fail(c, he.Status, he.Message)
	}

	//500
	zap.L().Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "internal error")
}

// AuthJWTが入れたID（従業員 or ユーザー）
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	return id, ok && id > 0
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// ?page=1&pageSize=10（省略時は 1 / 10）
func parsePage(c echo.Context) (int, int, bool) {
	page, size := 1, 10
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		page = p
	}
	if v := c.QueryParam("pageSize"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		size = s
	}
	return page, size, true
}

func parseOptionalInt64(v string) (*int64, bool) {
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// ids=1,2,3
func parseIDList(v string) ([]int64, bool) {
	var ids []int64
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, len(ids) > 0
}

// YYYY-MM-DD（ローカル時刻の0時）
func parseDate(v string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	return t, err == nil
}

func parseDateTime(v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, false
	}
	return &t, true
}
