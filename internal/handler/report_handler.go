package handler

import (
	"context"
	"net/http"
	"time"

	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/report/turnoverStatistics", h.turnover)
	g.GET("/report/userStatistics", h.users)
	g.GET("/report/ordersStatistics", h.orders)
	g.GET("/report/top10", h.top10)
	g.GET("/workspace/businessData", h.businessData)
}

// ?begin=YYYY-MM-DD&end=YYYY-MM-DD
func parseRange(c echo.Context) (time.Time, time.Time, bool) {
	begin, okB := parseDate(c.QueryParam("begin"))
	end, okE := parseDate(c.QueryParam("end"))
	return begin, end, okB && okE
}

func reportRoute[T any](c echo.Context, fn func(ctx context.Context, begin, end time.Time) (T, error)) error {
	begin, end, okRange := parseRange(c)
	if !okRange {
		return fail(c, http.StatusBadRequest, "invalid begin or end")
	}

	out, err := fn(c.Request().Context(), begin, end)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *ReportHandler) turnover(c echo.Context) error {
	return reportRoute(c, h.uc.Turnover)
}

func (h *ReportHandler) users(c echo.Context) error {
	return reportRoute(c, h.uc.UserStatistics)
}

func (h *ReportHandler) orders(c echo.Context) error {
	return reportRoute(c, h.uc.OrderStatistics)
}

func (h *ReportHandler) top10(c echo.Context) error {
	return reportRoute(c, h.uc.Top10)
}

func (h *ReportHandler) businessData(c echo.Context) error {
	out, err := h.uc.BusinessData(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
