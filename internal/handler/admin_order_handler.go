package handler

import (
	"net/http"

	"takeout/internal/repository"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderReasonRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/order/conditionSearch", h.search)
	g.GET("/order/statistics", h.statistics)
	g.GET("/order/:id", h.detail)
	g.PUT("/order/:id/confirm", h.confirm)
	g.PUT("/order/:id/rejection", h.reject)
	g.PUT("/order/:id/delivery", h.deliver)
	g.PUT("/order/:id/complete", h.complete)
	g.PUT("/order/:id/cancel", h.cancel)
}

func (h *AdminOrderHandler) search(c echo.Context) error {
	page, size, okPage := parsePage(c)
	if !okPage {
		return fail(c, http.StatusBadRequest, "invalid page")
	}

	userID, okUser := parseOptionalInt64(c.QueryParam("user_id"))
	if !okUser {
		return fail(c, http.StatusBadRequest, "invalid user_id")
	}

	fromPtr, okFrom := parseDateTime(c.QueryParam("beginTime"))
	if !okFrom {
		return fail(c, http.StatusBadRequest, "invalid beginTime")
	}
	toPtr, okTo := parseDateTime(c.QueryParam("endTime"))
	if !okTo {
		return fail(c, http.StatusBadRequest, "invalid endTime")
	}

	out, err := h.uc.Search(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  size,
		Number: c.QueryParam("number"),
		Phone:  c.QueryParam("phone"),
		Status: c.QueryParam("status"),
		UserID: userID,
		From:   fromPtr,
		To:     toPtr,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminOrderHandler) statistics(c echo.Context) error {
	out, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminOrderHandler) confirm(c echo.Context) error {
	return h.transition(c, false, func(actorID, id int64, _ string) error {
		return h.uc.Confirm(c.Request().Context(), actorID, id)
	})
}

func (h *AdminOrderHandler) reject(c echo.Context) error {
	return h.transition(c, true, func(actorID, id int64, reason string) error {
		return h.uc.Reject(c.Request().Context(), actorID, id, reason)
	})
}

func (h *AdminOrderHandler) deliver(c echo.Context) error {
	return h.transition(c, false, func(actorID, id int64, _ string) error {
		return h.uc.Deliver(c.Request().Context(), actorID, id)
	})
}

func (h *AdminOrderHandler) complete(c echo.Context) error {
	return h.transition(c, false, func(actorID, id int64, _ string) error {
		return h.uc.Complete(c.Request().Context(), actorID, id)
	})
}

func (h *AdminOrderHandler) cancel(c echo.Context) error {
	return h.transition(c, true, func(actorID, id int64, reason string) error {
		return h.uc.Cancel(c.Request().Context(), actorID, id, reason)
	})
}

// 操作した従業員ID（監査ログ用）と注文IDを取り出して実行
func (h *AdminOrderHandler) transition(c echo.Context, withReason bool, fn func(actorID, id int64, reason string) error) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req OrderReasonRequest
	if withReason {
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid body")
		}
	}

	if err := fn(actorID, id, req.Reason); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}
