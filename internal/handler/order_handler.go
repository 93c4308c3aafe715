package handler

import (
	"net/http"

	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /user/order のHTTP
type OrderHandler struct {
	uc   *usecase.OrderUsecase
	cart *usecase.CartUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, cart *usecase.CartUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, cart: cart}
}

type OrderSubmitRequest struct {
	AddressID       int64  `json:"address_id"`
	Remark          string `json:"remark"`
	PayMethod       int    `json:"pay_method"`
	PackAmount      int    `json:"pack_amount"`
	TablewareNumber int    `json:"tableware_number"`
}

type OrderPaymentRequest struct {
	OrderNumber string `json:"order_number"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/order/submit", h.submit)
	g.PUT("/order/payment", h.payment)
	g.GET("/order/history", h.history)
	g.GET("/order/:id", h.detail)
	g.PUT("/order/:id/cancel", h.cancel)
	g.POST("/order/:id/repetition", h.repetition)
	g.GET("/order/:id/reminder", h.reminder)
}

func (h *OrderHandler) submit(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderSubmitRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Submit(c.Request().Context(), userID, usecase.SubmitOrderInput{
		AddressID:       req.AddressID,
		Remark:          req.Remark,
		PayMethod:       req.PayMethod,
		PackAmount:      req.PackAmount,
		TablewareNumber: req.TablewareNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *OrderHandler) payment(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderPaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx := c.Request().Context()
	out, err := h.uc.Payment(ctx, userID, req.OrderNumber)
	if err != nil {
		return writeError(c, err)
	}

	//スタブ決済はその場で完了する。支払った本人のカートも念のため空にする
	if _, err := h.uc.MarkPaid(ctx, userID, req.OrderNumber); err != nil {
		return writeError(c, err)
	}
	if err := h.cart.Clean(ctx, userID); err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *OrderHandler) history(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	page, size, okPage := parsePage(c)
	if !okPage {
		return fail(c, http.StatusBadRequest, "invalid page")
	}

	out, err := h.uc.History(c.Request().Context(), userID, usecase.OrderHistoryInput{
		Page:     page,
		PageSize: size,
		Status:   c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Detail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *OrderHandler) repetition(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Reorder(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *OrderHandler) reminder(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Remind(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}
