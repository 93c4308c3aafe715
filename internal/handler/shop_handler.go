package handler

import (
	"net/http"

	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ShopHandler struct {
	uc *usecase.ShopUsecase
}

func NewShopHandler(uc *usecase.ShopUsecase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

type ShopStatusRequest struct {
	Status int `json:"status"`
}

func (h *ShopHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/shop/status", h.setStatus)
	g.GET("/shop/status", h.getStatus)
}

func (h *ShopHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/shop/status", h.getStatus)
}

func (h *ShopHandler) setStatus(c echo.Context) error {
	var req ShopStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.SetStatus(c.Request().Context(), req.Status); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *ShopHandler) getStatus(c echo.Context) error {
	status, err := h.uc.GetStatus(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, status)
}
