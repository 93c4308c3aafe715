package handler

import (
	"net/http"

	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /user/shoppingCart のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/shoppingCart/list", h.list)
	g.POST("/shoppingCart/add", h.add)
	g.POST("/shoppingCart/sub", h.sub)
	g.DELETE("/shoppingCart/clean", h.clean)
}

func (h *CartHandler) list(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *CartHandler) add(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.CartInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.Add(c.Request().Context(), userID, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *CartHandler) sub(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.CartInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.Sub(c.Request().Context(), userID, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *CartHandler) clean(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.uc.Clean(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}
