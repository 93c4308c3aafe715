package handler

import (
	"net/http"

	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

func (h *AddressHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/addressBook/list", h.List)
	g.GET("/addressBook/default", h.GetDefault)
	g.POST("/addressBook", h.Create)
	g.GET("/addressBook/:id", h.Get)
	g.PUT("/addressBook/:id", h.Update)
	g.DELETE("/addressBook/:id", h.Delete)
	g.PUT("/addressBook/:id/default", h.SetDefault)
}

func (h *AddressHandler) List(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	list, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, list)
}

func (h *AddressHandler) Create(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.AddressInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, created)
}

func (h *AddressHandler) Get(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.uc.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AddressHandler) GetDefault(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.GetDefault(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AddressHandler) Update(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.AddressInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.Update(c.Request().Context(), userID, id, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *AddressHandler) Delete(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *AddressHandler) SetDefault(c echo.Context) error {
	userID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.SetDefault(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}
