package handler

import (
	"net/http"
	"strconv"

	"takeout/internal/domain/model"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// セットメニュー（管理画面 + ユーザー向け一覧）
type ComboHandler struct {
	uc *usecase.ComboUsecase
}

func NewComboHandler(uc *usecase.ComboUsecase) *ComboHandler {
	return &ComboHandler{uc: uc}
}

func (h *ComboHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/combo", h.save)
	g.GET("/combo/page", h.page)
	g.DELETE("/combo", h.deleteBatch)
	g.GET("/combo/:id", h.get)
	g.PUT("/combo/:id", h.update)
	g.POST("/combo/:id/status", h.setStatus)
}

func (h *ComboHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/combo/list", h.listForCustomer)
	g.GET("/combo/:id/dishes", h.dishItems)
}

func (h *ComboHandler) save(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.ComboInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	id, err := h.uc.Save(c.Request().Context(), actorID, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]int64{"id": id})
}

func (h *ComboHandler) page(c echo.Context) error {
	page, size, okPage := parsePage(c)
	if !okPage {
		return fail(c, http.StatusBadRequest, "invalid page")
	}
	categoryID, okCat := parseOptionalInt64(c.QueryParam("categoryId"))
	if !okCat {
		return fail(c, http.StatusBadRequest, "invalid categoryId")
	}

	in := usecase.ComboPageInput{
		Page:       page,
		PageSize:   size,
		Name:       c.QueryParam("name"),
		CategoryID: categoryID,
	}
	if v := c.QueryParam("status"); v != "" {
		s := model.Status(v)
		in.Status = &s
	}

	out, err := h.uc.Page(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *ComboHandler) get(c echo.Context) error {
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *ComboHandler) update(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req usecase.ComboInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.Update(c.Request().Context(), actorID, id, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *ComboHandler) setStatus(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.StartOrStop(c.Request().Context(), actorID, id, req.Status); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *ComboHandler) deleteBatch(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	ids, okIDs := parseIDList(c.QueryParam("ids"))
	if !okIDs {
		return fail(c, http.StatusBadRequest, "invalid ids")
	}

	if err := h.uc.DeleteBatch(c.Request().Context(), actorID, ids); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *ComboHandler) listForCustomer(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.QueryParam("categoryId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid categoryId")
	}

	out, err := h.uc.ListForCustomer(c.Request().Context(), categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *ComboHandler) dishItems(c echo.Context) error {
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.DishItems(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
