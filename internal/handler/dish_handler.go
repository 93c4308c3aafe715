package handler

import (
	"net/http"
	"strconv"

	"takeout/internal/domain/model"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 料理（管理画面 + ユーザー向け一覧）
type DishHandler struct {
	uc *usecase.DishUsecase
}

func NewDishHandler(uc *usecase.DishUsecase) *DishHandler {
	return &DishHandler{uc: uc}
}

// /admin 配下
func (h *DishHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/dish", h.save)
	g.GET("/dish/page", h.page)
	g.GET("/dish/list", h.listByCategory)
	g.DELETE("/dish", h.deleteBatch)
	g.GET("/dish/:id", h.get)
	g.PUT("/dish/:id", h.update)
	g.POST("/dish/:id/status", h.setStatus)
}

// /user 配下
func (h *DishHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/dish/list", h.listForCustomer)
}

func (h *DishHandler) save(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.DishInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	id, err := h.uc.Save(c.Request().Context(), actorID, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]int64{"id": id})
}

func (h *DishHandler) page(c echo.Context) error {
	page, size, okPage := parsePage(c)
	if !okPage {
		return fail(c, http.StatusBadRequest, "invalid page")
	}
	categoryID, okCat := parseOptionalInt64(c.QueryParam("categoryId"))
	if !okCat {
		return fail(c, http.StatusBadRequest, "invalid categoryId")
	}

	in := usecase.DishPageInput{
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

func (h *DishHandler) get(c echo.Context) error {
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

func (h *DishHandler) update(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req usecase.DishInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.Update(c.Request().Context(), actorID, id, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *DishHandler) setStatus(c echo.Context) error {
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

// DELETE /admin/dish?ids=1,2,3
func (h *DishHandler) deleteBatch(c echo.Context) error {
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

func (h *DishHandler) listByCategory(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.QueryParam("categoryId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid categoryId")
	}

	out, err := h.uc.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *DishHandler) listForCustomer(c echo.Context) error {
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
