package handler

import (
	"net/http"

	"takeout/internal/domain/model"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/employee のHTTP
type EmployeeHandler struct {
	uc *usecase.EmployeeUsecase
}

// DI
func NewEmployeeHandler(uc *usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

type StatusRequest struct {
	Status model.Status `json:"status"`
}

// ログインだけはトークン不要
func (h *EmployeeHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/employee/login", h.login)
}

func (h *EmployeeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/employee/logout", h.logout)
	g.POST("/employee", h.create)
	g.GET("/employee/page", h.page)
	g.PUT("/employee/password", h.editPassword)
	g.GET("/employee/:id", h.get)
	g.PUT("/employee/:id", h.update)
	g.POST("/employee/:id/status", h.setStatus)
}

func (h *EmployeeHandler) login(c echo.Context) error {
	var req usecase.EmployeeLoginInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

// JWTはステートレスなのでクライアント側で破棄する
func (h *EmployeeHandler) logout(c echo.Context) error {
	return ok(c, nil)
}

func (h *EmployeeHandler) create(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.EmployeeInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	id, err := h.uc.Create(c.Request().Context(), actorID, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]int64{"id": id})
}

func (h *EmployeeHandler) page(c echo.Context) error {
	page, size, okPage := parsePage(c)
	if !okPage {
		return fail(c, http.StatusBadRequest, "invalid page")
	}

	out, err := h.uc.Page(c.Request().Context(), page, size, c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *EmployeeHandler) get(c echo.Context) error {
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

func (h *EmployeeHandler) update(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, okID := parseIDParam(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req usecase.EmployeeInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.Update(c.Request().Context(), actorID, id, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *EmployeeHandler) setStatus(c echo.Context) error {
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

	if err := h.uc.SetStatus(c.Request().Context(), actorID, id, req.Status); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

func (h *EmployeeHandler) editPassword(c echo.Context) error {
	actorID, okID := getUserIDFromContext(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.PasswordEditInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), actorID, req); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}
