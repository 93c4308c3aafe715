package handler

import (
	"net/http"
	"strconv"

	"takeout/internal/domain/model"
	"takeout/internal/repository"
	"takeout/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 監査ログの閲覧
type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	var f repository.AuditLogFilter

	actorID, okActor := parseOptionalInt64(c.QueryParam("actor_employee_id"))
	resourceID, okRes := parseOptionalInt64(c.QueryParam("resource_id"))
	if !okActor || !okRes {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	f.ActorEmployeeID = actorID
	f.ResourceID = resourceID

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}

	from, okFrom := parseDateTime(c.QueryParam("from"))
	to, okTo := parseDateTime(c.QueryParam("to"))
	if !okFrom || !okTo {
		return fail(c, http.StatusBadRequest, "invalid period")
	}
	f.CreatedFrom = from
	f.CreatedTo = to

	f.Limit = 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid offset")
		}
		f.Offset = o
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
