package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/pos"
	"github.com/andreafabbri97/restaurant-manager/internal/repository"
)

// TableHandler serves the dining-room tables and the open-tab
// detection the order-entry screen runs when a table is tapped.
type TableHandler struct {
	Tables   *repository.TableRepo
	Sessions *repository.SessionRepo
	Orders   *repository.OrderRepo
}

func NewTableHandler(t *repository.TableRepo, s *repository.SessionRepo, o *repository.OrderRepo) *TableHandler {
	return &TableHandler{Tables: t, Sessions: s, Orders: o}
}

// List returns all tables.
func (h *TableHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tables, err := h.Tables.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tables failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// Session is the open-tab probe: it reports whether the table carries
// an open session and, when it does, the session with its prior
// tickets so the client can show the attach/decline prompt.
func (h *TableHandler) Session(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Sessions.ActiveForTable(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
	}
	if s == nil {
		return c.JSON(http.StatusOK, echo.Map{"tab": nil})
	}
	orders, err := h.Orders.SessionOrders(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session orders failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tab": pos.DetectedTab{Session: s, Orders: orders}})
}
