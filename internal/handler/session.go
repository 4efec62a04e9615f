package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/repository"
)

// SessionHandler manages open tabs ("conti aperti"): opening on a
// table, inspecting with prior tickets, and closing.
type SessionHandler struct {
	Sessions  *repository.SessionRepo
	OrderRepo *repository.OrderRepo
}

func NewSessionHandler(s *repository.SessionRepo, o *repository.OrderRepo) *SessionHandler {
	return &SessionHandler{Sessions: s, OrderRepo: o}
}

type openSessionReq struct {
	TableID       uint64 `json:"table_id"`
	Covers        uint32 `json:"covers"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// Open starts a tab on a table.  A table can carry at most one open
// session; a second open attempt returns 409.
func (h *SessionHandler) Open(c echo.Context) error {
	var req openSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableID == 0 || req.Covers == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id and covers required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var name, phone *string
	if req.CustomerName != "" {
		name = &req.CustomerName
	}
	if req.CustomerPhone != "" {
		phone = &req.CustomerPhone
	}

	s, err := h.Sessions.Open(ctx, req.TableID, req.Covers, name, phone)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table already has an open session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": s})
}

// Get returns one session.
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
	}
	if s == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"session": s})
}

// Orders lists a session's tickets in ticket-number order.
func (h *SessionHandler) Orders(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.OrderRepo.SessionOrders(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session orders failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Close stamps closed_at on an open session.  Settlement (payment,
// SMAC) is out of scope here; the tab simply stops accepting tickets.
func (h *SessionHandler) Close(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sessions.Close(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "session not open"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close session failed"})
	}
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil || s == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": s})
}
