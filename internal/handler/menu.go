package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
	"github.com/andreafabbri97/restaurant-manager/internal/repository"
)

// MenuHandler serves the public menu reads (behind the Redis cache)
// and the admin-only menu administration.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

func NewMenuHandler(m *repository.MenuRepo) *MenuHandler {
	return &MenuHandler{Menu: m}
}

// Items returns menu items.  The public read defaults to available
// items only, which is what the order-entry screen loads; ?all=true
// includes the hidden ones for back-office views.
func (h *MenuHandler) Items(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	onlyAvailable := !strings.EqualFold(c.QueryParam("all"), "true")
	items, err := h.Menu.Items(ctx, onlyAvailable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list menu failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Categories returns all categories in sort order.
func (h *MenuHandler) Categories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cats, err := h.Menu.Categories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list categories failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

type categoryReq struct {
	Name      string `json:"name"`
	SortOrder uint32 `json:"sort_order"`
}

func (h *MenuHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Menu.CreateCategory(ctx, strings.TrimSpace(req.Name), req.SortOrder)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *MenuHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.UpdateCategory(ctx, id, strings.TrimSpace(req.Name), req.SortOrder); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.DeleteCategory(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category has menu items"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type menuItemReq struct {
	CategoryID  uint64  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	Available   *bool   `json:"available"`
}

func (h *MenuHandler) CreateItem(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CategoryID == 0 || strings.TrimSpace(req.Name) == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id, name and price_cents required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	item := model.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	id, err := h.Menu.CreateItem(ctx, &item)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *MenuHandler) UpdateItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CategoryID == 0 || strings.TrimSpace(req.Name) == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id, name and price_cents required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	item := model.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := h.Menu.UpdateItem(ctx, id, &item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type availabilityReq struct {
	Available bool `json:"available"`
}

// SetAvailability toggles the quick available flag without touching the
// rest of the item.
func (h *MenuHandler) SetAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.SetAvailability(ctx, id, req.Available); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update availability failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) DeleteItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.DeleteItem(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
