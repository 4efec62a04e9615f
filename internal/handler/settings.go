package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
	"github.com/andreafabbri97/restaurant-manager/internal/repository"
)

// SettingsHandler reads and updates the single-row application
// settings.  The tax rate set here drives standalone-order totals.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(s *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": s})
}

func (h *SettingsHandler) Update(c echo.Context) error {
	var s model.Settings
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if s.TaxRate < 0 || s.TaxRate > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tax_rate must be 0-100"})
	}
	s.RestaurantName = strings.TrimSpace(s.RestaurantName)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = "EUR"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Settings.Update(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save settings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": s})
}
