package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// SettingsRepo reads and writes the single-row application settings.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns the current settings.  When the row does not exist yet,
// defaults are returned instead of an error so the POS keeps working on
// a fresh database.
func (r *SettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	const q = `SELECT restaurant_name, tax_rate, currency FROM settings WHERE id = 1`
	var s model.Settings
	err := r.db.QueryRowContext(ctx, q).Scan(&s.RestaurantName, &s.TaxRate, &s.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Settings{TaxRate: model.DefaultTaxRate, Currency: "EUR"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update upserts the settings row.
func (r *SettingsRepo) Update(ctx context.Context, s *model.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (id, restaurant_name, tax_rate, currency)
		 VALUES (1, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE restaurant_name = VALUES(restaurant_name),
		                         tax_rate = VALUES(tax_rate),
		                         currency = VALUES(currency)`,
		s.RestaurantName, s.TaxRate, s.Currency)
	return err
}
