package model

// Settings is the single-row application configuration stored in the
// `settings` table.  TaxRate is an integer percentage applied on top
// of menu prices for standalone orders; tab tickets treat tax as
// already embedded in prices and never add it separately.
type Settings struct {
	RestaurantName string `json:"restaurant_name"` // settings.restaurant_name
	TaxRate        int    `json:"tax_rate"`        // settings.tax_rate (percent)
	Currency       string `json:"currency"`        // settings.currency (ISO code)
}

// DefaultTaxRate is used when no settings row exists yet.
const DefaultTaxRate = 17
