package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Menu item categories.
const (
	CategoryAppetizer  = "APPETIZER"
	CategoryMainCourse = "MAIN_COURSE"
	CategoryDessert    = "DESSERT"
	CategoryBeverage   = "BEVERAGE"
	CategorySpecial    = "SPECIAL"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryAppetizer, CategoryMainCourse, CategoryDessert, CategoryBeverage, CategorySpecial:
		return true
	}
	return false
}

type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC in Postgres; decimal avoids float rounding on money
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	IsAvailable     bool            `json:"is_available"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Table struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"is_available"`
}

// ListResponse represents the filtered menu listing.
// swagger:model
type ListResponse struct {
	// category filter applied
	Category string `json:"category,omitempty"`
	// search query applied
	Search string     `json:"search,omitempty"`
	Items  []MenuItem `json:"items"`
}
