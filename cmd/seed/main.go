// Command seed loads the starter menu and table layout. Safe to run more
// than once; existing rows are left alone.
package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/dineat/restaurant-api/internal/config"
	"github.com/dineat/restaurant-api/internal/database"
)

type seedItem struct {
	name, description, category string
	price                       string
	vegetarian, vegan           bool
	prepMinutes                 int
}

var menu = []seedItem{
	{"Paneer Tikka", "Soft cottage cheese marinated in spices and grilled", "APPETIZER", "180.00", true, false, 20},
	{"Vegetable Samosa", "Crispy pastry filled with spiced vegetables", "APPETIZER", "80.00", true, true, 15},
	{"Chicken Tikka", "Tender chicken pieces marinated in spices and grilled", "APPETIZER", "250.00", false, false, 25},
	{"Fish Fry", "Crispy fried fish with spices", "APPETIZER", "280.00", false, false, 20},
	{"Dal Makhani", "Creamy black lentils cooked with butter and spices", "MAIN_COURSE", "220.00", true, false, 30},
	{"Palak Paneer", "Cottage cheese in creamy spinach gravy", "MAIN_COURSE", "200.00", true, false, 25},
	{"Vegetable Biryani", "Fragrant rice with mixed vegetables and spices", "MAIN_COURSE", "180.00", true, false, 35},
	{"Butter Chicken", "Tender chicken in creamy tomato gravy", "MAIN_COURSE", "320.00", false, false, 30},
	{"Chicken Biryani", "Fragrant rice with spiced chicken pieces", "MAIN_COURSE", "280.00", false, false, 40},
	{"Mutton Rogan Josh", "Tender mutton in aromatic Kashmiri spices", "MAIN_COURSE", "380.00", false, false, 45},
	{"Gulab Jamun", "Soft milk dumplings in sugar syrup", "DESSERT", "60.00", true, false, 10},
	{"Fresh Lime Soda", "Refreshing lime soda with mint", "BEVERAGE", "40.00", true, true, 5},
	{"Mango Lassi", "Sweet yogurt drink with mango flavor", "BEVERAGE", "60.00", true, false, 5},
	{"Masala Tea", "Spiced Indian tea with milk", "BEVERAGE", "30.00", true, false, 5},
}

var tables = []struct{ number, capacity int }{
	{1, 2}, {2, 2}, {3, 4}, {4, 4}, {5, 6}, {6, 6}, {7, 8}, {8, 8},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	for _, it := range menu {
		tag, err := pool.Exec(ctx, `
			INSERT INTO menu_items (id, name, description, price, category, is_available, is_vegetarian, is_vegan, preparation_time, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,TRUE,$6,$7,$8,NOW(),NOW())
			ON CONFLICT (name) DO NOTHING
		`, uuid.NewString(), it.name, it.description, it.price, it.category, it.vegetarian, it.vegan, it.prepMinutes)
		if err != nil {
			log.Fatalf("seed menu item %q: %v", it.name, err)
		}
		if tag.RowsAffected() > 0 {
			log.Printf("created menu item: %s (₹%s)", it.name, it.price)
		}
	}

	for _, t := range tables {
		tag, err := pool.Exec(ctx, `
			INSERT INTO tables (id, table_number, capacity, is_available)
			VALUES ($1,$2,$3,TRUE)
			ON CONFLICT (table_number) DO NOTHING
		`, uuid.NewString(), t.number, t.capacity)
		if err != nil {
			log.Fatalf("seed table %d: %v", t.number, err)
		}
		if tag.RowsAffected() > 0 {
			log.Printf("created table %d (%d seats)", t.number, t.capacity)
		}
	}

	log.Println("seed complete")
}
