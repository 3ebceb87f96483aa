package services

import (
	"context"
	"fmt"

	"coffeehouse/db"
	"coffeehouse/storage"

	"golang.org/x/crypto/bcrypt"
)

// Seed loads the standard coffee-shop catalog and a default admin account.
// Safe to run more than once: rows are matched by name/email.
func Seed(ctx context.Context, adminEmail, adminPassword string) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO roles (name) VALUES ('admin'), ('user')
		ON CONFLICT (name) DO NOTHING`); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	if adminEmail != "" && adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, role_id)
			VALUES ('Admin', $1, $2, (SELECT id FROM roles WHERE name = 'admin'))
			ON CONFLICT (email) DO NOTHING`,
			adminEmail, string(hash),
		); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	categories := []struct {
		name, description string
		sortOrder         int
	}{
		{"Coffee", "Hot and cold coffee beverages", 1},
		{"Pastries", "Fresh baked goods and desserts", 2},
		{"Beverages", "Non-coffee drinks and refreshments", 3},
	}
	for _, c := range categories {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO categories (name, description, is_active, sort_order)
			VALUES ($1, $2, true, $3)
			ON CONFLICT (name) DO NOTHING`,
			c.name, c.description, c.sortOrder,
		); err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
	}

	items := []struct {
		name, description, category string
		price                       int64 // cents
	}{
		{"Espresso", "Rich and bold single shot", "Coffee", 350},
		{"Americano", "Espresso with hot water", "Coffee", 300},
		{"Latte", "Espresso with steamed milk", "Coffee", 450},
		{"Cappuccino", "Espresso with steamed milk and foam", "Coffee", 400},
		{"Mocha", "Chocolate and espresso with milk", "Coffee", 500},
		{"Croissant", "Buttery and flaky", "Pastries", 400},
		{"Blueberry Muffin", "Fresh baked with blueberries", "Pastries", 325},
		{"Bagel", "Toasted with cream cheese", "Pastries", 350},
		{"Danish Pastry", "Sweet and delicious", "Pastries", 375},
		{"Orange Juice", "Fresh squeezed", "Beverages", 375},
		{"Fruit Smoothie", "Mixed berries and banana", "Beverages", 550},
		{"Iced Tea", "Refreshing and chilled", "Beverages", 300},
	}
	for _, it := range items {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO menu_items (name, description, price, category_id, is_available, image)
			SELECT $1, $2, $3, c.id, true, $4
			FROM categories c
			WHERE c.name = $5
			  AND NOT EXISTS (
				SELECT 1 FROM menu_items WHERE name = $1 AND category_id = c.id
			  )`,
			it.name, it.description, it.price, storage.Placeholder, it.category,
		); err != nil {
			return fmt.Errorf("seed menu item %s: %w", it.name, err)
		}
	}
	return nil
}
