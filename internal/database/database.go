// Package database owns the PostgreSQL pool and schema bootstrap.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables and constraints the service relies on.
// Statements are idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'CUSTOMER',
			phone_number TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0.01),
			category TEXT NOT NULL DEFAULT 'MAIN_COURSE',
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_vegetarian BOOLEAN NOT NULL DEFAULT FALSE,
			is_vegan BOOLEAN NOT NULL DEFAULT FALSE,
			preparation_time INT NOT NULL DEFAULT 15,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tables (
			id UUID PRIMARY KEY,
			table_number INT NOT NULL UNIQUE,
			capacity INT NOT NULL CHECK (capacity >= 1),
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			-- customer ids are asserted by the identity headers and may not
				-- have a local users row yet, so no FK here.
				customer_id UUID NOT NULL,
			table_id UUID REFERENCES tables(id) ON DELETE SET NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			payment_method TEXT NOT NULL DEFAULT 'cod',
			special_instructions TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// One PENDING order (the cart) per customer, enforced by the store
		// rather than checked in application code.
		`CREATE UNIQUE INDEX IF NOT EXISTS orders_one_pending_per_customer
			ON orders (customer_id) WHERE status = 'PENDING'`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id UUID NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			quantity INT NOT NULL CHECK (quantity >= 1),
			price NUMERIC(10,2) NOT NULL,
			UNIQUE (order_id, menu_item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS orders_customer_created_idx
			ON orders (customer_id, created_at DESC)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
