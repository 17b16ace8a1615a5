/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.ContextStore.
var _ store.ContextStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	if cfg.SeedFile != "" {
		if err := service.seedIfEmpty(ctx, cfg.SeedFile); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, cerr
			}
			return nil, fmt.Errorf("unable to seed database: %w", err)
		}
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

// Ping reports whether the durable store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Service) initSchema() error {
	schema := `
	-- Customer accounts with shipping address
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		address_line TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		country TEXT NOT NULL DEFAULT 'India',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
	CREATE INDEX IF NOT EXISTS idx_customers_city ON customers(city);

	-- Orders, one row per purchase
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		item TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_price REAL NOT NULL,
		total_amount REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK(status IN ('pending','processing','shipped','delivered','cancelled','returned')),
		payment_method TEXT
			CHECK(payment_method IN ('credit_card','debit_card','upi','net_banking','wallet','cod','emi')),
		shipping_address TEXT,
		tracking_number TEXT,
		ordered_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_tracking ON orders(tracking_number);
	CREATE INDEX IF NOT EXISTS idx_orders_ordered_at ON orders(ordered_at);

	-- Complaints, optionally linked to an order
	CREATE TABLE IF NOT EXISTS complaints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		order_id INTEGER REFERENCES orders(id),
		category TEXT NOT NULL
			CHECK(category IN ('delivery','billing','product','service','account','other')),
		priority TEXT NOT NULL DEFAULT 'medium'
			CHECK(priority IN ('low','medium','high','critical')),
		status TEXT NOT NULL DEFAULT 'open'
			CHECK(status IN ('open','investigating','waiting_customer','resolved','closed')),
		subject TEXT NOT NULL,
		details TEXT NOT NULL,
		resolution TEXT,
		assigned_to TEXT,
		created_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_complaints_customer ON complaints(customer_id);
	CREATE INDEX IF NOT EXISTS idx_complaints_order ON complaints(order_id);
	CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status);
	CREATE INDEX IF NOT EXISTS idx_complaints_priority ON complaints(priority);

	-- Payment gateway event log
	CREATE TABLE IF NOT EXISTS payment_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		transaction_id TEXT NOT NULL,
		event_type TEXT NOT NULL
			CHECK(event_type IN ('authorized','captured','failed','refunded','voided','chargeback','dispute_opened','dispute_resolved')),
		amount REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'INR',
		gateway TEXT NOT NULL,
		error_message TEXT,
		logged_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payment_events_order ON payment_events(order_id);
	CREATE INDEX IF NOT EXISTS idx_payment_events_time ON payment_events(logged_at);

	-- Carrier / shipping event log
	CREATE TABLE IF NOT EXISTS logistics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		tracking_number TEXT,
		carrier TEXT NOT NULL,
		event_type TEXT NOT NULL
			CHECK(event_type IN ('label_created','picked','packed','dispatched','in_transit','out_for_delivery','delivered','delivery_failed','returned_to_sender','held_at_facility')),
		location TEXT,
		notes TEXT,
		logged_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logistics_events_order ON logistics_events(order_id);
	CREATE INDEX IF NOT EXISTS idx_logistics_events_time ON logistics_events(logged_at);
	CREATE INDEX IF NOT EXISTS idx_logistics_events_tracking ON logistics_events(tracking_number);
	`

	_, err := s.db.Exec(schema)
	return err
}
