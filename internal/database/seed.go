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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Seed file layout. Timestamps are ISO-8601 strings; ids are implicit
// (row order determines the AUTOINCREMENT ids the other sections reference).
type seedData struct {
	Customers []struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Phone       *string `json:"phone"`
		AddressLine *string `json:"address_line"`
		City        *string `json:"city"`
		State       *string `json:"state"`
		ZipCode     *string `json:"zip_code"`
		Country     string  `json:"country"`
		CreatedAt   string  `json:"created_at"`
	} `json:"customers"`
	Orders []struct {
		CustomerId      int64   `json:"customer_id"`
		Item            string  `json:"item"`
		Quantity        int64   `json:"quantity"`
		UnitPrice       float64 `json:"unit_price"`
		TotalAmount     float64 `json:"total_amount"`
		Status          string  `json:"status"`
		PaymentMethod   *string `json:"payment_method"`
		ShippingAddress *string `json:"shipping_address"`
		TrackingNumber  *string `json:"tracking_number"`
		OrderedAt       string  `json:"ordered_at"`
	} `json:"orders"`
	Complaints []struct {
		CustomerId int64   `json:"customer_id"`
		OrderId    *int64  `json:"order_id"`
		Category   string  `json:"category"`
		Priority   string  `json:"priority"`
		Status     string  `json:"status"`
		Subject    string  `json:"subject"`
		Details    string  `json:"details"`
		Resolution *string `json:"resolution"`
		AssignedTo *string `json:"assigned_to"`
		CreatedAt  string  `json:"created_at"`
		ResolvedAt *string `json:"resolved_at"`
	} `json:"complaints"`
	PaymentEvents []struct {
		OrderId       int64   `json:"order_id"`
		TransactionId string  `json:"transaction_id"`
		EventType     string  `json:"event_type"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		Gateway       string  `json:"gateway"`
		ErrorMessage  *string `json:"error_message"`
		LoggedAt      string  `json:"logged_at"`
	} `json:"payment_events"`
	LogisticsEvents []struct {
		OrderId        int64   `json:"order_id"`
		TrackingNumber *string `json:"tracking_number"`
		Carrier        string  `json:"carrier"`
		EventType      string  `json:"event_type"`
		Location       *string `json:"location"`
		Notes          *string `json:"notes"`
		LoggedAt       string  `json:"logged_at"`
	} `json:"logistics_events"`
}

func parseSeedTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid seed timestamp %q: %w", value, err)
	}
	return t, nil
}

func parseSeedTimePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseSeedTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// seedIfEmpty loads a JSON seed file and populates the tables on first run.
// An already-populated database is left untouched.
func (s *Service) seedIfEmpty(ctx context.Context, seedFile string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("unable to check customers table: %w", err)
	}
	if count > 0 {
		zap.L().Debug("Database already seeded, skipping", zap.Int("customers", count))
		return nil
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("unable to read seed file %s: %w", seedFile, err)
	}
	var seed seedData
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("unable to parse seed file %s: %w", seedFile, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range seed.Customers {
		createdAt, err := parseSeedTime(c.CreatedAt)
		if err != nil {
			return err
		}
		country := c.Country
		if country == "" {
			country = "India"
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO customers (name, email, phone, address_line, city, state, zip_code, country, created_at)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			c.Name, c.Email, c.Phone, c.AddressLine, c.City, c.State, c.ZipCode, country, createdAt)
		if err != nil {
			return fmt.Errorf("unable to seed customer %s: %w", c.Email, err)
		}
	}

	for _, o := range seed.Orders {
		orderedAt, err := parseSeedTime(o.OrderedAt)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (customer_id, item, quantity, unit_price, total_amount, status,
			                     payment_method, shipping_address, tracking_number, ordered_at)
			 VALUES (?,?,?,?,?,?,?,?,?,?)`,
			o.CustomerId, o.Item, o.Quantity, o.UnitPrice, o.TotalAmount, o.Status,
			o.PaymentMethod, o.ShippingAddress, o.TrackingNumber, orderedAt)
		if err != nil {
			return fmt.Errorf("unable to seed order for customer %d: %w", o.CustomerId, err)
		}
	}

	for _, c := range seed.Complaints {
		createdAt, err := parseSeedTime(c.CreatedAt)
		if err != nil {
			return err
		}
		resolvedAt, err := parseSeedTimePtr(c.ResolvedAt)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO complaints (customer_id, order_id, category, priority, status, subject,
			                         details, resolution, assigned_to, created_at, resolved_at)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			c.CustomerId, c.OrderId, c.Category, c.Priority, c.Status, c.Subject,
			c.Details, c.Resolution, c.AssignedTo, createdAt, resolvedAt)
		if err != nil {
			return fmt.Errorf("unable to seed complaint %q: %w", c.Subject, err)
		}
	}

	for _, e := range seed.PaymentEvents {
		loggedAt, err := parseSeedTime(e.LoggedAt)
		if err != nil {
			return err
		}
		currency := e.Currency
		if currency == "" {
			currency = "INR"
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payment_events (order_id, transaction_id, event_type, amount, currency,
			                             gateway, error_message, logged_at)
			 VALUES (?,?,?,?,?,?,?,?)`,
			e.OrderId, e.TransactionId, e.EventType, e.Amount, currency, e.Gateway, e.ErrorMessage, loggedAt)
		if err != nil {
			return fmt.Errorf("unable to seed payment event %s: %w", e.TransactionId, err)
		}
	}

	for _, e := range seed.LogisticsEvents {
		loggedAt, err := parseSeedTime(e.LoggedAt)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO logistics_events (order_id, tracking_number, carrier, event_type, location, notes, logged_at)
			 VALUES (?,?,?,?,?,?,?)`,
			e.OrderId, e.TrackingNumber, e.Carrier, e.EventType, e.Location, e.Notes, loggedAt)
		if err != nil {
			return fmt.Errorf("unable to seed logistics event for order %d: %w", e.OrderId, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit seed transaction: %w", err)
	}

	zap.L().Info("Seeded database",
		zap.Int("customers", len(seed.Customers)),
		zap.Int("orders", len(seed.Orders)),
		zap.Int("complaints", len(seed.Complaints)),
		zap.Int("payment_events", len(seed.PaymentEvents)),
		zap.Int("logistics_events", len(seed.LogisticsEvents)))
	return nil
}
