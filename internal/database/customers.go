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
	"errors"
	"fmt"
	"strings"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	"go.uber.org/zap"
)

func scanCustomer(scanner interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := scanner.Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.AddressLine,
		&c.City, &c.State, &c.ZipCode, &c.Country, &c.CreatedAt)
	return c, err
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	zap.L().Debug("Querying all customers")

	rows, err := s.db.QueryContext(ctx, queryListCustomers)
	if err != nil {
		zap.L().Error("Failed to query customers", zap.Error(err))
		return nil, fmt.Errorf("unable to query customers: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	zap.L().Debug("Retrieved customers", zap.Int("count", len(customers)))
	return customers, nil
}

func (s *Service) GetCustomerById(ctx context.Context, customerId int64) (*models.Customer, error) {
	if customerId <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", store.ErrInvalidArgument, customerId)
	}

	c, err := scanCustomer(s.db.QueryRowContext(ctx, queryGetCustomerById, customerId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %d", store.ErrNotFound, customerId)
		}
		zap.L().Error("Failed to query customer by id", zap.Int64("customer_id", customerId), zap.Error(err))
		return nil, fmt.Errorf("unable to query customer %d: %w", customerId, store.ErrUnavailable)
	}

	return &c, nil
}

func (s *Service) SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: search keyword cannot be empty", store.ErrInvalidArgument)
	}

	like := "%" + keyword + "%"
	rows, err := s.db.QueryContext(ctx, querySearchCustomers, like, like)
	if err != nil {
		zap.L().Error("Failed to search customers", zap.String("keyword", keyword), zap.Error(err))
		return nil, fmt.Errorf("unable to search customers: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return customers, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}
