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
	"time"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	"go.uber.org/zap"
)

func scanOrder(scanner interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	err := scanner.Scan(&o.Id, &o.CustomerId, &o.Item, &o.Quantity, &o.UnitPrice,
		&o.TotalAmount, &o.Status, &o.PaymentMethod, &o.ShippingAddress,
		&o.TrackingNumber, &o.OrderedAt)
	return o, err
}

func (s *Service) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	if filter.CustomerId != nil && *filter.CustomerId <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", store.ErrInvalidArgument, *filter.CustomerId)
	}

	q := queryListOrdersBase
	args := []any{}
	if filter.CustomerId != nil {
		q += " AND customer_id = ?"
		args = append(args, *filter.CustomerId)
	}
	if filter.Status != "" {
		q += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.PaymentMethod != "" {
		q += " AND payment_method = ?"
		args = append(args, filter.PaymentMethod)
	}
	q += " ORDER BY ordered_at DESC, id DESC"

	return s.queryOrders(ctx, q, args...)
}

func (s *Service) GetOrderById(ctx context.Context, orderId int64) (*models.Order, error) {
	if orderId <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive, got %d", store.ErrInvalidArgument, orderId)
	}

	o, err := scanOrder(s.db.QueryRowContext(ctx, queryGetOrderById, orderId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", store.ErrNotFound, orderId)
		}
		zap.L().Error("Failed to query order by id", zap.Int64("order_id", orderId), zap.Error(err))
		return nil, fmt.Errorf("unable to query order %d: %w", orderId, store.ErrUnavailable)
	}

	return &o, nil
}

func (s *Service) GetOrderByTracking(ctx context.Context, trackingNumber string) (*models.Order, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, fmt.Errorf("%w: tracking number cannot be empty", store.ErrInvalidArgument)
	}

	o, err := scanOrder(s.db.QueryRowContext(ctx, queryGetOrderByTracking, trackingNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no order with tracking number %s", store.ErrNotFound, trackingNumber)
		}
		zap.L().Error("Failed to query order by tracking", zap.String("tracking_number", trackingNumber), zap.Error(err))
		return nil, fmt.Errorf("unable to query order by tracking: %w", store.ErrUnavailable)
	}

	return &o, nil
}

func (s *Service) GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: date range start %s is after end %s",
			store.ErrInvalidArgument, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return s.queryOrders(ctx, queryGetOrdersByDateRange, start, end)
}

func (s *Service) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("unable to query orders: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	zap.L().Debug("Retrieved orders", zap.Int("count", len(orders)))
	return orders, nil
}
