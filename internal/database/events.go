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
	"fmt"
	"time"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	"go.uber.org/zap"
)

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf("%w: time window start %s is after end %s",
			store.ErrInvalidArgument, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func (s *Service) GetPaymentEvents(ctx context.Context, filter store.PaymentEventFilter) ([]models.PaymentEvent, error) {
	if filter.OrderId != nil && *filter.OrderId <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive, got %d", store.ErrInvalidArgument, *filter.OrderId)
	}
	if err := validateWindow(filter.Start, filter.End); err != nil {
		return nil, err
	}

	q := queryPaymentEventsBase
	args := []any{}
	if filter.OrderId != nil {
		q += " AND order_id = ?"
		args = append(args, *filter.OrderId)
	}
	if filter.Gateway != "" {
		q += " AND gateway = ?"
		args = append(args, filter.Gateway)
	}
	if filter.Start != nil {
		q += " AND logged_at >= ?"
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		q += " AND logged_at <= ?"
		args = append(args, *filter.End)
	}
	q += " ORDER BY logged_at, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		zap.L().Error("Failed to query payment events", zap.Error(err))
		return nil, fmt.Errorf("unable to query payment events: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	events := []models.PaymentEvent{}
	for rows.Next() {
		var e models.PaymentEvent
		err := rows.Scan(&e.Id, &e.OrderId, &e.TransactionId, &e.EventType, &e.Amount,
			&e.Currency, &e.Gateway, &e.ErrorMessage, &e.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan payment event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment event rows: %w", err)
	}

	zap.L().Debug("Retrieved payment events", zap.Int("count", len(events)))
	return events, nil
}

func (s *Service) GetLogisticsEvents(ctx context.Context, filter store.LogisticsEventFilter) ([]models.LogisticsEvent, error) {
	if filter.OrderId != nil && *filter.OrderId <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive, got %d", store.ErrInvalidArgument, *filter.OrderId)
	}
	if err := validateWindow(filter.Start, filter.End); err != nil {
		return nil, err
	}

	q := queryLogisticsEventsBase
	args := []any{}
	if filter.OrderId != nil {
		q += " AND order_id = ?"
		args = append(args, *filter.OrderId)
	}
	if filter.TrackingNumber != "" {
		q += " AND tracking_number = ?"
		args = append(args, filter.TrackingNumber)
	}
	if filter.Start != nil {
		q += " AND logged_at >= ?"
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		q += " AND logged_at <= ?"
		args = append(args, *filter.End)
	}
	q += " ORDER BY logged_at, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		zap.L().Error("Failed to query logistics events", zap.Error(err))
		return nil, fmt.Errorf("unable to query logistics events: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	events := []models.LogisticsEvent{}
	for rows.Next() {
		var e models.LogisticsEvent
		err := rows.Scan(&e.Id, &e.OrderId, &e.TrackingNumber, &e.Carrier, &e.EventType,
			&e.Location, &e.Notes, &e.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan logistics event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logistics event rows: %w", err)
	}

	zap.L().Debug("Retrieved logistics events", zap.Int("count", len(events)))
	return events, nil
}
