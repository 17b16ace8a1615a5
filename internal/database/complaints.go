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

func scanComplaint(scanner interface{ Scan(...any) error }) (models.Complaint, error) {
	var c models.Complaint
	err := scanner.Scan(&c.Id, &c.CustomerId, &c.OrderId, &c.Category, &c.Priority,
		&c.Status, &c.Subject, &c.Details, &c.Resolution, &c.AssignedTo,
		&c.CreatedAt, &c.ResolvedAt)
	return c, err
}

func (s *Service) ListComplaints(ctx context.Context, filter store.ComplaintFilter) ([]models.Complaint, error) {
	if filter.CustomerId != nil && *filter.CustomerId <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", store.ErrInvalidArgument, *filter.CustomerId)
	}
	if filter.OrderId != nil && *filter.OrderId <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive, got %d", store.ErrInvalidArgument, *filter.OrderId)
	}

	q := queryListComplaintsBase
	args := []any{}
	if filter.CustomerId != nil {
		q += " AND customer_id = ?"
		args = append(args, *filter.CustomerId)
	}
	if filter.OrderId != nil {
		q += " AND order_id = ?"
		args = append(args, *filter.OrderId)
	}
	if filter.Status != "" {
		q += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		q += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		q += " AND priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.AssignedTo != "" {
		q += " AND assigned_to = ?"
		args = append(args, filter.AssignedTo)
	}
	q += " ORDER BY created_at DESC, id DESC"

	return s.queryComplaints(ctx, q, args...)
}

func (s *Service) GetComplaintById(ctx context.Context, complaintId int64) (*models.Complaint, error) {
	if complaintId <= 0 {
		return nil, fmt.Errorf("%w: complaint id must be positive, got %d", store.ErrInvalidArgument, complaintId)
	}

	c, err := scanComplaint(s.db.QueryRowContext(ctx, queryGetComplaintById, complaintId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: complaint %d", store.ErrNotFound, complaintId)
		}
		zap.L().Error("Failed to query complaint by id", zap.Int64("complaint_id", complaintId), zap.Error(err))
		return nil, fmt.Errorf("unable to query complaint %d: %w", complaintId, store.ErrUnavailable)
	}

	return &c, nil
}

func (s *Service) GetComplaintsForOrder(ctx context.Context, orderId int64) ([]models.Complaint, error) {
	if orderId <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive, got %d", store.ErrInvalidArgument, orderId)
	}

	return s.queryComplaints(ctx, queryGetComplaintsForOrder, orderId)
}

func (s *Service) SearchComplaints(ctx context.Context, keyword string) ([]models.Complaint, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: search keyword cannot be empty", store.ErrInvalidArgument)
	}

	like := "%" + keyword + "%"
	return s.queryComplaints(ctx, querySearchComplaints, like, like)
}

func (s *Service) GetHighPriorityOpenComplaints(ctx context.Context) ([]models.Complaint, error) {
	return s.queryComplaints(ctx, queryHighPriorityOpenComplaints)
}

func (s *Service) queryComplaints(ctx context.Context, query string, args ...any) ([]models.Complaint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query complaints", zap.Error(err))
		return nil, fmt.Errorf("unable to query complaints: %w", store.ErrUnavailable)
	}
	defer closeRows(rows)

	complaints := []models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan complaint row: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaint rows: %w", err)
	}

	zap.L().Debug("Retrieved complaints", zap.Int("count", len(complaints)))
	return complaints, nil
}
