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

package registry

import (
	"context"
	"fmt"
	"sort"

	"commerce-context-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is a parameterless read with a stable id, recomputed on every
// request.
type Snapshot struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	producer    func(ctx context.Context) (any, error)
}

func (r *Registry) buildSnapshots() map[string]Snapshot {
	snapshots := []Snapshot{
		{
			Id:          "data/customers",
			Description: "Every customer account",
			producer: func(ctx context.Context) (any, error) {
				return r.store.ListCustomers(ctx)
			},
		},
		{
			Id:          "data/orders",
			Description: "Every order",
			producer: func(ctx context.Context) (any, error) {
				return r.store.ListOrders(ctx, store.OrderFilter{})
			},
		},
		{
			Id:          "data/complaints",
			Description: "Every complaint",
			producer: func(ctx context.Context) (any, error) {
				return r.store.ListComplaints(ctx, store.ComplaintFilter{})
			},
		},
		{
			Id:          "logs/payments",
			Description: "Full payment gateway event log",
			producer: func(ctx context.Context) (any, error) {
				return r.store.GetPaymentEvents(ctx, store.PaymentEventFilter{})
			},
		},
		{
			Id:          "logs/logistics",
			Description: "Full carrier event log",
			producer: func(ctx context.Context) (any, error) {
				return r.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{})
			},
		},
		{
			Id:          "stats/orders",
			Description: "Order breakdown by status and payment method",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.OrderStatistics(ctx)
			},
		},
		{
			Id:          "stats/complaints",
			Description: "Complaint breakdown by category, priority, status and assignee",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.ComplaintStatistics(ctx)
			},
		},
		{
			Id:          "stats/revenue-by-city",
			Description: "Order revenue grouped by customer city",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.RevenueByCity(ctx)
			},
		},
		{
			Id:          "stats/top-customers",
			Description: "Customers ranked by total spend",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.TopCustomers(ctx, 0)
			},
		},
		{
			Id:          "stats/payment-failure",
			Description: "Failure rate per payment gateway",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.PaymentFailureRate(ctx, "", nil, nil)
			},
		},
		{
			Id:          "stats/carrier-performance",
			Description: "Delivery metrics aggregated per carrier",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.CarrierPerformance(ctx)
			},
		},
		{
			Id:          "alerts/high-priority",
			Description: "Unresolved high and critical complaints",
			producer: func(ctx context.Context) (any, error) {
				return r.store.GetHighPriorityOpenComplaints(ctx)
			},
		},
		{
			Id:          "dashboard/summary",
			Description: "Headline metrics across all domains",
			producer: func(ctx context.Context) (any, error) {
				return r.analytics.DashboardSummary(ctx)
			},
		},
	}

	index := make(map[string]Snapshot, len(snapshots))
	for _, snapshot := range snapshots {
		index[snapshot.Id] = snapshot
	}
	return index
}

// Snapshots lists every readable snapshot, sorted by id.
func (r *Registry) Snapshots() []Snapshot {
	list := make([]Snapshot, 0, len(r.snapshots))
	for _, snapshot := range r.snapshots {
		list = append(list, snapshot)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Id < list[b].Id })
	return list
}

// ReadSnapshot produces the current value of one snapshot.
func (r *Registry) ReadSnapshot(ctx context.Context, id string) Response {
	requestId := uuid.New().String()
	logger := zap.L().With(zap.String("request_id", requestId), zap.String("snapshot", id))

	snapshot, known := r.snapshots[id]
	if !known {
		logger.Warn("Unknown snapshot requested")
		return failureResponse(requestId, id,
			fmt.Errorf("%w: unknown snapshot %q", store.ErrNotFound, id))
	}

	result, err := snapshot.producer(ctx)
	if err != nil {
		logger.Warn("Snapshot read failed", zap.Error(err))
		return failureResponse(requestId, id, err)
	}
	logger.Debug("Snapshot read completed")
	return Response{RequestId: requestId, Operation: id, Result: result}
}
