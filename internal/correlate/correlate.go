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

package correlate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine joins entities across domains. It never writes; every method is a
// pure read composed from store accessors.
type Engine struct {
	store     store.ContextStore
	threshold float64
}

func NewEngine(contextStore store.ContextStore, analytics models.AnalyticsConfig) *Engine {
	return &Engine{
		store:     contextStore,
		threshold: analytics.RecurringIssueThreshold,
	}
}

// domainRank orders same-timestamp events: payment, then logistics, then complaint.
func domainRank(domain string) int {
	switch domain {
	case models.DomainPayment:
		return 0
	case models.DomainLogistics:
		return 1
	default:
		return 2
	}
}

func timelineEventId(e models.TimelineEvent) int64 {
	switch e.Domain {
	case models.DomainPayment:
		return e.Payment.Id
	case models.DomainLogistics:
		return e.Logistics.Id
	default:
		return e.Complaint.Id
	}
}

// FulfillmentTimeline assembles the full cross-domain history of one order:
// its payment events, logistics events and complaints, plus a single merged
// sequence ordered by timestamp.
func (e *Engine) FulfillmentTimeline(ctx context.Context, orderId int64) (*models.FulfillmentTimeline, error) {
	order, err := e.store.GetOrderById(ctx, orderId)
	if err != nil {
		return nil, err
	}

	payments, err := e.store.GetPaymentEvents(ctx, store.PaymentEventFilter{OrderId: &orderId})
	if err != nil {
		return nil, fmt.Errorf("unable to load payment events for order %d: %w", orderId, err)
	}
	logistics, err := e.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{OrderId: &orderId})
	if err != nil {
		return nil, fmt.Errorf("unable to load logistics events for order %d: %w", orderId, err)
	}
	complaints, err := e.store.GetComplaintsForOrder(ctx, orderId)
	if err != nil {
		return nil, fmt.Errorf("unable to load complaints for order %d: %w", orderId, err)
	}

	inconsistencies := []string{}
	expected := order.UnitPrice.Mul(decimal.NewFromInt(order.Quantity))
	if !order.TotalAmount.Equal(expected) {
		inconsistencies = append(inconsistencies, fmt.Sprintf(
			"order total %s does not match quantity x unit price (%d x %s = %s)",
			order.TotalAmount, order.Quantity, order.UnitPrice, expected))
		zap.L().Warn("Order amount mismatch detected",
			zap.Int64("order_id", orderId),
			zap.String("total_amount", order.TotalAmount.String()),
			zap.String("expected", expected.String()))
	}

	merged := make([]models.TimelineEvent, 0, len(payments)+len(logistics)+len(complaints))
	for i := range payments {
		merged = append(merged, models.TimelineEvent{
			Domain:    models.DomainPayment,
			Timestamp: payments[i].LoggedAt,
			Payment:   &payments[i],
		})
	}
	for i := range logistics {
		merged = append(merged, models.TimelineEvent{
			Domain:    models.DomainLogistics,
			Timestamp: logistics[i].LoggedAt,
			Logistics: &logistics[i],
		})
	}
	for i := range complaints {
		merged = append(merged, models.TimelineEvent{
			Domain:    models.DomainComplaint,
			Timestamp: complaints[i].CreatedAt,
			Complaint: &complaints[i],
		})
	}
	sort.SliceStable(merged, func(a, b int) bool {
		ea, eb := merged[a], merged[b]
		if !ea.Timestamp.Equal(eb.Timestamp) {
			return ea.Timestamp.Before(eb.Timestamp)
		}
		ra, rb := domainRank(ea.Domain), domainRank(eb.Domain)
		if ra != rb {
			return ra < rb
		}
		return timelineEventId(ea) < timelineEventId(eb)
	})

	return &models.FulfillmentTimeline{
		Order:           *order,
		PaymentEvents:   payments,
		LogisticsEvents: logistics,
		Complaints:      complaints,
		Merged:          merged,
		Inconsistencies: inconsistencies,
	}, nil
}

// ComplaintContext resolves everything surrounding one complaint: the
// customer, and when the complaint is linked to an order, that order and its
// payment and logistics history. OrderLinked distinguishes "no linked order"
// from "linked order with no events".
func (e *Engine) ComplaintContext(ctx context.Context, complaintId int64) (*models.ComplaintContext, error) {
	complaint, err := e.store.GetComplaintById(ctx, complaintId)
	if err != nil {
		return nil, err
	}

	customer, err := e.store.GetCustomerById(ctx, complaint.CustomerId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: complaint %d references missing customer %d",
				store.ErrInconsistent, complaintId, complaint.CustomerId)
		}
		return nil, fmt.Errorf("unable to load customer %d: %w", complaint.CustomerId, err)
	}

	result := &models.ComplaintContext{
		Complaint:       *complaint,
		Customer:        *customer,
		OrderLinked:     false,
		PaymentEvents:   []models.PaymentEvent{},
		LogisticsEvents: []models.LogisticsEvent{},
	}
	if complaint.OrderId == nil {
		return result, nil
	}

	order, err := e.store.GetOrderById(ctx, *complaint.OrderId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: complaint %d references missing order %d",
				store.ErrInconsistent, complaintId, *complaint.OrderId)
		}
		return nil, fmt.Errorf("unable to load order %d: %w", *complaint.OrderId, err)
	}

	payments, err := e.store.GetPaymentEvents(ctx, store.PaymentEventFilter{OrderId: complaint.OrderId})
	if err != nil {
		return nil, fmt.Errorf("unable to load payment events for order %d: %w", *complaint.OrderId, err)
	}
	logistics, err := e.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{OrderId: complaint.OrderId})
	if err != nil {
		return nil, fmt.Errorf("unable to load logistics events for order %d: %w", *complaint.OrderId, err)
	}

	result.OrderLinked = true
	result.Order = order
	result.PaymentEvents = payments
	result.LogisticsEvents = logistics
	return result, nil
}

// CustomerIssueCorrelation pairs a customer's orders with their complaints.
// Every order appears exactly once; complaints without an order are listed
// separately. The recurring-issues flag fires when the complaint-to-order
// ratio reaches the configured threshold.
func (e *Engine) CustomerIssueCorrelation(ctx context.Context, customerId int64) (*models.IssueCorrelation, error) {
	customer, err := e.store.GetCustomerById(ctx, customerId)
	if err != nil {
		return nil, err
	}

	orders, err := e.store.ListOrders(ctx, store.OrderFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load orders for customer %d: %w", customerId, err)
	}
	complaints, err := e.store.ListComplaints(ctx, store.ComplaintFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load complaints for customer %d: %w", customerId, err)
	}

	paired := make([]models.OrderComplaints, len(orders))
	indexByOrder := make(map[int64]int, len(orders))
	for i, order := range orders {
		paired[i] = models.OrderComplaints{Order: order, Complaints: []models.Complaint{}}
		indexByOrder[order.Id] = i
	}

	unlinked := []models.Complaint{}
	byCategory := map[string]int{}
	inconsistencies := []string{}
	for _, complaint := range complaints {
		byCategory[complaint.Category]++
		if complaint.OrderId == nil {
			unlinked = append(unlinked, complaint)
			continue
		}
		idx, ok := indexByOrder[*complaint.OrderId]
		if !ok {
			inconsistencies = append(inconsistencies, fmt.Sprintf(
				"complaint %d references order %d which does not belong to customer %d",
				complaint.Id, *complaint.OrderId, customerId))
			unlinked = append(unlinked, complaint)
			continue
		}
		paired[idx].Complaints = append(paired[idx].Complaints, complaint)
	}

	ratio := 0.0
	recurring := false
	if len(orders) > 0 {
		ratio = float64(len(complaints)) / float64(len(orders))
		recurring = ratio >= e.threshold
	} else if len(complaints) > 0 {
		// Complaints with no purchase history always warrant a look.
		recurring = true
	}

	return &models.IssueCorrelation{
		Customer:             *customer,
		Orders:               paired,
		UnlinkedComplaints:   unlinked,
		ComplaintsByCategory: byCategory,
		OrderCount:           len(orders),
		ComplaintCount:       len(complaints),
		ComplaintRatio:       ratio,
		RecurringIssues:      recurring,
		Threshold:            e.threshold,
		Inconsistencies:      inconsistencies,
	}, nil
}
