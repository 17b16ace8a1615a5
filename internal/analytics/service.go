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

package analytics

import (
	"context"
	"fmt"
	"time"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"
)

// Service fetches entities through the store and feeds the pure aggregation
// functions. Results are computed per call; there is no cache to go stale.
type Service struct {
	store        store.ContextStore
	defaultLimit int
}

func NewService(contextStore store.ContextStore, analytics models.AnalyticsConfig) *Service {
	return &Service{
		store:        contextStore,
		defaultLimit: analytics.TopCustomersLimit,
	}
}

// DeliveryBreakdown reports per-phase delivery durations for one order.
func (s *Service) DeliveryBreakdown(ctx context.Context, orderId int64) (*models.DeliveryBreakdown, error) {
	order, err := s.store.GetOrderById(ctx, orderId)
	if err != nil {
		return nil, err
	}
	events, err := s.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{OrderId: &orderId})
	if err != nil {
		return nil, fmt.Errorf("unable to load logistics events for order %d: %w", orderId, err)
	}
	result := ComputeDeliveryBreakdown(*order, events)
	return &result, nil
}

// PaymentFailureRate reports failed/(failed+captured) per gateway, optionally
// restricted to one gateway and a time window.
func (s *Service) PaymentFailureRate(ctx context.Context, gateway string, from, to *time.Time) (*models.FailureRateReport, error) {
	events, err := s.store.GetPaymentEvents(ctx, store.PaymentEventFilter{
		Gateway: gateway,
		Start:   from,
		End:     to,
	})
	if err != nil {
		return nil, err
	}
	result := ComputeFailureRates(events, from, to)
	return &result, nil
}

// LifetimeValue summarises one customer's spend and complaint record.
func (s *Service) LifetimeValue(ctx context.Context, customerId int64) (*models.LifetimeValue, error) {
	customer, err := s.store.GetCustomerById(ctx, customerId)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load orders for customer %d: %w", customerId, err)
	}
	complaints, err := s.store.ListComplaints(ctx, store.ComplaintFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load complaints for customer %d: %w", customerId, err)
	}
	result := ComputeLifetimeValue(*customer, orders, complaints)
	return &result, nil
}

// CarrierPerformance aggregates the full logistics log per carrier.
func (s *Service) CarrierPerformance(ctx context.Context) ([]models.CarrierPerformance, error) {
	events, err := s.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{})
	if err != nil {
		return nil, err
	}
	return ComputeCarrierPerformance(events), nil
}

// ResolutionTimeStats summarises complaint resolution durations.
func (s *Service) ResolutionTimeStats(ctx context.Context) (*models.ResolutionTimeStats, error) {
	complaints, err := s.store.ListComplaints(ctx, store.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	result := ComputeResolutionTimeStats(complaints)
	return &result, nil
}

// RevenueByCity groups order revenue by customer city.
func (s *Service) RevenueByCity(ctx context.Context) ([]models.CityRevenue, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	return ComputeRevenueByCity(customers, orders), nil
}

// TopCustomers ranks customers by spend. A non-positive limit falls back to
// the configured default.
func (s *Service) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	return ComputeTopCustomers(customers, orders, limit), nil
}

// PaymentSummaryByMethod groups orders by payment method.
func (s *Service) PaymentSummaryByMethod(ctx context.Context) ([]models.MethodSummary, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	return ComputePaymentSummaryByMethod(orders), nil
}

// OrderStatistics breaks all orders down by status and payment method.
func (s *Service) OrderStatistics(ctx context.Context) (*models.OrderStatistics, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	result := ComputeOrderStatistics(orders)
	return &result, nil
}

// ComplaintStatistics breaks all complaints down by category, priority,
// status and assignee.
func (s *Service) ComplaintStatistics(ctx context.Context) (*models.ComplaintStatistics, error) {
	complaints, err := s.store.ListComplaints(ctx, store.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	result := ComputeComplaintStatistics(complaints)
	return &result, nil
}

// DashboardSummary rolls up headline metrics across all domains.
func (s *Service) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	complaints, err := s.store.ListComplaints(ctx, store.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	result := ComputeDashboardSummary(customers, orders, complaints)
	return &result, nil
}

// ActiveShipments lists shipped orders with their latest logistics position.
func (s *Service) ActiveShipments(ctx context.Context) ([]models.ActiveShipment, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{Status: models.OrderShipped})
	if err != nil {
		return nil, err
	}
	events, err := s.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{})
	if err != nil {
		return nil, err
	}
	return ComputeActiveShipments(customers, orders, events), nil
}

// CustomerSummary builds the aggregated profile for one customer.
func (s *Service) CustomerSummary(ctx context.Context, customerId int64) (*models.CustomerSummary, error) {
	customer, err := s.store.GetCustomerById(ctx, customerId)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load orders for customer %d: %w", customerId, err)
	}
	complaints, err := s.store.ListComplaints(ctx, store.ComplaintFilter{CustomerId: &customerId})
	if err != nil {
		return nil, fmt.Errorf("unable to load complaints for customer %d: %w", customerId, err)
	}
	result := ComputeCustomerSummary(*customer, orders, complaints)
	return &result, nil
}
