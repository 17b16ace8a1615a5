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
	"sort"
	"time"

	"commerce-context-go/internal/models"

	"github.com/shopspring/decimal"
)

// Pure aggregation functions over entity slices. Nothing here touches the
// store; the Service in this package feeds them and nothing is cached.

func hoursBetween(from, to time.Time) *float64 {
	h := to.Sub(from).Hours()
	return &h
}

// countsTowardSpend filters orders out of revenue aggregates.
func countsTowardSpend(order models.Order) bool {
	return order.Status != models.OrderCancelled && order.Status != models.OrderReturned
}

func isOpenComplaint(complaint models.Complaint) bool {
	return complaint.Status != "resolved" && complaint.Status != "closed"
}

// ComputeDeliveryBreakdown derives per-phase delivery durations from an
// order's logistics history. Durations whose bounding events have not
// happened stay nil; they are never estimated.
func ComputeDeliveryBreakdown(order models.Order, events []models.LogisticsEvent) models.DeliveryBreakdown {
	result := models.DeliveryBreakdown{
		OrderId:        order.Id,
		Item:           order.Item,
		TrackingNumber: order.TrackingNumber,
		OrderedAt:      order.OrderedAt,
	}

	failed := false
	for i := range events {
		event := events[i]
		switch event.EventType {
		case models.LogisticsDispatched:
			if result.DispatchedAt == nil {
				t := event.LoggedAt
				result.DispatchedAt = &t
			}
		case models.LogisticsDelivered:
			// Only a delivery at or after dispatch closes the shipping phase.
			if result.DeliveredAt == nil &&
				(result.DispatchedAt == nil || !event.LoggedAt.Before(*result.DispatchedAt)) {
				t := event.LoggedAt
				result.DeliveredAt = &t
			}
		case models.LogisticsDeliveryFailed, models.LogisticsReturnedToSender:
			failed = true
		}
	}

	if result.DispatchedAt != nil {
		result.ProcessingHours = hoursBetween(order.OrderedAt, *result.DispatchedAt)
	}
	if result.DeliveredAt != nil {
		if result.DispatchedAt != nil {
			result.ShippingHours = hoursBetween(*result.DispatchedAt, *result.DeliveredAt)
		}
		result.TotalHours = hoursBetween(order.OrderedAt, *result.DeliveredAt)
	}

	switch {
	case result.DeliveredAt != nil:
		result.Status = models.DeliveryStatusDelivered
	case failed:
		result.Status = models.DeliveryStatusFailed
	case result.DispatchedAt != nil:
		result.Status = models.DeliveryStatusInTransit
	default:
		result.Status = models.DeliveryStatusPending
	}
	return result
}

func failureRate(captured, failed int) (*float64, bool) {
	denominator := captured + failed
	if denominator == 0 {
		return nil, true
	}
	rate := float64(failed) / float64(denominator)
	return &rate, false
}

// ComputeFailureRates groups payment events by gateway and reports the
// failed over failed-plus-captured ratio for each, plus an overall line.
// A gateway with no terminal events is marked insufficient_data, never NaN.
func ComputeFailureRates(events []models.PaymentEvent, windowFrom, windowTo *time.Time) models.FailureRateReport {
	type tally struct{ captured, failed int }
	byGateway := map[string]*tally{}
	overall := tally{}

	for _, event := range events {
		t := byGateway[event.Gateway]
		if t == nil {
			t = &tally{}
			byGateway[event.Gateway] = t
		}
		switch event.EventType {
		case models.PaymentCaptured:
			t.captured++
			overall.captured++
		case models.PaymentFailed:
			t.failed++
			overall.failed++
		}
	}

	gateways := make([]string, 0, len(byGateway))
	for gateway := range byGateway {
		gateways = append(gateways, gateway)
	}
	sort.Strings(gateways)

	rates := make([]models.GatewayFailureRate, 0, len(gateways))
	for _, gateway := range gateways {
		t := byGateway[gateway]
		rate, insufficient := failureRate(t.captured, t.failed)
		rates = append(rates, models.GatewayFailureRate{
			Gateway:          gateway,
			CapturedCount:    t.captured,
			FailedCount:      t.failed,
			FailureRate:      rate,
			InsufficientData: insufficient,
		})
	}

	overallRate, overallInsufficient := failureRate(overall.captured, overall.failed)
	return models.FailureRateReport{
		Overall: models.GatewayFailureRate{
			Gateway:          "all",
			CapturedCount:    overall.captured,
			FailedCount:      overall.failed,
			FailureRate:      overallRate,
			InsufficientData: overallInsufficient,
		},
		ByGateway:  rates,
		WindowFrom: windowFrom,
		WindowTo:   windowTo,
	}
}

// ComputeLifetimeValue sums a customer's spend over orders that were not
// cancelled or returned, alongside their complaint record.
func ComputeLifetimeValue(customer models.Customer, orders []models.Order, complaints []models.Complaint) models.LifetimeValue {
	result := models.LifetimeValue{
		CustomerId:    customer.Id,
		Name:          customer.Name,
		Email:         customer.Email,
		MemberSince:   customer.CreatedAt,
		TotalSpent:    decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}

	for _, order := range orders {
		if result.FirstOrderAt == nil || order.OrderedAt.Before(*result.FirstOrderAt) {
			t := order.OrderedAt
			result.FirstOrderAt = &t
		}
		if result.LastOrderAt == nil || order.OrderedAt.After(*result.LastOrderAt) {
			t := order.OrderedAt
			result.LastOrderAt = &t
		}
		if !countsTowardSpend(order) {
			result.ExcludedOrders++
			continue
		}
		result.OrderCount++
		result.TotalSpent = result.TotalSpent.Add(order.TotalAmount)
	}
	if result.OrderCount > 0 {
		result.AvgOrderValue = result.TotalSpent.DivRound(decimal.NewFromInt(int64(result.OrderCount)), 2)
	}

	for _, complaint := range complaints {
		result.ComplaintCount++
		if isOpenComplaint(complaint) {
			result.OpenComplaints++
		}
	}
	return result
}

// ComputeCarrierPerformance aggregates logistics events per carrier, with
// the average first-event-to-delivered duration over delivered orders.
func ComputeCarrierPerformance(events []models.LogisticsEvent) []models.CarrierPerformance {
	type orderTrack struct {
		firstSeen   time.Time
		deliveredAt *time.Time
	}
	type carrierTally struct {
		events int
		orders map[int64]*orderTrack
	}
	byCarrier := map[string]*carrierTally{}

	for _, event := range events {
		tally := byCarrier[event.Carrier]
		if tally == nil {
			tally = &carrierTally{orders: map[int64]*orderTrack{}}
			byCarrier[event.Carrier] = tally
		}
		tally.events++

		track := tally.orders[event.OrderId]
		if track == nil {
			track = &orderTrack{firstSeen: event.LoggedAt}
			tally.orders[event.OrderId] = track
		} else if event.LoggedAt.Before(track.firstSeen) {
			track.firstSeen = event.LoggedAt
		}
		if event.EventType == models.LogisticsDelivered && track.deliveredAt == nil {
			t := event.LoggedAt
			track.deliveredAt = &t
		}
	}

	carriers := make([]string, 0, len(byCarrier))
	for carrier := range byCarrier {
		carriers = append(carriers, carrier)
	}
	sort.Strings(carriers)

	results := make([]models.CarrierPerformance, 0, len(carriers))
	for _, carrier := range carriers {
		tally := byCarrier[carrier]
		perf := models.CarrierPerformance{
			Carrier:       carrier,
			TotalEvents:   tally.events,
			OrdersHandled: len(tally.orders),
		}
		var totalHours float64
		for _, track := range tally.orders {
			if track.deliveredAt == nil {
				continue
			}
			perf.DeliveredOrders++
			totalHours += track.deliveredAt.Sub(track.firstSeen).Hours()
		}
		if perf.DeliveredOrders > 0 {
			avg := totalHours / float64(perf.DeliveredOrders)
			perf.AvgDeliveryHours = &avg
		}
		results = append(results, perf)
	}
	return results
}

// ComputeResolutionTimeStats summarises created-to-resolved durations over
// resolved complaints, overall and per priority.
func ComputeResolutionTimeStats(complaints []models.Complaint) models.ResolutionTimeStats {
	result := models.ResolutionTimeStats{ByPriority: []models.PriorityResolution{}}

	perPriority := map[string]struct {
		count int
		total float64
	}{}
	var total, min, max float64
	for _, complaint := range complaints {
		if complaint.ResolvedAt == nil {
			continue
		}
		hours := complaint.ResolvedAt.Sub(complaint.CreatedAt).Hours()
		if result.ResolvedCount == 0 || hours < min {
			min = hours
		}
		if result.ResolvedCount == 0 || hours > max {
			max = hours
		}
		result.ResolvedCount++
		total += hours

		bucket := perPriority[complaint.Priority]
		bucket.count++
		bucket.total += hours
		perPriority[complaint.Priority] = bucket
	}

	if result.ResolvedCount > 0 {
		avg := total / float64(result.ResolvedCount)
		result.AvgHours = &avg
		result.MinHours = &min
		result.MaxHours = &max
	}

	// Priority buckets in escalation order.
	for _, priority := range models.Priorities {
		bucket, ok := perPriority[priority]
		if !ok {
			continue
		}
		avg := bucket.total / float64(bucket.count)
		result.ByPriority = append(result.ByPriority, models.PriorityResolution{
			Priority: priority,
			Count:    bucket.count,
			AvgHours: &avg,
		})
	}
	return result
}

// ComputeRevenueByCity groups order revenue by the ordering customer's city.
// Customers without a city land in an "unknown" bucket.
func ComputeRevenueByCity(customers []models.Customer, orders []models.Order) []models.CityRevenue {
	cityByCustomer := make(map[int64]string, len(customers))
	for _, customer := range customers {
		city := "unknown"
		if customer.City != nil && *customer.City != "" {
			city = *customer.City
		}
		cityByCustomer[customer.Id] = city
	}

	type tally struct {
		count   int
		revenue decimal.Decimal
	}
	byCity := map[string]*tally{}
	for _, order := range orders {
		if !countsTowardSpend(order) {
			continue
		}
		city, ok := cityByCustomer[order.CustomerId]
		if !ok {
			city = "unknown"
		}
		t := byCity[city]
		if t == nil {
			t = &tally{revenue: decimal.Zero}
			byCity[city] = t
		}
		t.count++
		t.revenue = t.revenue.Add(order.TotalAmount)
	}

	results := make([]models.CityRevenue, 0, len(byCity))
	for city, t := range byCity {
		results = append(results, models.CityRevenue{
			City:          city,
			OrderCount:    t.count,
			TotalRevenue:  t.revenue,
			AvgOrderValue: t.revenue.DivRound(decimal.NewFromInt(int64(t.count)), 2),
		})
	}
	sort.Slice(results, func(a, b int) bool {
		if !results[a].TotalRevenue.Equal(results[b].TotalRevenue) {
			return results[a].TotalRevenue.GreaterThan(results[b].TotalRevenue)
		}
		return results[a].City < results[b].City
	})
	return results
}

// ComputeTopCustomers ranks customers by spend. Customers with no countable
// orders are omitted.
func ComputeTopCustomers(customers []models.Customer, orders []models.Order, limit int) []models.TopCustomer {
	byCustomer := make(map[int64]*models.TopCustomer, len(customers))
	for _, customer := range customers {
		byCustomer[customer.Id] = &models.TopCustomer{
			CustomerId: customer.Id,
			Name:       customer.Name,
			Email:      customer.Email,
			City:       customer.City,
			TotalSpent: decimal.Zero,
		}
	}

	for _, order := range orders {
		entry, ok := byCustomer[order.CustomerId]
		if !ok || !countsTowardSpend(order) {
			continue
		}
		entry.OrderCount++
		entry.TotalSpent = entry.TotalSpent.Add(order.TotalAmount)
		if entry.LastOrderAt == nil || order.OrderedAt.After(*entry.LastOrderAt) {
			t := order.OrderedAt
			entry.LastOrderAt = &t
		}
	}

	ranked := make([]models.TopCustomer, 0, len(byCustomer))
	for _, entry := range byCustomer {
		if entry.OrderCount == 0 {
			continue
		}
		entry.AvgOrderValue = entry.TotalSpent.DivRound(decimal.NewFromInt(int64(entry.OrderCount)), 2)
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(a, b int) bool {
		if !ranked[a].TotalSpent.Equal(ranked[b].TotalSpent) {
			return ranked[a].TotalSpent.GreaterThan(ranked[b].TotalSpent)
		}
		return ranked[a].CustomerId < ranked[b].CustomerId
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ComputePaymentSummaryByMethod groups orders by payment method. Orders
// without one land in an "unspecified" bucket.
func ComputePaymentSummaryByMethod(orders []models.Order) []models.MethodSummary {
	type tally struct {
		count   int
		revenue decimal.Decimal
	}
	byMethod := map[string]*tally{}
	for _, order := range orders {
		if !countsTowardSpend(order) {
			continue
		}
		method := "unspecified"
		if order.PaymentMethod != nil && *order.PaymentMethod != "" {
			method = *order.PaymentMethod
		}
		t := byMethod[method]
		if t == nil {
			t = &tally{revenue: decimal.Zero}
			byMethod[method] = t
		}
		t.count++
		t.revenue = t.revenue.Add(order.TotalAmount)
	}

	results := make([]models.MethodSummary, 0, len(byMethod))
	for method, t := range byMethod {
		results = append(results, models.MethodSummary{
			PaymentMethod: method,
			OrderCount:    t.count,
			TotalRevenue:  t.revenue,
			AvgOrderValue: t.revenue.DivRound(decimal.NewFromInt(int64(t.count)), 2),
		})
	}
	sort.Slice(results, func(a, b int) bool {
		if !results[a].TotalRevenue.Equal(results[b].TotalRevenue) {
			return results[a].TotalRevenue.GreaterThan(results[b].TotalRevenue)
		}
		return results[a].PaymentMethod < results[b].PaymentMethod
	})
	return results
}

func groupCounts(keys []string, counts map[string]int, totals map[string]decimal.Decimal) []models.GroupCount {
	results := []models.GroupCount{}
	for _, key := range keys {
		count, ok := counts[key]
		if !ok {
			continue
		}
		entry := models.GroupCount{Key: key, Count: count}
		if totals != nil {
			total := totals[key]
			entry.Total = &total
		}
		results = append(results, entry)
	}
	return results
}

// ComputeOrderStatistics breaks all orders down by status and payment method.
func ComputeOrderStatistics(orders []models.Order) models.OrderStatistics {
	statusCounts := map[string]int{}
	statusTotals := map[string]decimal.Decimal{}
	methodCounts := map[string]int{}
	methodKeys := []string{}

	for _, order := range orders {
		statusCounts[order.Status]++
		statusTotals[order.Status] = statusTotals[order.Status].Add(order.TotalAmount)

		method := "unspecified"
		if order.PaymentMethod != nil && *order.PaymentMethod != "" {
			method = *order.PaymentMethod
		}
		if _, seen := methodCounts[method]; !seen {
			methodKeys = append(methodKeys, method)
		}
		methodCounts[method]++
	}
	sort.Strings(methodKeys)

	return models.OrderStatistics{
		ByStatus:        groupCounts(models.OrderStatuses, statusCounts, statusTotals),
		ByPaymentMethod: groupCounts(methodKeys, methodCounts, nil),
	}
}

// ComputeComplaintStatistics breaks all complaints down by category,
// priority, status and assignee.
func ComputeComplaintStatistics(complaints []models.Complaint) models.ComplaintStatistics {
	categoryCounts := map[string]int{}
	priorityCounts := map[string]int{}
	statusCounts := map[string]int{}
	assigneeCounts := map[string]int{}
	assigneeKeys := []string{}

	for _, complaint := range complaints {
		categoryCounts[complaint.Category]++
		priorityCounts[complaint.Priority]++
		statusCounts[complaint.Status]++

		assignee := "unassigned"
		if complaint.AssignedTo != nil && *complaint.AssignedTo != "" {
			assignee = *complaint.AssignedTo
		}
		if _, seen := assigneeCounts[assignee]; !seen {
			assigneeKeys = append(assigneeKeys, assignee)
		}
		assigneeCounts[assignee]++
	}
	sort.Strings(assigneeKeys)

	return models.ComplaintStatistics{
		ByCategory: groupCounts(models.ComplaintCategories, categoryCounts, nil),
		ByPriority: groupCounts(models.Priorities, priorityCounts, nil),
		ByStatus:   groupCounts(models.ComplaintStatuses, statusCounts, nil),
		ByAssignee: groupCounts(assigneeKeys, assigneeCounts, nil),
	}
}

// ComputeDashboardSummary rolls up headline metrics across all domains.
func ComputeDashboardSummary(customers []models.Customer, orders []models.Order, complaints []models.Complaint) models.DashboardSummary {
	var summary models.DashboardSummary
	summary.Customers.Total = len(customers)
	summary.Orders.TotalRevenue = decimal.Zero
	summary.Orders.AvgOrderValue = decimal.Zero

	countable := 0
	for _, order := range orders {
		summary.Orders.Total++
		switch order.Status {
		case models.OrderDelivered:
			summary.Orders.Delivered++
		case models.OrderShipped:
			summary.Orders.InTransit++
		case models.OrderPending, models.OrderProcessing:
			summary.Orders.Pending++
		}
		if countsTowardSpend(order) {
			countable++
			summary.Orders.TotalRevenue = summary.Orders.TotalRevenue.Add(order.TotalAmount)
		}
	}
	if countable > 0 {
		summary.Orders.AvgOrderValue = summary.Orders.TotalRevenue.DivRound(decimal.NewFromInt(int64(countable)), 2)
	}

	for _, complaint := range complaints {
		summary.Complaints.Total++
		if isOpenComplaint(complaint) {
			summary.Complaints.Open++
			if complaint.Priority == "high" || complaint.Priority == "critical" {
				summary.Complaints.HighPriority++
			}
		}
	}
	return summary
}

// ComputeActiveShipments pairs each shipped order with the latest logistics
// event recorded for it.
func ComputeActiveShipments(customers []models.Customer, orders []models.Order, events []models.LogisticsEvent) []models.ActiveShipment {
	nameByCustomer := make(map[int64]string, len(customers))
	for _, customer := range customers {
		nameByCustomer[customer.Id] = customer.Name
	}

	latestByOrder := map[int64]*models.LogisticsEvent{}
	dispatchByOrder := map[int64]time.Time{}
	for i := range events {
		event := events[i]
		latest := latestByOrder[event.OrderId]
		if latest == nil || event.LoggedAt.After(latest.LoggedAt) {
			latestByOrder[event.OrderId] = &events[i]
		}
		if event.EventType == models.LogisticsDispatched {
			if first, ok := dispatchByOrder[event.OrderId]; !ok || event.LoggedAt.Before(first) {
				dispatchByOrder[event.OrderId] = event.LoggedAt
			}
		}
	}

	results := []models.ActiveShipment{}
	for _, order := range orders {
		if order.Status != models.OrderShipped {
			continue
		}
		shipment := models.ActiveShipment{
			OrderId:        order.Id,
			CustomerId:     order.CustomerId,
			CustomerName:   nameByCustomer[order.CustomerId],
			Item:           order.Item,
			TrackingNumber: order.TrackingNumber,
		}
		if latest := latestByOrder[order.Id]; latest != nil {
			shipment.LatestEvent = latest
			shipment.Carrier = latest.Carrier
		}
		if dispatched, ok := dispatchByOrder[order.Id]; ok {
			t := dispatched
			shipment.DispatchedAt = &t
		}
		results = append(results, shipment)
	}
	sort.Slice(results, func(a, b int) bool { return results[a].OrderId < results[b].OrderId })
	return results
}

// ComputeCustomerSummary builds the aggregated profile for one customer.
func ComputeCustomerSummary(customer models.Customer, orders []models.Order, complaints []models.Complaint) models.CustomerSummary {
	summary := models.CustomerSummary{
		Customer:   customer,
		TotalSpent: decimal.Zero,
	}
	for _, order := range orders {
		summary.TotalOrders++
		switch order.Status {
		case models.OrderDelivered:
			summary.Delivered++
		case models.OrderReturned:
			summary.Returned++
		case models.OrderCancelled:
			summary.Cancelled++
		}
		if countsTowardSpend(order) {
			summary.TotalSpent = summary.TotalSpent.Add(order.TotalAmount)
		}
	}
	for _, complaint := range complaints {
		summary.TotalComplaints++
		if isOpenComplaint(complaint) {
			summary.OpenComplaints++
		}
		if complaint.Priority == "high" || complaint.Priority == "critical" {
			summary.HighPriority++
		}
	}
	return summary
}
