package analytics

import (
	"testing"
	"time"

	"commerce-context-go/internal/models"

	"github.com/shopspring/decimal"
)

func ts(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func makeOrder(id, customerId int64, status string, total float64, orderedAt time.Time) models.Order {
	amount := decimal.NewFromFloat(total)
	return models.Order{
		Id:          id,
		CustomerId:  customerId,
		Item:        "item",
		Quantity:    1,
		UnitPrice:   amount,
		TotalAmount: amount,
		Status:      status,
		OrderedAt:   orderedAt,
	}
}

func makeLogistics(orderId int64, carrier, eventType string, loggedAt time.Time) models.LogisticsEvent {
	return models.LogisticsEvent{
		OrderId:   orderId,
		Carrier:   carrier,
		EventType: eventType,
		LoggedAt:  loggedAt,
	}
}

func TestDeliveryBreakdownDelivered(t *testing.T) {
	order := makeOrder(1, 1, models.OrderDelivered, 1000, ts(1, 8))
	events := []models.LogisticsEvent{
		makeLogistics(1, "BlueDart", models.LogisticsDispatched, ts(1, 20)),
		makeLogistics(1, "BlueDart", models.LogisticsDelivered, ts(3, 8)),
	}

	result := ComputeDeliveryBreakdown(order, events)
	if result.Status != models.DeliveryStatusDelivered {
		t.Errorf("Expected delivered status, got %s", result.Status)
	}
	if result.ProcessingHours == nil || *result.ProcessingHours != 12 {
		t.Errorf("Expected 12 processing hours, got %v", result.ProcessingHours)
	}
	if result.ShippingHours == nil || *result.ShippingHours != 36 {
		t.Errorf("Expected 36 shipping hours, got %v", result.ShippingHours)
	}
	if result.TotalHours == nil || *result.TotalHours != 48 {
		t.Errorf("Expected 48 total hours, got %v", result.TotalHours)
	}
}

func TestDeliveryBreakdownInTransit(t *testing.T) {
	order := makeOrder(1, 1, models.OrderShipped, 1000, ts(1, 8))
	events := []models.LogisticsEvent{
		makeLogistics(1, "BlueDart", models.LogisticsDispatched, ts(1, 20)),
		makeLogistics(1, "BlueDart", models.LogisticsInTransit, ts(2, 6)),
	}

	result := ComputeDeliveryBreakdown(order, events)
	if result.Status != models.DeliveryStatusInTransit {
		t.Errorf("Expected in_transit status, got %s", result.Status)
	}
	if result.ProcessingHours == nil {
		t.Error("Expected processing hours once dispatched")
	}
	if result.ShippingHours != nil || result.TotalHours != nil {
		t.Error("Shipping and total hours must stay nil until delivery")
	}
}

func TestDeliveryBreakdownFailed(t *testing.T) {
	order := makeOrder(1, 1, models.OrderShipped, 1000, ts(1, 8))
	events := []models.LogisticsEvent{
		makeLogistics(1, "Delhivery", models.LogisticsDispatched, ts(1, 20)),
		makeLogistics(1, "Delhivery", models.LogisticsDeliveryFailed, ts(2, 10)),
	}

	result := ComputeDeliveryBreakdown(order, events)
	if result.Status != models.DeliveryStatusFailed {
		t.Errorf("Expected failed status, got %s", result.Status)
	}
	if result.TotalHours != nil {
		t.Error("Total hours must not be fabricated for a failed delivery")
	}
}

func TestDeliveryBreakdownPending(t *testing.T) {
	order := makeOrder(1, 1, models.OrderPending, 1000, ts(1, 8))

	result := ComputeDeliveryBreakdown(order, []models.LogisticsEvent{})
	if result.Status != models.DeliveryStatusPending {
		t.Errorf("Expected pending status, got %s", result.Status)
	}
	if result.ProcessingHours != nil || result.ShippingHours != nil || result.TotalHours != nil {
		t.Error("No duration may be reported before dispatch")
	}
}

func TestComputeFailureRates(t *testing.T) {
	events := []models.PaymentEvent{
		{Gateway: "razorpay", EventType: models.PaymentCaptured},
		{Gateway: "razorpay", EventType: models.PaymentCaptured},
		{Gateway: "razorpay", EventType: models.PaymentCaptured},
		{Gateway: "razorpay", EventType: models.PaymentFailed},
		{Gateway: "paytm", EventType: models.PaymentAuthorized},
		{Gateway: "paytm", EventType: models.PaymentRefunded},
	}

	report := ComputeFailureRates(events, nil, nil)
	if len(report.ByGateway) != 2 {
		t.Fatalf("Expected 2 gateways, got %d", len(report.ByGateway))
	}

	// Sorted by name: paytm first.
	paytm := report.ByGateway[0]
	if paytm.Gateway != "paytm" || !paytm.InsufficientData || paytm.FailureRate != nil {
		t.Errorf("Expected insufficient data for paytm, got %+v", paytm)
	}

	razorpay := report.ByGateway[1]
	if razorpay.FailureRate == nil || *razorpay.FailureRate != 0.25 {
		t.Errorf("Expected razorpay failure rate 0.25, got %v", razorpay.FailureRate)
	}
	if report.Overall.FailureRate == nil || *report.Overall.FailureRate != 0.25 {
		t.Errorf("Expected overall failure rate 0.25, got %v", report.Overall.FailureRate)
	}
}

func TestComputeFailureRatesEmpty(t *testing.T) {
	report := ComputeFailureRates([]models.PaymentEvent{}, nil, nil)
	if !report.Overall.InsufficientData {
		t.Error("Expected insufficient data with no events")
	}
	if report.ByGateway == nil || len(report.ByGateway) != 0 {
		t.Errorf("Expected non-nil empty gateway list, got %v", report.ByGateway)
	}
}

func TestComputeLifetimeValue(t *testing.T) {
	customer := models.Customer{Id: 1, Name: "Asha", Email: "asha@example.com", CreatedAt: ts(1, 0)}
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 1000, ts(2, 10)),
		makeOrder(2, 1, models.OrderShipped, 500, ts(5, 10)),
		makeOrder(3, 1, models.OrderCancelled, 9999, ts(6, 10)),
		makeOrder(4, 1, models.OrderReturned, 9999, ts(7, 10)),
	}
	complaints := []models.Complaint{
		{Status: "open"},
		{Status: "resolved"},
	}

	ltv := ComputeLifetimeValue(customer, orders, complaints)
	if ltv.OrderCount != 2 || ltv.ExcludedOrders != 2 {
		t.Errorf("Expected 2 counted / 2 excluded orders, got %d / %d", ltv.OrderCount, ltv.ExcludedOrders)
	}
	if !ltv.TotalSpent.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected total spent 1500, got %s", ltv.TotalSpent)
	}
	if !ltv.AvgOrderValue.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected average 750, got %s", ltv.AvgOrderValue)
	}
	if ltv.FirstOrderAt == nil || !ltv.FirstOrderAt.Equal(ts(2, 10)) {
		t.Errorf("Expected first order at %v, got %v", ts(2, 10), ltv.FirstOrderAt)
	}
	if ltv.LastOrderAt == nil || !ltv.LastOrderAt.Equal(ts(7, 10)) {
		t.Errorf("Expected last order at %v, got %v", ts(7, 10), ltv.LastOrderAt)
	}
	if ltv.ComplaintCount != 2 || ltv.OpenComplaints != 1 {
		t.Errorf("Expected 2 complaints / 1 open, got %d / %d", ltv.ComplaintCount, ltv.OpenComplaints)
	}
}

func TestComputeLifetimeValueNoOrders(t *testing.T) {
	customer := models.Customer{Id: 1, Name: "Asha", Email: "asha@example.com", CreatedAt: ts(1, 0)}

	ltv := ComputeLifetimeValue(customer, []models.Order{}, []models.Complaint{})
	if !ltv.TotalSpent.IsZero() || !ltv.AvgOrderValue.IsZero() {
		t.Errorf("Expected zero totals, got %s / %s", ltv.TotalSpent, ltv.AvgOrderValue)
	}
	if ltv.FirstOrderAt != nil || ltv.LastOrderAt != nil {
		t.Error("Expected nil first/last order times with no orders")
	}
}

func TestComputeCarrierPerformance(t *testing.T) {
	events := []models.LogisticsEvent{
		makeLogistics(1, "BlueDart", models.LogisticsLabelCreated, ts(1, 8)),
		makeLogistics(1, "BlueDart", models.LogisticsDispatched, ts(1, 12)),
		makeLogistics(1, "BlueDart", models.LogisticsDelivered, ts(2, 8)),
		makeLogistics(2, "BlueDart", models.LogisticsDispatched, ts(3, 8)),
		makeLogistics(3, "Ekart", models.LogisticsDispatched, ts(4, 8)),
	}

	results := ComputeCarrierPerformance(events)
	if len(results) != 2 {
		t.Fatalf("Expected 2 carriers, got %d", len(results))
	}

	bluedart := results[0]
	if bluedart.Carrier != "BlueDart" || bluedart.TotalEvents != 4 || bluedart.OrdersHandled != 2 {
		t.Errorf("Unexpected BlueDart aggregate: %+v", bluedart)
	}
	if bluedart.DeliveredOrders != 1 || bluedart.AvgDeliveryHours == nil || *bluedart.AvgDeliveryHours != 24 {
		t.Errorf("Expected 1 delivered order at 24h, got %+v", bluedart)
	}

	ekart := results[1]
	if ekart.AvgDeliveryHours != nil {
		t.Error("Expected nil average with no delivered orders")
	}
}

func TestComputeResolutionTimeStats(t *testing.T) {
	complaints := []models.Complaint{
		{Priority: "high", CreatedAt: ts(1, 8), ResolvedAt: timePtr(ts(1, 20))},
		{Priority: "low", CreatedAt: ts(2, 8), ResolvedAt: timePtr(ts(4, 8))},
		{Priority: "critical", CreatedAt: ts(3, 8), ResolvedAt: nil},
	}

	stats := ComputeResolutionTimeStats(complaints)
	if stats.ResolvedCount != 2 {
		t.Fatalf("Expected 2 resolved complaints, got %d", stats.ResolvedCount)
	}
	if stats.MinHours == nil || *stats.MinHours != 12 {
		t.Errorf("Expected min 12h, got %v", stats.MinHours)
	}
	if stats.MaxHours == nil || *stats.MaxHours != 48 {
		t.Errorf("Expected max 48h, got %v", stats.MaxHours)
	}
	if stats.AvgHours == nil || *stats.AvgHours != 30 {
		t.Errorf("Expected avg 30h, got %v", stats.AvgHours)
	}
	if len(stats.ByPriority) != 2 {
		t.Fatalf("Expected 2 priority buckets, got %d", len(stats.ByPriority))
	}
	// Escalation order: low before high.
	if stats.ByPriority[0].Priority != "low" || stats.ByPriority[1].Priority != "high" {
		t.Errorf("Unexpected priority ordering: %+v", stats.ByPriority)
	}
}

func TestComputeResolutionTimeStatsEmpty(t *testing.T) {
	stats := ComputeResolutionTimeStats([]models.Complaint{})
	if stats.ResolvedCount != 0 || stats.AvgHours != nil || stats.MinHours != nil || stats.MaxHours != nil {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
}

func TestComputeRevenueByCity(t *testing.T) {
	customers := []models.Customer{
		{Id: 1, City: strPtr("Bengaluru")},
		{Id: 2, City: strPtr("Mumbai")},
		{Id: 3, City: nil},
	}
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 3000, ts(1, 8)),
		makeOrder(2, 1, models.OrderDelivered, 1000, ts(2, 8)),
		makeOrder(3, 2, models.OrderShipped, 500, ts(3, 8)),
		makeOrder(4, 2, models.OrderCancelled, 9000, ts(4, 8)),
		makeOrder(5, 3, models.OrderDelivered, 200, ts(5, 8)),
	}

	results := ComputeRevenueByCity(customers, orders)
	if len(results) != 3 {
		t.Fatalf("Expected 3 cities, got %d", len(results))
	}
	if results[0].City != "Bengaluru" || !results[0].TotalRevenue.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("Expected Bengaluru first with 4000, got %+v", results[0])
	}
	if !results[0].AvgOrderValue.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected Bengaluru average 2000, got %s", results[0].AvgOrderValue)
	}

	found := false
	for _, r := range results {
		if r.City == "unknown" {
			found = true
		}
	}
	if !found {
		t.Error("Expected an unknown bucket for customers without a city")
	}
}

func TestComputeTopCustomers(t *testing.T) {
	customers := []models.Customer{
		{Id: 1, Name: "Asha"},
		{Id: 2, Name: "Rohan"},
		{Id: 3, Name: "Priya"},
	}
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 1000, ts(1, 8)),
		makeOrder(2, 2, models.OrderDelivered, 5000, ts(2, 8)),
		makeOrder(3, 2, models.OrderCancelled, 9000, ts(3, 8)),
	}

	ranked := ComputeTopCustomers(customers, orders, 10)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 ranked customers (no zero-spend entries), got %d", len(ranked))
	}
	if ranked[0].CustomerId != 2 || !ranked[0].TotalSpent.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected Rohan first with 5000, got %+v", ranked[0])
	}

	limited := ComputeTopCustomers(customers, orders, 1)
	if len(limited) != 1 {
		t.Errorf("Expected limit to cap results, got %d", len(limited))
	}
}

func TestComputeOrderStatistics(t *testing.T) {
	upi := "upi"
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 1000, ts(1, 8)),
		makeOrder(2, 1, models.OrderDelivered, 2000, ts(2, 8)),
		makeOrder(3, 2, models.OrderPending, 500, ts(3, 8)),
	}
	orders[0].PaymentMethod = &upi

	stats := ComputeOrderStatistics(orders)
	if len(stats.ByStatus) != 2 {
		t.Fatalf("Expected 2 status buckets, got %d", len(stats.ByStatus))
	}
	// Declared enum order: pending before delivered.
	if stats.ByStatus[0].Key != models.OrderPending || stats.ByStatus[1].Key != models.OrderDelivered {
		t.Errorf("Unexpected status ordering: %+v", stats.ByStatus)
	}
	if stats.ByStatus[1].Count != 2 || stats.ByStatus[1].Total == nil ||
		!stats.ByStatus[1].Total.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Unexpected delivered bucket: %+v", stats.ByStatus[1])
	}

	if len(stats.ByPaymentMethod) != 2 {
		t.Fatalf("Expected upi and unspecified buckets, got %+v", stats.ByPaymentMethod)
	}
}

func TestComputeComplaintStatistics(t *testing.T) {
	agent := "support.kavita"
	complaints := []models.Complaint{
		{Category: "delivery", Priority: "high", Status: "open", AssignedTo: &agent},
		{Category: "delivery", Priority: "low", Status: "resolved", AssignedTo: nil},
		{Category: "billing", Priority: "high", Status: "open", AssignedTo: &agent},
	}

	stats := ComputeComplaintStatistics(complaints)
	if len(stats.ByCategory) != 2 {
		t.Errorf("Expected 2 category buckets, got %d", len(stats.ByCategory))
	}
	// Declared enum order: delivery before billing.
	if stats.ByCategory[0].Key != "delivery" || stats.ByCategory[0].Count != 2 {
		t.Errorf("Unexpected category bucket: %+v", stats.ByCategory[0])
	}

	foundUnassigned := false
	for _, bucket := range stats.ByAssignee {
		if bucket.Key == "unassigned" && bucket.Count == 1 {
			foundUnassigned = true
		}
	}
	if !foundUnassigned {
		t.Errorf("Expected an unassigned bucket, got %+v", stats.ByAssignee)
	}
}

func TestComputeDashboardSummary(t *testing.T) {
	customers := []models.Customer{{Id: 1}, {Id: 2}}
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 1000, ts(1, 8)),
		makeOrder(2, 1, models.OrderShipped, 500, ts(2, 8)),
		makeOrder(3, 2, models.OrderPending, 300, ts(3, 8)),
		makeOrder(4, 2, models.OrderCancelled, 900, ts(4, 8)),
	}
	complaints := []models.Complaint{
		{Status: "open", Priority: "critical"},
		{Status: "investigating", Priority: "low"},
		{Status: "resolved", Priority: "high"},
	}

	summary := ComputeDashboardSummary(customers, orders, complaints)
	if summary.Customers.Total != 2 {
		t.Errorf("Expected 2 customers, got %d", summary.Customers.Total)
	}
	if summary.Orders.Total != 4 || summary.Orders.Delivered != 1 ||
		summary.Orders.InTransit != 1 || summary.Orders.Pending != 1 {
		t.Errorf("Unexpected order pipeline: %+v", summary.Orders)
	}
	if !summary.Orders.TotalRevenue.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("Expected revenue 1800 excluding cancelled, got %s", summary.Orders.TotalRevenue)
	}
	if summary.Complaints.Total != 3 || summary.Complaints.Open != 2 || summary.Complaints.HighPriority != 1 {
		t.Errorf("Unexpected complaint health: %+v", summary.Complaints)
	}
}

func TestComputeActiveShipments(t *testing.T) {
	customers := []models.Customer{{Id: 1, Name: "Asha"}}
	shipped := makeOrder(1, 1, models.OrderShipped, 1000, ts(1, 8))
	shipped.TrackingNumber = strPtr("T1")
	orders := []models.Order{
		shipped,
		makeOrder(2, 1, models.OrderDelivered, 500, ts(2, 8)),
	}
	events := []models.LogisticsEvent{
		makeLogistics(1, "BlueDart", models.LogisticsDispatched, ts(1, 12)),
		makeLogistics(1, "BlueDart", models.LogisticsInTransit, ts(2, 6)),
		makeLogistics(2, "Ekart", models.LogisticsDelivered, ts(3, 8)),
	}

	shipments := ComputeActiveShipments(customers, orders, events)
	if len(shipments) != 1 {
		t.Fatalf("Expected 1 active shipment, got %d", len(shipments))
	}
	s := shipments[0]
	if s.OrderId != 1 || s.CustomerName != "Asha" || s.Carrier != "BlueDart" {
		t.Errorf("Unexpected shipment: %+v", s)
	}
	if s.LatestEvent == nil || s.LatestEvent.EventType != models.LogisticsInTransit {
		t.Errorf("Expected latest event in_transit, got %+v", s.LatestEvent)
	}
	if s.DispatchedAt == nil || !s.DispatchedAt.Equal(ts(1, 12)) {
		t.Errorf("Expected dispatch time recorded, got %v", s.DispatchedAt)
	}
}

func TestComputeCustomerSummary(t *testing.T) {
	customer := models.Customer{Id: 1, Name: "Asha"}
	orders := []models.Order{
		makeOrder(1, 1, models.OrderDelivered, 1000, ts(1, 8)),
		makeOrder(2, 1, models.OrderReturned, 500, ts(2, 8)),
		makeOrder(3, 1, models.OrderCancelled, 300, ts(3, 8)),
	}
	complaints := []models.Complaint{
		{Status: "open", Priority: "high"},
		{Status: "closed", Priority: "low"},
	}

	summary := ComputeCustomerSummary(customer, orders, complaints)
	if summary.TotalOrders != 3 || summary.Delivered != 1 || summary.Returned != 1 || summary.Cancelled != 1 {
		t.Errorf("Unexpected order counts: %+v", summary)
	}
	if !summary.TotalSpent.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected spend 1000, got %s", summary.TotalSpent)
	}
	if summary.TotalComplaints != 2 || summary.OpenComplaints != 1 || summary.HighPriority != 1 {
		t.Errorf("Unexpected complaint counts: %+v", summary)
	}
}
