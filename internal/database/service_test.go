package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"

	"github.com/shopspring/decimal"
)

// setupTestDb opens an in-memory database with the full schema applied.
// A single connection is forced so every query sees the same memory store.
func setupTestDb(t *testing.T) (*Service, func()) {
	t.Helper()

	cfg := models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
	service, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}
	return service, cleanup
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func insertTestCustomer(t *testing.T, s *Service, name, email, city string) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO customers (name, email, city, country, created_at) VALUES (?,?,?,?,?)`,
		name, email, city, "India", time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to insert test customer: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func insertTestOrder(t *testing.T, s *Service, customerId int64, item, status string, total float64, tracking *string, orderedAt time.Time) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO orders (customer_id, item, quantity, unit_price, total_amount, status, payment_method, tracking_number, ordered_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		customerId, item, 1, total, total, status, "upi", tracking, orderedAt)
	if err != nil {
		t.Fatalf("Failed to insert test order: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func insertTestComplaint(t *testing.T, s *Service, customerId int64, orderId *int64, category, priority, status, subject string) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO complaints (customer_id, order_id, category, priority, status, subject, details, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		customerId, orderId, category, priority, status, subject, "details for "+subject,
		time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to insert test complaint: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func insertTestPaymentEvent(t *testing.T, s *Service, orderId int64, eventType, gateway string, amount float64, loggedAt time.Time) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO payment_events (order_id, transaction_id, event_type, amount, currency, gateway, logged_at)
		 VALUES (?,?,?,?,?,?,?)`,
		orderId, "txn_test", eventType, amount, "INR", gateway, loggedAt)
	if err != nil {
		t.Fatalf("Failed to insert test payment event: %v", err)
	}
}

func insertTestLogisticsEvent(t *testing.T, s *Service, orderId int64, tracking *string, carrier, eventType string, loggedAt time.Time) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO logistics_events (order_id, tracking_number, carrier, event_type, logged_at)
		 VALUES (?,?,?,?,?)`,
		orderId, tracking, carrier, eventType, loggedAt)
	if err != nil {
		t.Fatalf("Failed to insert test logistics event: %v", err)
	}
}

func TestNewServiceValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewService(ctx, models.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1, PingTimeout: time.Second}); err == nil {
		t.Error("Expected error for empty database path")
	}
	if _, err := NewService(ctx, models.DatabaseConfig{Path: ":memory:", MaxOpenConns: 0, PingTimeout: time.Second}); err == nil {
		t.Error("Expected error for non-positive max open connections")
	}
	if _, err := NewService(ctx, models.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, PingTimeout: 0}); err == nil {
		t.Error("Expected error for non-positive ping timeout")
	}
}

func TestPing(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed on healthy database: %v", err)
	}
}

func TestCustomerAccessors(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	id1 := insertTestCustomer(t, service, "Ananya Sharma", "ananya@example.com", "Bengaluru")
	insertTestCustomer(t, service, "Rohan Mehta", "rohan@example.com", "Mumbai")

	customers, err := service.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 2 {
		t.Errorf("Expected 2 customers, got %d", len(customers))
	}

	customer, err := service.GetCustomerById(ctx, id1)
	if err != nil {
		t.Fatalf("GetCustomerById failed: %v", err)
	}
	if customer.Email != "ananya@example.com" {
		t.Errorf("Expected email ananya@example.com, got %s", customer.Email)
	}
	if customer.Phone != nil {
		t.Errorf("Expected nil phone, got %v", *customer.Phone)
	}

	if _, err := service.GetCustomerById(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing customer, got %v", err)
	}
	if _, err := service.GetCustomerById(ctx, 0); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero id, got %v", err)
	}
}

func TestSearchCustomers(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	insertTestCustomer(t, service, "Ananya Sharma", "ananya@example.com", "Bengaluru")
	insertTestCustomer(t, service, "Rohan Mehta", "rohan@example.com", "Mumbai")

	matches, err := service.SearchCustomers(ctx, "sharma")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Ananya Sharma" {
		t.Errorf("Expected single match for 'sharma', got %v", matches)
	}

	// Email matches too.
	matches, err = service.SearchCustomers(ctx, "rohan@")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected single match by email fragment, got %d", len(matches))
	}

	matches, err = service.SearchCustomers(ctx, "nobody")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("Expected non-nil empty slice for no matches, got %v", matches)
	}

	if _, err := service.SearchCustomers(ctx, ""); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty keyword, got %v", err)
	}
}

func TestOrderAccessors(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Priya Iyer", "priya@example.com", "Chennai")
	otherId := insertTestCustomer(t, service, "Arjun Nair", "arjun@example.com", "Kochi")

	o1 := insertTestOrder(t, service, custId, "Smartwatch", models.OrderDelivered, 3499,
		strPtr("BD100"), time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC))
	insertTestOrder(t, service, custId, "Headphones", models.OrderShipped, 2999,
		strPtr("DL200"), time.Date(2025, 5, 2, 18, 0, 0, 0, time.UTC))
	insertTestOrder(t, service, otherId, "Mattress", models.OrderReturned, 12499,
		nil, time.Date(2025, 5, 5, 15, 0, 0, 0, time.UTC))

	orders, err := service.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 3 {
		t.Errorf("Expected 3 orders, got %d", len(orders))
	}
	// Newest first.
	if orders[0].Item != "Mattress" {
		t.Errorf("Expected newest order first, got %s", orders[0].Item)
	}

	orders, err = service.ListOrders(ctx, store.OrderFilter{CustomerId: &custId, Status: models.OrderDelivered})
	if err != nil {
		t.Fatalf("ListOrders with filter failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Id != o1 {
		t.Errorf("Expected just the delivered order for customer %d, got %v", custId, orders)
	}

	order, err := service.GetOrderById(ctx, o1)
	if err != nil {
		t.Fatalf("GetOrderById failed: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(3499)) {
		t.Errorf("Expected total 3499, got %s", order.TotalAmount)
	}

	order, err = service.GetOrderByTracking(ctx, "DL200")
	if err != nil {
		t.Fatalf("GetOrderByTracking failed: %v", err)
	}
	if order.Item != "Headphones" {
		t.Errorf("Expected Headphones for DL200, got %s", order.Item)
	}
	if _, err := service.GetOrderByTracking(ctx, "ZZ999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown tracking number, got %v", err)
	}
	if _, err := service.GetOrderByTracking(ctx, ""); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty tracking number, got %v", err)
	}
}

func TestGetOrdersByDateRange(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Sneha Kulkarni", "sneha@example.com", "Pune")
	insertTestOrder(t, service, custId, "Air Fryer", models.OrderDelivered, 8999,
		nil, time.Date(2025, 5, 12, 19, 0, 0, 0, time.UTC))
	insertTestOrder(t, service, custId, "Bowl Set", models.OrderProcessing, 1299,
		nil, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC))

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)
	orders, err := service.GetOrdersByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("GetOrdersByDateRange failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Item != "Air Fryer" {
		t.Errorf("Expected only the May order, got %v", orders)
	}

	if _, err := service.GetOrdersByDateRange(ctx, end, start); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for inverted range, got %v", err)
	}
}

func TestComplaintAccessors(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Vikram Singh", "vikram@example.com", "New Delhi")
	orderId := insertTestOrder(t, service, custId, "Laptop", models.OrderDelivered, 54990,
		strPtr("EK300"), time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC))

	c1 := insertTestComplaint(t, service, custId, &orderId, "delivery", "critical", "open", "Delivered to wrong address")
	insertTestComplaint(t, service, custId, nil, "account", "low", "resolved", "Cannot update address")
	insertTestComplaint(t, service, custId, &orderId, "billing", "high", "investigating", "Charged twice")

	complaints, err := service.ListComplaints(ctx, store.ComplaintFilter{Priority: "critical"})
	if err != nil {
		t.Fatalf("ListComplaints failed: %v", err)
	}
	if len(complaints) != 1 || complaints[0].Id != c1 {
		t.Errorf("Expected the critical complaint, got %v", complaints)
	}

	complaint, err := service.GetComplaintById(ctx, c1)
	if err != nil {
		t.Fatalf("GetComplaintById failed: %v", err)
	}
	if complaint.OrderId == nil || *complaint.OrderId != orderId {
		t.Errorf("Expected complaint linked to order %d", orderId)
	}
	if _, err := service.GetComplaintById(ctx, 777); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing complaint, got %v", err)
	}

	linked, err := service.GetComplaintsForOrder(ctx, orderId)
	if err != nil {
		t.Fatalf("GetComplaintsForOrder failed: %v", err)
	}
	if len(linked) != 2 {
		t.Errorf("Expected 2 complaints for order %d, got %d", orderId, len(linked))
	}

	matches, err := service.SearchComplaints(ctx, "wrong address")
	if err != nil {
		t.Fatalf("SearchComplaints failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected 1 search match, got %d", len(matches))
	}
}

func TestGetHighPriorityOpenComplaints(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Meera Reddy", "meera@example.com", "Hyderabad")

	insertTestComplaint(t, service, custId, nil, "delivery", "high", "open", "Stuck shipment")
	insertTestComplaint(t, service, custId, nil, "billing", "critical", "investigating", "Missing refund")
	insertTestComplaint(t, service, custId, nil, "product", "critical", "resolved", "Defective unit")
	insertTestComplaint(t, service, custId, nil, "service", "low", "open", "Slow replies")

	complaints, err := service.GetHighPriorityOpenComplaints(ctx)
	if err != nil {
		t.Fatalf("GetHighPriorityOpenComplaints failed: %v", err)
	}
	if len(complaints) != 2 {
		t.Fatalf("Expected 2 unresolved high/critical complaints, got %d", len(complaints))
	}
	if complaints[0].Priority != "critical" {
		t.Errorf("Expected critical complaint first, got %s", complaints[0].Priority)
	}
}

func TestPaymentEventAccessor(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Kabir Das", "kabir@example.com", "Kolkata")
	orderId := insertTestOrder(t, service, custId, "Book Set", models.OrderDelivered, 4999,
		nil, time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))

	insertTestPaymentEvent(t, service, orderId, models.PaymentAuthorized, "razorpay", 4999,
		time.Date(2025, 6, 1, 14, 0, 5, 0, time.UTC))
	insertTestPaymentEvent(t, service, orderId, models.PaymentCaptured, "razorpay", 4999,
		time.Date(2025, 6, 1, 14, 0, 9, 0, time.UTC))
	insertTestPaymentEvent(t, service, orderId, models.PaymentFailed, "paytm", 4999,
		time.Date(2025, 6, 1, 13, 59, 0, 0, time.UTC))

	events, err := service.GetPaymentEvents(ctx, store.PaymentEventFilter{OrderId: &orderId})
	if err != nil {
		t.Fatalf("GetPaymentEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 payment events, got %d", len(events))
	}
	// Chronological order.
	if events[0].EventType != models.PaymentFailed {
		t.Errorf("Expected earliest event first, got %s", events[0].EventType)
	}

	events, err = service.GetPaymentEvents(ctx, store.PaymentEventFilter{Gateway: "paytm"})
	if err != nil {
		t.Fatalf("GetPaymentEvents by gateway failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Expected 1 paytm event, got %d", len(events))
	}

	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	events, err = service.GetPaymentEvents(ctx, store.PaymentEventFilter{Start: &start})
	if err != nil {
		t.Fatalf("GetPaymentEvents with window failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("Expected 2 events at or after window start, got %d", len(events))
	}

	end := start.Add(-time.Hour)
	if _, err := service.GetPaymentEvents(ctx, store.PaymentEventFilter{Start: &start, End: &end}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for inverted window, got %v", err)
	}
}

func TestLogisticsEventAccessor(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	custId := insertTestCustomer(t, service, "Ananya Sharma", "ananya@example.com", "Bengaluru")
	orderId := insertTestOrder(t, service, custId, "Smartwatch", models.OrderDelivered, 3499,
		strPtr("BD100"), time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC))

	insertTestLogisticsEvent(t, service, orderId, strPtr("BD100"), "BlueDart", models.LogisticsDispatched,
		time.Date(2025, 4, 10, 18, 0, 0, 0, time.UTC))
	insertTestLogisticsEvent(t, service, orderId, strPtr("BD100"), "BlueDart", models.LogisticsDelivered,
		time.Date(2025, 4, 12, 13, 0, 0, 0, time.UTC))

	events, err := service.GetLogisticsEvents(ctx, store.LogisticsEventFilter{TrackingNumber: "BD100"})
	if err != nil {
		t.Fatalf("GetLogisticsEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 logistics events, got %d", len(events))
	}
	if events[0].EventType != models.LogisticsDispatched {
		t.Errorf("Expected dispatch event first, got %s", events[0].EventType)
	}

	events, err = service.GetLogisticsEvents(ctx, store.LogisticsEventFilter{TrackingNumber: "ZZ999"})
	if err != nil {
		t.Fatalf("GetLogisticsEvents failed: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("Expected non-nil empty slice for unknown tracking number, got %v", events)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	if err := service.seedIfEmpty(ctx, "../../data/seed.json"); err != nil {
		t.Fatalf("seedIfEmpty failed: %v", err)
	}

	customers, err := service.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed after seed: %v", err)
	}
	if len(customers) == 0 {
		t.Fatal("Expected seed file to insert customers")
	}

	// A second run must not duplicate anything.
	if err := service.seedIfEmpty(ctx, "../../data/seed.json"); err != nil {
		t.Fatalf("Second seedIfEmpty failed: %v", err)
	}
	again, err := service.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(again) != len(customers) {
		t.Errorf("Expected seed to be idempotent, got %d then %d customers", len(customers), len(again))
	}
}
