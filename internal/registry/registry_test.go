package registry

import (
	"context"
	"testing"
	"time"

	"commerce-context-go/internal/analytics"
	"commerce-context-go/internal/correlate"
	"commerce-context-go/internal/database"
	"commerce-context-go/internal/models"
)

func setupRegistry(t *testing.T) (*Registry, func()) {
	t.Helper()

	cfg := models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
		SeedFile:     "testdata/fixture.json",
	}
	service, err := database.NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	analyticsCfg := models.AnalyticsConfig{RecurringIssueThreshold: 0.3, TopCustomersLimit: 10}
	registry := New(service,
		correlate.NewEngine(service, analyticsCfg),
		analytics.NewService(service, analyticsCfg))
	return registry, service.Close
}

func TestCatalogMatchesDispatch(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	ops := registry.Operations()
	if len(ops) != 30 {
		t.Errorf("Expected 30 operations, got %d", len(ops))
	}
	// Every listed operation must be dispatchable.
	for _, op := range ops {
		if _, known := registry.operations[op.Name]; !known {
			t.Errorf("Catalog lists %s but dispatch map does not", op.Name)
		}
	}

	if len(registry.Snapshots()) != 13 {
		t.Errorf("Expected 13 snapshots, got %d", len(registry.Snapshots()))
	}
	if len(registry.Templates()) != 8 {
		t.Errorf("Expected 8 templates, got %d", len(registry.Templates()))
	}
}

func TestInvokeSuccess(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	response := registry.Invoke(context.Background(), "get_customer_by_id", map[string]any{"customer_id": float64(1)})
	if response.Error != nil {
		t.Fatalf("Expected success, got %+v", response.Error)
	}
	if response.RequestId == "" {
		t.Error("Expected a request id on the response")
	}
	customer, ok := response.Result.(*models.Customer)
	if !ok {
		t.Fatalf("Expected *models.Customer result, got %T", response.Result)
	}
	if customer.Email != "asha.verma@example.com" {
		t.Errorf("Unexpected customer: %s", customer.Email)
	}
}

func TestInvokeUnknownOperation(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	response := registry.Invoke(context.Background(), "drop_all_tables", map[string]any{})
	if response.Error == nil || response.Error.Kind != KindNotFound {
		t.Errorf("Expected not_found for unknown operation, got %+v", response.Error)
	}
}

func TestInvokeValidation(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	cases := []struct {
		name      string
		operation string
		params    map[string]any
	}{
		{"missing required", "get_customer_by_id", map[string]any{}},
		{"unknown parameter", "get_customer_by_id", map[string]any{"customer_id": float64(1), "verbose": true}},
		{"fractional int", "get_customer_by_id", map[string]any{"customer_id": 1.5}},
		{"below min", "get_customer_by_id", map[string]any{"customer_id": float64(0)}},
		{"wrong type", "search_customers", map[string]any{"keyword": float64(7)}},
		{"empty required string", "search_customers", map[string]any{"keyword": ""}},
		{"bad enum member", "list_orders", map[string]any{"status": "teleported"}},
		{"bad timestamp", "get_orders_by_date_range", map[string]any{"start_date": "yesterday", "end_date": "2025-06-01T00:00:00Z"}},
	}
	for _, tc := range cases {
		response := registry.Invoke(ctx, tc.operation, tc.params)
		if response.Error == nil || response.Error.Kind != KindInvalidArgument {
			t.Errorf("%s: expected invalid_argument, got %+v", tc.name, response.Error)
		}
	}
}

func TestInvokeNotFoundPropagates(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	response := registry.Invoke(context.Background(), "get_order_by_id", map[string]any{"order_id": float64(999)})
	if response.Error == nil || response.Error.Kind != KindNotFound {
		t.Errorf("Expected not_found for missing order, got %+v", response.Error)
	}
}

func TestInvokeEnumFilter(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	response := registry.Invoke(context.Background(), "list_orders", map[string]any{"status": "cancelled"})
	if response.Error != nil {
		t.Fatalf("Expected success, got %+v", response.Error)
	}
	orders, ok := response.Result.([]models.Order)
	if !ok {
		t.Fatalf("Expected []models.Order, got %T", response.Result)
	}
	if len(orders) != 1 || orders[0].Status != models.OrderCancelled {
		t.Errorf("Expected the single cancelled order, got %v", orders)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	// A registry wired without an analytics service panics on dispatch; the
	// envelope must still come back as an internal failure.
	broken := New(registry.store, registry.correlator, nil)
	response := broken.Invoke(context.Background(), "get_dashboard_summary", map[string]any{})
	if response.Error == nil || response.Error.Kind != KindInternal {
		t.Errorf("Expected recovered internal failure, got %+v", response.Error)
	}
}

func TestReadSnapshot(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	response := registry.ReadSnapshot(ctx, "data/customers")
	if response.Error != nil {
		t.Fatalf("Expected success, got %+v", response.Error)
	}
	customers, ok := response.Result.([]models.Customer)
	if !ok {
		t.Fatalf("Expected []models.Customer, got %T", response.Result)
	}
	if len(customers) != 2 {
		t.Errorf("Expected 2 customers, got %d", len(customers))
	}

	response = registry.ReadSnapshot(ctx, "stats/nonsense")
	if response.Error == nil || response.Error.Kind != KindNotFound {
		t.Errorf("Expected not_found for unknown snapshot, got %+v", response.Error)
	}
}

func TestEverySnapshotProduces(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	for _, snapshot := range registry.Snapshots() {
		response := registry.ReadSnapshot(ctx, snapshot.Id)
		if response.Error != nil {
			t.Errorf("Snapshot %s failed: %+v", snapshot.Id, response.Error)
		}
	}
}

func TestRunTemplate(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()

	result := registry.RunTemplate(context.Background(), "customer_360", map[string]any{"customer_id": float64(1)})
	if result.Error != nil {
		t.Fatalf("Expected success, got %+v", result.Error)
	}

	want := []string{"customer", "summary", "lifetime_value", "issues"}
	if len(result.Steps) != len(want) {
		t.Fatalf("Expected %d steps, got %d", len(want), len(result.Steps))
	}
	for i, key := range want {
		if result.Steps[i] != key {
			t.Errorf("Step %d: expected %s, got %s", i, key, result.Steps[i])
		}
		if _, present := result.Sections[key]; !present {
			t.Errorf("Missing section %s", key)
		}
	}
}

func TestRunTemplateFailures(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	result := registry.RunTemplate(ctx, "mystery_report", map[string]any{})
	if result.Error == nil || result.Error.Kind != KindNotFound {
		t.Errorf("Expected not_found for unknown template, got %+v", result.Error)
	}

	result = registry.RunTemplate(ctx, "customer_360", map[string]any{})
	if result.Error == nil || result.Error.Kind != KindInvalidArgument {
		t.Errorf("Expected invalid_argument for missing params, got %+v", result.Error)
	}

	// A failing step carries its own kind up.
	result = registry.RunTemplate(ctx, "customer_360", map[string]any{"customer_id": float64(999)})
	if result.Error == nil || result.Error.Kind != KindNotFound {
		t.Errorf("Expected not_found from failing step, got %+v", result.Error)
	}
}

func TestEveryParameterlessTemplateRuns(t *testing.T) {
	registry, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	for _, template := range registry.Templates() {
		if len(template.Params) > 0 {
			continue
		}
		result := registry.RunTemplate(ctx, template.Name, map[string]any{})
		if result.Error != nil {
			t.Errorf("Template %s failed: %+v", template.Name, result.Error)
		}
		if len(result.Sections) != len(template.Steps) {
			t.Errorf("Template %s: expected %d sections, got %d",
				template.Name, len(template.Steps), len(result.Sections))
		}
	}
}
