package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timeline event source domains, in tie-break priority order.
const (
	DomainPayment   = "payment"
	DomainLogistics = "logistics"
	DomainComplaint = "complaint"
)

// TimelineEvent is one timestamped event in a merged fulfillment timeline.
// Exactly one of Payment, Logistics, Complaint is set, matching Domain.
type TimelineEvent struct {
	Domain    string          `json:"domain"`
	Timestamp time.Time       `json:"timestamp"`
	Payment   *PaymentEvent   `json:"payment,omitempty"`
	Logistics *LogisticsEvent `json:"logistics,omitempty"`
	Complaint *Complaint      `json:"complaint,omitempty"`
}

// FulfillmentTimeline is the full cross-domain history of a single order.
// Per-domain sections are always present; an order with no events in a
// domain carries an empty (not null) list there.
type FulfillmentTimeline struct {
	Order           Order            `json:"order"`
	PaymentEvents   []PaymentEvent   `json:"payment_events"`
	LogisticsEvents []LogisticsEvent `json:"logistics_events"`
	Complaints      []Complaint      `json:"complaints"`
	Merged          []TimelineEvent  `json:"merged_timeline"`
	Inconsistencies []string         `json:"inconsistencies"`
}

// ComplaintContext bundles a complaint with its linked order, customer and
// event history. OrderLinked distinguishes "no linked order" from "linked
// order with no events": when false, Order is nil and the event sections
// are empty but still present.
type ComplaintContext struct {
	Complaint       Complaint        `json:"complaint"`
	Customer        Customer         `json:"customer"`
	OrderLinked     bool             `json:"order_linked"`
	Order           *Order           `json:"order"`
	PaymentEvents   []PaymentEvent   `json:"payment_events"`
	LogisticsEvents []LogisticsEvent `json:"logistics_events"`
}

// OrderComplaints pairs one order with every complaint linked to it.
type OrderComplaints struct {
	Order      Order       `json:"order"`
	Complaints []Complaint `json:"complaints"`
}

// IssueCorrelation joins a customer's orders and complaints. Orders without
// complaints are still listed so complaint-free history is visible.
type IssueCorrelation struct {
	Customer             Customer          `json:"customer"`
	Orders               []OrderComplaints `json:"orders"`
	UnlinkedComplaints   []Complaint       `json:"unlinked_complaints"`
	ComplaintsByCategory map[string]int    `json:"complaints_by_category"`
	OrderCount           int               `json:"order_count"`
	ComplaintCount       int               `json:"complaint_count"`
	ComplaintRatio       float64           `json:"complaint_ratio"`
	RecurringIssues      bool              `json:"recurring_issues"`
	Threshold            float64           `json:"threshold"`
	Inconsistencies      []string          `json:"inconsistencies"`
}

// Delivery status flags for DeliveryBreakdown.
const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusFailed    = "failed"
	DeliveryStatusPending   = "pending"
)

// DeliveryBreakdown reports per-phase delivery durations for one order.
// Durations are nil when the bounding events have not happened; they are
// never fabricated.
type DeliveryBreakdown struct {
	OrderId         int64      `json:"order_id"`
	Item            string     `json:"item"`
	TrackingNumber  *string    `json:"tracking_number"`
	OrderedAt       time.Time  `json:"ordered_at"`
	DispatchedAt    *time.Time `json:"dispatched_at"`
	DeliveredAt     *time.Time `json:"delivered_at"`
	ProcessingHours *float64   `json:"processing_hours"`
	ShippingHours   *float64   `json:"shipping_hours"`
	TotalHours      *float64   `json:"total_hours"`
	Status          string     `json:"status"`
}

// GatewayFailureRate is the failed/(failed+captured) ratio for one gateway.
// InsufficientData is set when the denominator is zero.
type GatewayFailureRate struct {
	Gateway          string   `json:"gateway"`
	CapturedCount    int      `json:"captured_count"`
	FailedCount      int      `json:"failed_count"`
	FailureRate      *float64 `json:"failure_rate"`
	InsufficientData bool     `json:"insufficient_data"`
}

// FailureRateReport groups gateway failure rates with an overall ratio.
type FailureRateReport struct {
	Overall    GatewayFailureRate   `json:"overall"`
	ByGateway  []GatewayFailureRate `json:"by_gateway"`
	WindowFrom *time.Time           `json:"window_from"`
	WindowTo   *time.Time           `json:"window_to"`
}

// LifetimeValue summarises a customer's order and complaint history.
// Cancelled and returned orders are excluded from spend totals.
type LifetimeValue struct {
	CustomerId      int64           `json:"customer_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	MemberSince     time.Time       `json:"member_since"`
	OrderCount      int             `json:"order_count"`
	ExcludedOrders  int             `json:"excluded_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	FirstOrderAt    *time.Time      `json:"first_order_at"`
	LastOrderAt     *time.Time      `json:"last_order_at"`
	ComplaintCount  int             `json:"complaint_count"`
	OpenComplaints  int             `json:"open_complaints"`
}

// CarrierPerformance aggregates delivery metrics for one carrier.
type CarrierPerformance struct {
	Carrier          string   `json:"carrier"`
	TotalEvents      int      `json:"total_events"`
	OrdersHandled    int      `json:"orders_handled"`
	DeliveredOrders  int      `json:"delivered_orders"`
	AvgDeliveryHours *float64 `json:"avg_delivery_hours"`
}

// ResolutionTimeStats summarises complaint resolution durations in hours.
type ResolutionTimeStats struct {
	ResolvedCount int                  `json:"resolved_count"`
	AvgHours      *float64             `json:"avg_hours"`
	MinHours      *float64             `json:"min_hours"`
	MaxHours      *float64             `json:"max_hours"`
	ByPriority    []PriorityResolution `json:"by_priority"`
}

// PriorityResolution is the resolution-time aggregate for one priority.
type PriorityResolution struct {
	Priority string   `json:"priority"`
	Count    int      `json:"count"`
	AvgHours *float64 `json:"avg_hours"`
}

// CityRevenue aggregates order revenue for customers in one city.
type CityRevenue struct {
	City          string          `json:"city"`
	OrderCount    int             `json:"order_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// TopCustomer ranks one customer by total spend.
type TopCustomer struct {
	CustomerId    int64           `json:"customer_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	City          *string         `json:"city"`
	OrderCount    int             `json:"order_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	LastOrderAt   *time.Time      `json:"last_order_at"`
}

// MethodSummary aggregates orders for one payment method.
type MethodSummary struct {
	PaymentMethod string          `json:"payment_method"`
	OrderCount    int             `json:"order_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// GroupCount is one bucket of a grouped count, optionally with a revenue sum.
type GroupCount struct {
	Key   string           `json:"key"`
	Count int              `json:"count"`
	Total *decimal.Decimal `json:"total,omitempty"`
}

// OrderStatistics is the system-wide order breakdown.
type OrderStatistics struct {
	ByStatus        []GroupCount `json:"by_status"`
	ByPaymentMethod []GroupCount `json:"by_payment_method"`
}

// ComplaintStatistics is the system-wide complaint breakdown.
type ComplaintStatistics struct {
	ByCategory []GroupCount `json:"by_category"`
	ByPriority []GroupCount `json:"by_priority"`
	ByStatus   []GroupCount `json:"by_status"`
	ByAssignee []GroupCount `json:"by_assignee"`
}

// ActiveShipment is a shipped order with its latest logistics position.
type ActiveShipment struct {
	OrderId        int64           `json:"order_id"`
	CustomerId     int64           `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Item           string          `json:"item"`
	TrackingNumber *string         `json:"tracking_number"`
	Carrier        string          `json:"carrier"`
	LatestEvent    *LogisticsEvent `json:"latest_event"`
	DispatchedAt   *time.Time      `json:"dispatched_at"`
}

// DashboardSummary carries headline metrics across all domains.
type DashboardSummary struct {
	Customers struct {
		Total int `json:"total"`
	} `json:"customers"`
	Orders struct {
		Total         int             `json:"total"`
		TotalRevenue  decimal.Decimal `json:"total_revenue"`
		AvgOrderValue decimal.Decimal `json:"avg_order_value"`
		Delivered     int             `json:"delivered"`
		InTransit     int             `json:"in_transit"`
		Pending       int             `json:"pending"`
	} `json:"orders"`
	Complaints struct {
		Total        int `json:"total"`
		Open         int `json:"open"`
		HighPriority int `json:"high_priority"`
	} `json:"complaints"`
}

// CustomerSummary is the aggregated profile for one customer.
type CustomerSummary struct {
	Customer        Customer        `json:"customer"`
	TotalOrders     int             `json:"total_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	Delivered       int             `json:"delivered"`
	Returned        int             `json:"returned"`
	Cancelled       int             `json:"cancelled"`
	TotalComplaints int             `json:"total_complaints"`
	OpenComplaints  int             `json:"open_complaints"`
	HighPriority    int             `json:"high_priority"`
}
