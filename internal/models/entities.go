package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle states.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderReturned   = "returned"
)

// Payment event types.
const (
	PaymentAuthorized      = "authorized"
	PaymentCaptured        = "captured"
	PaymentFailed          = "failed"
	PaymentRefunded        = "refunded"
	PaymentVoided          = "voided"
	PaymentChargeback      = "chargeback"
	PaymentDisputeOpened   = "dispute_opened"
	PaymentDisputeResolved = "dispute_resolved"
)

// Logistics event types.
const (
	LogisticsLabelCreated     = "label_created"
	LogisticsPicked           = "picked"
	LogisticsPacked           = "packed"
	LogisticsDispatched       = "dispatched"
	LogisticsInTransit        = "in_transit"
	LogisticsOutForDelivery   = "out_for_delivery"
	LogisticsDelivered        = "delivered"
	LogisticsDeliveryFailed   = "delivery_failed"
	LogisticsReturnedToSender = "returned_to_sender"
	LogisticsHeldAtFacility   = "held_at_facility"
)

// Enumerated values accepted by filters and operation schemas.
var (
	OrderStatuses       = []string{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned}
	PaymentMethods      = []string{"credit_card", "debit_card", "upi", "net_banking", "wallet", "cod", "emi"}
	ComplaintStatuses   = []string{"open", "investigating", "waiting_customer", "resolved", "closed"}
	ComplaintCategories = []string{"delivery", "billing", "product", "service", "account", "other"}
	Priorities          = []string{"low", "medium", "high", "critical"}
)

// Customer represents a customer account with its shipping address.
type Customer struct {
	Id          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone"`
	AddressLine *string   `db:"address_line" json:"address_line"`
	City        *string   `db:"city" json:"city"`
	State       *string   `db:"state" json:"state"`
	ZipCode     *string   `db:"zip_code" json:"zip_code"`
	Country     string    `db:"country" json:"country"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Order represents a single order placed by a customer.
type Order struct {
	Id              int64           `db:"id" json:"id"`
	CustomerId      int64           `db:"customer_id" json:"customer_id"`
	Item            string          `db:"item" json:"item"`
	Quantity        int64           `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status          string          `db:"status" json:"status"`
	PaymentMethod   *string         `db:"payment_method" json:"payment_method"`
	ShippingAddress *string         `db:"shipping_address" json:"shipping_address"`
	TrackingNumber  *string         `db:"tracking_number" json:"tracking_number"`
	OrderedAt       time.Time       `db:"ordered_at" json:"ordered_at"`
}

// Complaint represents a support complaint, optionally linked to an order.
type Complaint struct {
	Id         int64      `db:"id" json:"id"`
	CustomerId int64      `db:"customer_id" json:"customer_id"`
	OrderId    *int64     `db:"order_id" json:"order_id"`
	Category   string     `db:"category" json:"category"`
	Priority   string     `db:"priority" json:"priority"`
	Status     string     `db:"status" json:"status"`
	Subject    string     `db:"subject" json:"subject"`
	Details    string     `db:"details" json:"details"`
	Resolution *string    `db:"resolution" json:"resolution"`
	AssignedTo *string    `db:"assigned_to" json:"assigned_to"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`
}

// PaymentEvent represents one payment gateway event for an order.
type PaymentEvent struct {
	Id            int64           `db:"id" json:"id"`
	OrderId       int64           `db:"order_id" json:"order_id"`
	TransactionId string          `db:"transaction_id" json:"transaction_id"`
	EventType     string          `db:"event_type" json:"event_type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Gateway       string          `db:"gateway" json:"gateway"`
	ErrorMessage  *string         `db:"error_message" json:"error_message"`
	LoggedAt      time.Time       `db:"logged_at" json:"logged_at"`
}

// LogisticsEvent represents one carrier/shipping event for an order.
type LogisticsEvent struct {
	Id             int64     `db:"id" json:"id"`
	OrderId        int64     `db:"order_id" json:"order_id"`
	TrackingNumber *string   `db:"tracking_number" json:"tracking_number"`
	Carrier        string    `db:"carrier" json:"carrier"`
	EventType      string    `db:"event_type" json:"event_type"`
	Location       *string   `db:"location" json:"location"`
	Notes          *string   `db:"notes" json:"notes"`
	LoggedAt       time.Time `db:"logged_at" json:"logged_at"`
}
