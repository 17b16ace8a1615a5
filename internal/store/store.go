package store

import (
	"context"
	"errors"
	"time"

	"commerce-context-go/internal/models"
)

// Sentinel errors shared across the query layer. The capability registry
// classifies every failure through errors.Is against these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInconsistent    = errors.New("internal inconsistency")
	ErrUnavailable     = errors.New("store unavailable")
)

// OrderFilter narrows ListOrders. Nil / empty fields mean no restriction.
type OrderFilter struct {
	CustomerId    *int64
	Status        string
	PaymentMethod string
}

// ComplaintFilter narrows ListComplaints. Nil / empty fields mean no restriction.
type ComplaintFilter struct {
	CustomerId *int64
	OrderId    *int64
	Status     string
	Category   string
	Priority   string
	AssignedTo string
}

// PaymentEventFilter narrows GetPaymentEvents. The time window is inclusive.
type PaymentEventFilter struct {
	OrderId *int64
	Gateway string
	Start   *time.Time
	End     *time.Time
}

// LogisticsEventFilter narrows GetLogisticsEvents. The time window is inclusive.
type LogisticsEventFilter struct {
	OrderId        *int64
	TrackingNumber string
	Start          *time.Time
	End            *time.Time
}

// ContextStore defines the read-only contract over the durable store. Every
// method is idempotent and side-effect free; set-returning methods yield an
// empty slice (never nil) when nothing matches, and only by-id lookups fail
// with ErrNotFound.
type ContextStore interface {
	// --- Customers ---
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomerById(ctx context.Context, customerId int64) (*models.Customer, error)
	SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error)

	// --- Orders ---
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetOrderById(ctx context.Context, orderId int64) (*models.Order, error)
	GetOrderByTracking(ctx context.Context, trackingNumber string) (*models.Order, error)
	GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error)

	// --- Complaints ---
	ListComplaints(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error)
	GetComplaintById(ctx context.Context, complaintId int64) (*models.Complaint, error)
	GetComplaintsForOrder(ctx context.Context, orderId int64) ([]models.Complaint, error)
	SearchComplaints(ctx context.Context, keyword string) ([]models.Complaint, error)
	GetHighPriorityOpenComplaints(ctx context.Context) ([]models.Complaint, error)

	// --- Event logs ---
	GetPaymentEvents(ctx context.Context, filter PaymentEventFilter) ([]models.PaymentEvent, error)
	GetLogisticsEvents(ctx context.Context, filter LogisticsEventFilter) ([]models.LogisticsEvent, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
