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

	"commerce-context-go/internal/models"
	"commerce-context-go/internal/store"
)

func minOne() *int64 {
	one := int64(1)
	return &one
}

func idField(description string) Field {
	return Field{Type: FieldInt, Description: description, Required: true, Min: minOne()}
}

func optionalIdField(description string) Field {
	return Field{Type: FieldInt, Description: description, Min: minOne()}
}

func timestampField(description string, required bool) Field {
	return Field{Type: FieldTimestamp, Description: description, Required: required}
}

func enumField(description string, values []string) Field {
	return Field{Type: FieldEnum, Description: description, Enum: values}
}

func (r *Registry) buildOperations() map[string]Operation {
	ops := []Operation{
		// --- Customers ---
		{
			Name:        "list_customers",
			Description: "List every customer account",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.ListCustomers(ctx)
			},
		},
		{
			Name:        "get_customer_by_id",
			Description: "Fetch one customer by id",
			Params:      Schema{"customer_id": idField("Customer id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetCustomerById(ctx, args.Int64("customer_id"))
			},
		},
		{
			Name:        "search_customers",
			Description: "Search customers by name or email substring",
			Params:      Schema{"keyword": {Type: FieldString, Description: "Search keyword", Required: true}},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.SearchCustomers(ctx, args.String("keyword"))
			},
		},
		{
			Name:        "get_customer_summary",
			Description: "Aggregated order and complaint profile for one customer",
			Params:      Schema{"customer_id": idField("Customer id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.CustomerSummary(ctx, args.Int64("customer_id"))
			},
		},

		// --- Orders ---
		{
			Name:        "list_orders",
			Description: "List orders, optionally filtered by customer, status or payment method",
			Params: Schema{
				"customer_id":    optionalIdField("Restrict to one customer"),
				"status":         enumField("Order status filter", models.OrderStatuses),
				"payment_method": enumField("Payment method filter", models.PaymentMethods),
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.ListOrders(ctx, store.OrderFilter{
					CustomerId:    args.OptionalInt64("customer_id"),
					Status:        args.String("status"),
					PaymentMethod: args.String("payment_method"),
				})
			},
		},
		{
			Name:        "get_order_by_id",
			Description: "Fetch one order by id",
			Params:      Schema{"order_id": idField("Order id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetOrderById(ctx, args.Int64("order_id"))
			},
		},
		{
			Name:        "get_order_by_tracking",
			Description: "Fetch the order carrying a tracking number",
			Params:      Schema{"tracking_number": {Type: FieldString, Description: "Carrier tracking number", Required: true}},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetOrderByTracking(ctx, args.String("tracking_number"))
			},
		},
		{
			Name:        "get_orders_by_date_range",
			Description: "List orders placed inside an inclusive time window",
			Params: Schema{
				"start_date": timestampField("Window start (RFC 3339)", true),
				"end_date":   timestampField("Window end (RFC 3339)", true),
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				start := args.OptionalTime("start_date")
				end := args.OptionalTime("end_date")
				return r.store.GetOrdersByDateRange(ctx, *start, *end)
			},
		},
		{
			Name:        "get_order_statistics",
			Description: "System-wide order breakdown by status and payment method",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.OrderStatistics(ctx)
			},
		},

		// --- Complaints ---
		{
			Name:        "list_complaints",
			Description: "List complaints, optionally filtered",
			Params: Schema{
				"customer_id": optionalIdField("Restrict to one customer"),
				"order_id":    optionalIdField("Restrict to one order"),
				"status":      enumField("Complaint status filter", models.ComplaintStatuses),
				"category":    enumField("Complaint category filter", models.ComplaintCategories),
				"priority":    enumField("Complaint priority filter", models.Priorities),
				"assigned_to": {Type: FieldString, Description: "Assigned agent filter"},
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.ListComplaints(ctx, store.ComplaintFilter{
					CustomerId: args.OptionalInt64("customer_id"),
					OrderId:    args.OptionalInt64("order_id"),
					Status:     args.String("status"),
					Category:   args.String("category"),
					Priority:   args.String("priority"),
					AssignedTo: args.String("assigned_to"),
				})
			},
		},
		{
			Name:        "get_complaint_by_id",
			Description: "Fetch one complaint by id",
			Params:      Schema{"complaint_id": idField("Complaint id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetComplaintById(ctx, args.Int64("complaint_id"))
			},
		},
		{
			Name:        "get_complaints_for_order",
			Description: "List every complaint linked to one order",
			Params:      Schema{"order_id": idField("Order id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetComplaintsForOrder(ctx, args.Int64("order_id"))
			},
		},
		{
			Name:        "search_complaints",
			Description: "Search complaints by subject or details substring",
			Params:      Schema{"keyword": {Type: FieldString, Description: "Search keyword", Required: true}},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.SearchComplaints(ctx, args.String("keyword"))
			},
		},
		{
			Name:        "get_high_priority_open_complaints",
			Description: "Unresolved high and critical complaints, critical first",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetHighPriorityOpenComplaints(ctx)
			},
		},
		{
			Name:        "get_complaint_statistics",
			Description: "System-wide complaint breakdown by category, priority, status and assignee",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.ComplaintStatistics(ctx)
			},
		},

		// --- Event logs ---
		{
			Name:        "get_payment_events",
			Description: "Payment gateway events, optionally filtered by order, gateway or window",
			Params: Schema{
				"order_id":   optionalIdField("Restrict to one order"),
				"gateway":    {Type: FieldString, Description: "Gateway filter"},
				"start_date": timestampField("Window start (RFC 3339)", false),
				"end_date":   timestampField("Window end (RFC 3339)", false),
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetPaymentEvents(ctx, store.PaymentEventFilter{
					OrderId: args.OptionalInt64("order_id"),
					Gateway: args.String("gateway"),
					Start:   args.OptionalTime("start_date"),
					End:     args.OptionalTime("end_date"),
				})
			},
		},
		{
			Name:        "get_logistics_events",
			Description: "Carrier events, optionally filtered by order, tracking number or window",
			Params: Schema{
				"order_id":        optionalIdField("Restrict to one order"),
				"tracking_number": {Type: FieldString, Description: "Tracking number filter"},
				"start_date":      timestampField("Window start (RFC 3339)", false),
				"end_date":        timestampField("Window end (RFC 3339)", false),
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.store.GetLogisticsEvents(ctx, store.LogisticsEventFilter{
					OrderId:        args.OptionalInt64("order_id"),
					TrackingNumber: args.String("tracking_number"),
					Start:          args.OptionalTime("start_date"),
					End:            args.OptionalTime("end_date"),
				})
			},
		},

		// --- Correlation ---
		{
			Name:        "get_order_fulfillment_timeline",
			Description: "Merged payment, logistics and complaint timeline for one order",
			Params:      Schema{"order_id": idField("Order id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.correlator.FulfillmentTimeline(ctx, args.Int64("order_id"))
			},
		},
		{
			Name:        "get_complaint_context",
			Description: "Complaint with its customer, linked order and order event history",
			Params:      Schema{"complaint_id": idField("Complaint id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.correlator.ComplaintContext(ctx, args.Int64("complaint_id"))
			},
		},
		{
			Name:        "correlate_customer_issues",
			Description: "Pair one customer's orders with their complaints and flag recurring issues",
			Params:      Schema{"customer_id": idField("Customer id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.correlator.CustomerIssueCorrelation(ctx, args.Int64("customer_id"))
			},
		},

		// --- Analytics ---
		{
			Name:        "get_delivery_breakdown",
			Description: "Per-phase delivery durations for one order",
			Params:      Schema{"order_id": idField("Order id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.DeliveryBreakdown(ctx, args.Int64("order_id"))
			},
		},
		{
			Name:        "get_payment_failure_rate",
			Description: "Failure rate per payment gateway, optionally windowed",
			Params: Schema{
				"gateway":    {Type: FieldString, Description: "Restrict to one gateway"},
				"start_date": timestampField("Window start (RFC 3339)", false),
				"end_date":   timestampField("Window end (RFC 3339)", false),
			},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.PaymentFailureRate(ctx, args.String("gateway"),
					args.OptionalTime("start_date"), args.OptionalTime("end_date"))
			},
		},
		{
			Name:        "get_lifetime_value",
			Description: "Customer lifetime value over non-cancelled, non-returned orders",
			Params:      Schema{"customer_id": idField("Customer id")},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.LifetimeValue(ctx, args.Int64("customer_id"))
			},
		},
		{
			Name:        "get_revenue_by_city",
			Description: "Order revenue grouped by customer city",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.RevenueByCity(ctx)
			},
		},
		{
			Name:        "get_top_customers",
			Description: "Customers ranked by total spend",
			Params:      Schema{"limit": {Type: FieldInt, Description: "Maximum results", Min: minOne()}},
			handler: func(ctx context.Context, args Args) (any, error) {
				limit := 0
				if v := args.OptionalInt64("limit"); v != nil {
					limit = int(*v)
				}
				return r.analytics.TopCustomers(ctx, limit)
			},
		},
		{
			Name:        "get_payment_summary_by_method",
			Description: "Order revenue grouped by payment method",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.PaymentSummaryByMethod(ctx)
			},
		},
		{
			Name:        "get_carrier_performance",
			Description: "Delivery metrics aggregated per carrier",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.CarrierPerformance(ctx)
			},
		},
		{
			Name:        "get_resolution_time_stats",
			Description: "Complaint resolution durations overall and per priority",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.ResolutionTimeStats(ctx)
			},
		},
		{
			Name:        "get_active_shipments",
			Description: "Shipped orders with their latest logistics position",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.ActiveShipments(ctx)
			},
		},
		{
			Name:        "get_dashboard_summary",
			Description: "Headline metrics across customers, orders and complaints",
			Params:      Schema{},
			handler: func(ctx context.Context, args Args) (any, error) {
				return r.analytics.DashboardSummary(ctx)
			},
		},
	}

	index := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if _, dup := index[op.Name]; dup {
			panic(fmt.Sprintf("duplicate operation %s", op.Name))
		}
		index[op.Name] = op
	}
	return index
}
