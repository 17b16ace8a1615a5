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

package database

const (
	// Customer queries
	queryListCustomers = `
		SELECT id, name, email, phone, address_line, city, state, zip_code, country, created_at
		FROM customers
		ORDER BY id`

	queryGetCustomerById = `
		SELECT id, name, email, phone, address_line, city, state, zip_code, country, created_at
		FROM customers
		WHERE id = ?`

	querySearchCustomers = `
		SELECT id, name, email, phone, address_line, city, state, zip_code, country, created_at
		FROM customers
		WHERE name LIKE ? OR email LIKE ?
		ORDER BY id`

	// Order queries; list queries append filter conditions at run time
	queryListOrdersBase = `
		SELECT id, customer_id, item, quantity, unit_price, total_amount, status,
		       payment_method, shipping_address, tracking_number, ordered_at
		FROM orders
		WHERE 1=1`

	queryGetOrderById = `
		SELECT id, customer_id, item, quantity, unit_price, total_amount, status,
		       payment_method, shipping_address, tracking_number, ordered_at
		FROM orders
		WHERE id = ?`

	queryGetOrderByTracking = `
		SELECT id, customer_id, item, quantity, unit_price, total_amount, status,
		       payment_method, shipping_address, tracking_number, ordered_at
		FROM orders
		WHERE tracking_number = ?`

	queryGetOrdersByDateRange = `
		SELECT id, customer_id, item, quantity, unit_price, total_amount, status,
		       payment_method, shipping_address, tracking_number, ordered_at
		FROM orders
		WHERE ordered_at >= ? AND ordered_at <= ?
		ORDER BY ordered_at, id`

	// Complaint queries
	queryListComplaintsBase = `
		SELECT id, customer_id, order_id, category, priority, status, subject, details,
		       resolution, assigned_to, created_at, resolved_at
		FROM complaints
		WHERE 1=1`

	queryGetComplaintById = `
		SELECT id, customer_id, order_id, category, priority, status, subject, details,
		       resolution, assigned_to, created_at, resolved_at
		FROM complaints
		WHERE id = ?`

	queryGetComplaintsForOrder = `
		SELECT id, customer_id, order_id, category, priority, status, subject, details,
		       resolution, assigned_to, created_at, resolved_at
		FROM complaints
		WHERE order_id = ?
		ORDER BY created_at, id`

	querySearchComplaints = `
		SELECT id, customer_id, order_id, category, priority, status, subject, details,
		       resolution, assigned_to, created_at, resolved_at
		FROM complaints
		WHERE subject LIKE ? OR details LIKE ?
		ORDER BY created_at DESC, id DESC`

	queryHighPriorityOpenComplaints = `
		SELECT id, customer_id, order_id, category, priority, status, subject, details,
		       resolution, assigned_to, created_at, resolved_at
		FROM complaints
		WHERE priority IN ('high','critical') AND status IN ('open','investigating')
		ORDER BY CASE priority WHEN 'critical' THEN 0 ELSE 1 END, created_at, id`

	// Event log queries
	queryPaymentEventsBase = `
		SELECT id, order_id, transaction_id, event_type, amount, currency, gateway,
		       error_message, logged_at
		FROM payment_events
		WHERE 1=1`

	queryLogisticsEventsBase = `
		SELECT id, order_id, tracking_number, carrier, event_type, location, notes, logged_at
		FROM logistics_events
		WHERE 1=1`
)
