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

package main

import (
	"context"
	"fmt"

	"commerce-context-go/internal/common"
	"commerce-context-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	summary, err := services.Analytics.DashboardSummary(ctx)
	if err != nil {
		zap.L().Fatal("Failed to compute dashboard summary", zap.Error(err))
	}

	common.PrintHeader("Commerce Context - Dashboard", common.DefaultWidth)

	fmt.Printf("\nCustomers: %d\n", summary.Customers.Total)

	fmt.Println("\nOrders")
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	fmt.Printf("%sTotal:        %d\n", common.BoxPrefix(false), summary.Orders.Total)
	fmt.Printf("%sDelivered:    %d\n", common.BoxPrefix(false), summary.Orders.Delivered)
	fmt.Printf("%sIn transit:   %d\n", common.BoxPrefix(false), summary.Orders.InTransit)
	fmt.Printf("%sPending:      %d\n", common.BoxPrefix(false), summary.Orders.Pending)
	fmt.Printf("%sRevenue:      %s\n", common.BoxPrefix(false), summary.Orders.TotalRevenue.StringFixed(2))
	fmt.Printf("%sAvg order:    %s\n", common.BoxPrefix(true), summary.Orders.AvgOrderValue.StringFixed(2))

	fmt.Println("\nComplaints")
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	fmt.Printf("%sTotal:         %d\n", common.BoxPrefix(false), summary.Complaints.Total)
	fmt.Printf("%sOpen:          %d\n", common.BoxPrefix(false), summary.Complaints.Open)
	fmt.Printf("%sHigh priority: %d\n", common.BoxPrefix(true), summary.Complaints.HighPriority)

	shipments, err := services.Analytics.ActiveShipments(ctx)
	if err != nil {
		zap.L().Fatal("Failed to list active shipments", zap.Error(err))
	}

	fmt.Printf("\nActive shipments (%d)\n", len(shipments))
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	for i, shipment := range shipments {
		last := i == len(shipments)-1
		tracking := "-"
		if shipment.TrackingNumber != nil {
			tracking = *shipment.TrackingNumber
		}
		fmt.Printf("%sOrder %d: %s (%s)\n", common.BoxPrefix(last), shipment.OrderId, shipment.Item, shipment.CustomerName)
		position := "no carrier events yet"
		if shipment.LatestEvent != nil {
			position = shipment.LatestEvent.EventType
			if shipment.LatestEvent.Location != nil {
				position += " at " + *shipment.LatestEvent.Location
			}
		}
		fmt.Printf("%s   %s / %s - %s\n", common.BoxDetailPrefix(last), shipment.Carrier, tracking, position)
	}

	common.PrintFooter("Dashboard complete", common.DefaultWidth)
}
