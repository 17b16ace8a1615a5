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
	"flag"
	"fmt"

	"commerce-context-go/internal/common"
	"commerce-context-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	dbPath := flag.String("db", "", "Database path override (default: DATABASE_PATH)")
	seedFile := flag.String("seed", "data/seed.json", "Seed file to load when the database is empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	cfg.Database.SeedFile = *seedFile

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	common.PrintHeader("Commerce Context - Database Setup", common.DefaultWidth)

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	customers, err := dbService.ListCustomers(ctx)
	if err != nil {
		zap.L().Fatal("Failed to verify seeded data", zap.Error(err))
	}

	fmt.Printf("Database ready at %s\n", cfg.Database.Path)
	fmt.Printf("Customers on file: %d\n", len(customers))

	common.PrintFooter("Setup complete", common.DefaultWidth)
}
