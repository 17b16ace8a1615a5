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
	"sort"

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

	common.PrintHeader("Commerce Context - Capability Catalog", common.DefaultWidth)

	operations := services.Registry.Operations()
	fmt.Printf("\nOperations (%d)\n", len(operations))
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	for i, op := range operations {
		last := i == len(operations)-1
		fmt.Printf("%s%s\n", common.BoxPrefix(last), op.Name)
		fmt.Printf("%s   %s\n", common.BoxDetailPrefix(last), op.Description)
		if len(op.Params) > 0 {
			names := make([]string, 0, len(op.Params))
			for name := range op.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				field := op.Params[name]
				required := ""
				if field.Required {
					required = " (required)"
				}
				fmt.Printf("%s   - %s: %s%s\n", common.BoxDetailPrefix(last), name, field.Type, required)
			}
		}
	}

	snapshots := services.Registry.Snapshots()
	fmt.Printf("\nSnapshots (%d)\n", len(snapshots))
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	for i, snapshot := range snapshots {
		last := i == len(snapshots)-1
		fmt.Printf("%s%s\n", common.BoxPrefix(last), snapshot.Id)
		fmt.Printf("%s   %s\n", common.BoxDetailPrefix(last), snapshot.Description)
	}

	templates := services.Registry.Templates()
	fmt.Printf("\nTemplates (%d)\n", len(templates))
	common.PrintBoxSeparator(common.DefaultWidth - 1)
	for i, template := range templates {
		last := i == len(templates)-1
		fmt.Printf("%s%s\n", common.BoxPrefix(last), template.Name)
		fmt.Printf("%s   %s\n", common.BoxDetailPrefix(last), template.Description)
		for j, step := range template.Steps {
			fmt.Printf("%s   %d. %s -> %s\n", common.BoxDetailPrefix(last), j+1, step.Key, step.Operation)
		}
	}

	common.PrintFooter(fmt.Sprintf("%d operations, %d snapshots, %d templates",
		len(operations), len(snapshots), len(templates)), common.DefaultWidth)
}
