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
	"sort"

	"commerce-context-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateStep names one operation in a guided sequence and how the
// template's own parameters map onto it.
type TemplateStep struct {
	Key       string            `json:"key"`
	Operation string            `json:"operation"`
	ParamMap  map[string]string `json:"param_map,omitempty"`
}

// Template is a fixed, ordered operation sequence whose results are merged
// into one keyed document.
type Template struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Params      Schema         `json:"params"`
	Steps       []TemplateStep `json:"steps"`
}

func (r *Registry) buildTemplates() map[string]Template {
	customerParam := Schema{"customer_id": idField("Customer id")}
	orderParam := Schema{"order_id": idField("Order id")}
	complaintParam := Schema{"complaint_id": idField("Complaint id")}
	passCustomer := map[string]string{"customer_id": "customer_id"}
	passOrder := map[string]string{"order_id": "order_id"}
	passComplaint := map[string]string{"complaint_id": "complaint_id"}

	templates := []Template{
		{
			Name:        "customer_360",
			Description: "Full customer profile: account, spend, issue correlation",
			Params:      customerParam,
			Steps: []TemplateStep{
				{Key: "customer", Operation: "get_customer_by_id", ParamMap: passCustomer},
				{Key: "summary", Operation: "get_customer_summary", ParamMap: passCustomer},
				{Key: "lifetime_value", Operation: "get_lifetime_value", ParamMap: passCustomer},
				{Key: "issues", Operation: "correlate_customer_issues", ParamMap: passCustomer},
			},
		},
		{
			Name:        "order_investigation",
			Description: "Everything recorded about one order",
			Params:      orderParam,
			Steps: []TemplateStep{
				{Key: "order", Operation: "get_order_by_id", ParamMap: passOrder},
				{Key: "timeline", Operation: "get_order_fulfillment_timeline", ParamMap: passOrder},
				{Key: "delivery", Operation: "get_delivery_breakdown", ParamMap: passOrder},
				{Key: "complaints", Operation: "get_complaints_for_order", ParamMap: passOrder},
			},
		},
		{
			Name:        "complaint_deep_dive",
			Description: "One complaint with its full surrounding context",
			Params:      complaintParam,
			Steps: []TemplateStep{
				{Key: "complaint", Operation: "get_complaint_by_id", ParamMap: passComplaint},
				{Key: "context", Operation: "get_complaint_context", ParamMap: passComplaint},
			},
		},
		{
			Name:        "churn_risk",
			Description: "Signals that a customer may be about to leave",
			Params:      customerParam,
			Steps: []TemplateStep{
				{Key: "issues", Operation: "correlate_customer_issues", ParamMap: passCustomer},
				{Key: "lifetime_value", Operation: "get_lifetime_value", ParamMap: passCustomer},
				{Key: "resolution_times", Operation: "get_resolution_time_stats"},
			},
		},
		{
			Name:        "escalation_review",
			Description: "Everything a support lead needs for the escalation queue",
			Params:      Schema{},
			Steps: []TemplateStep{
				{Key: "queue", Operation: "get_high_priority_open_complaints"},
				{Key: "statistics", Operation: "get_complaint_statistics"},
				{Key: "resolution_times", Operation: "get_resolution_time_stats"},
			},
		},
		{
			Name:        "system_health",
			Description: "Operational health across payments, logistics and support",
			Params:      Schema{},
			Steps: []TemplateStep{
				{Key: "dashboard", Operation: "get_dashboard_summary"},
				{Key: "payment_failures", Operation: "get_payment_failure_rate"},
				{Key: "carriers", Operation: "get_carrier_performance"},
				{Key: "active_shipments", Operation: "get_active_shipments"},
			},
		},
		{
			Name:        "payment_health",
			Description: "Gateway reliability and payment method mix",
			Params:      Schema{},
			Steps: []TemplateStep{
				{Key: "failure_rates", Operation: "get_payment_failure_rate"},
				{Key: "method_summary", Operation: "get_payment_summary_by_method"},
			},
		},
		{
			Name:        "regional_performance",
			Description: "Revenue and fulfilment broken down by geography",
			Params:      Schema{},
			Steps: []TemplateStep{
				{Key: "revenue_by_city", Operation: "get_revenue_by_city"},
				{Key: "top_customers", Operation: "get_top_customers"},
				{Key: "carriers", Operation: "get_carrier_performance"},
			},
		},
	}

	index := make(map[string]Template, len(templates))
	for _, template := range templates {
		for _, step := range template.Steps {
			if _, known := r.operations[step.Operation]; !known {
				panic(fmt.Sprintf("template %s references unknown operation %s", template.Name, step.Operation))
			}
		}
		index[template.Name] = template
	}
	return index
}

// Templates lists every guided template, sorted by name.
func (r *Registry) Templates() []Template {
	list := make([]Template, 0, len(r.templates))
	for _, template := range r.templates {
		list = append(list, template)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list
}

// TemplateResult is the merged outcome of one template run. Sections is
// keyed by step key, in declaration order inside Steps.
type TemplateResult struct {
	RequestId string         `json:"request_id"`
	Template  string         `json:"template"`
	Sections  map[string]any `json:"sections,omitempty"`
	Steps     []string       `json:"steps,omitempty"`
	Error     *Failure       `json:"error,omitempty"`
}

// RunTemplate validates the template parameters and executes its steps in
// order, merging each result under the step's key. The first failing step
// aborts the run.
func (r *Registry) RunTemplate(ctx context.Context, name string, params map[string]any) TemplateResult {
	requestId := uuid.New().String()
	logger := zap.L().With(zap.String("request_id", requestId), zap.String("template", name))

	template, known := r.templates[name]
	if !known {
		logger.Warn("Unknown template requested")
		err := fmt.Errorf("%w: unknown template %q", store.ErrNotFound, name)
		return TemplateResult{
			RequestId: requestId,
			Template:  name,
			Error:     &Failure{Kind: classify(err), Message: err.Error()},
		}
	}

	args, err := template.Params.Validate(params)
	if err != nil {
		logger.Warn("Template validation failed", zap.Error(err))
		return TemplateResult{
			RequestId: requestId,
			Template:  name,
			Error:     &Failure{Kind: classify(err), Message: err.Error()},
		}
	}

	sections := make(map[string]any, len(template.Steps))
	steps := make([]string, 0, len(template.Steps))
	for _, step := range template.Steps {
		stepParams := map[string]any{}
		for from, to := range step.ParamMap {
			if value, ok := args[from]; ok {
				stepParams[to] = value
			}
		}

		response := r.Invoke(ctx, step.Operation, stepParams)
		if response.Error != nil {
			logger.Warn("Template step failed",
				zap.String("step", step.Key),
				zap.String("operation", step.Operation),
				zap.String("kind", response.Error.Kind))
			return TemplateResult{
				RequestId: requestId,
				Template:  name,
				Error: &Failure{
					Kind:    response.Error.Kind,
					Message: fmt.Sprintf("step %s (%s): %s", step.Key, step.Operation, response.Error.Message),
				},
			}
		}
		sections[step.Key] = response.Result
		steps = append(steps, step.Key)
	}

	logger.Debug("Template completed", zap.Int("steps", len(steps)))
	return TemplateResult{
		RequestId: requestId,
		Template:  name,
		Sections:  sections,
		Steps:     steps,
	}
}
