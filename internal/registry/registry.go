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
	"errors"
	"fmt"
	"sort"

	"commerce-context-go/internal/analytics"
	"commerce-context-go/internal/correlate"
	"commerce-context-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Failure kinds carried on the wire.
const (
	KindInvalidArgument       = "invalid_argument"
	KindNotFound              = "not_found"
	KindUpstreamUnavailable   = "upstream_unavailable"
	KindInternalInconsistency = "internal_inconsistency"
	KindInternal              = "internal"
)

func classify(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, store.ErrUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, store.ErrInconsistent):
		return KindInternalInconsistency
	default:
		return KindInternal
	}
}

// Handler runs one operation against validated arguments.
type Handler func(ctx context.Context, args Args) (any, error)

// Operation is one dispatchable capability.
type Operation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Params      Schema `json:"params"`
	handler     Handler
}

// Failure is the wire form of a classified error.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Response is the envelope for every invocation. Exactly one of Result and
// Error is set.
type Response struct {
	RequestId string   `json:"request_id"`
	Operation string   `json:"operation"`
	Result    any      `json:"result,omitempty"`
	Error     *Failure `json:"error,omitempty"`
}

// Registry holds the full capability surface: operations, snapshots and
// templates. It is built once at startup and never mutated afterwards, so
// dispatch needs no locking.
type Registry struct {
	store      store.ContextStore
	correlator *correlate.Engine
	analytics  *analytics.Service
	operations map[string]Operation
	snapshots  map[string]Snapshot
	templates  map[string]Template
}

func New(contextStore store.ContextStore, correlator *correlate.Engine, analyticsService *analytics.Service) *Registry {
	r := &Registry{
		store:      contextStore,
		correlator: correlator,
		analytics:  analyticsService,
	}
	r.operations = r.buildOperations()
	r.snapshots = r.buildSnapshots()
	r.templates = r.buildTemplates()
	return r
}

// Operations lists every dispatchable operation, sorted by name.
func (r *Registry) Operations() []Operation {
	ops := make([]Operation, 0, len(r.operations))
	for _, op := range r.operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(a, b int) bool { return ops[a].Name < ops[b].Name })
	return ops
}

func failureResponse(requestId, operation string, err error) Response {
	return Response{
		RequestId: requestId,
		Operation: operation,
		Error:     &Failure{Kind: classify(err), Message: err.Error()},
	}
}

// Invoke validates the payload, dispatches the named operation and wraps the
// outcome in a response envelope. A panicking handler is recovered into an
// internal failure; no request can take the process down.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (response Response) {
	requestId := uuid.New().String()
	logger := zap.L().With(zap.String("request_id", requestId), zap.String("operation", name))
	logger.Debug("Request received")

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("Handler panicked", zap.Any("panic", recovered))
			response = failureResponse(requestId, name,
				fmt.Errorf("operation %s failed unexpectedly", name))
		}
	}()

	op, known := r.operations[name]
	if !known {
		logger.Warn("Unknown operation requested")
		return failureResponse(requestId, name,
			fmt.Errorf("%w: unknown operation %q", store.ErrNotFound, name))
	}

	args, err := op.Params.Validate(params)
	if err != nil {
		logger.Warn("Request validation failed", zap.Error(err))
		return failureResponse(requestId, name, err)
	}
	logger.Debug("Request validated, dispatching")

	result, err := op.handler(ctx, args)
	if err != nil {
		logger.Warn("Request failed", zap.Error(err))
		return failureResponse(requestId, name, err)
	}

	logger.Debug("Request completed")
	return Response{RequestId: requestId, Operation: name, Result: result}
}
