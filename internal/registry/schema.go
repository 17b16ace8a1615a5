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
	"fmt"
	"math"
	"time"

	"commerce-context-go/internal/store"
)

// Field types accepted by operation parameter schemas.
const (
	FieldInt       = "int"
	FieldString    = "string"
	FieldEnum      = "enum"
	FieldTimestamp = "timestamp"
)

// Field describes one parameter of an operation.
type Field struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Min         *int64   `json:"min,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema maps parameter names to their declarations. It is walked over the
// raw payload before the handler runs; handlers never see unvalidated input.
type Schema map[string]Field

// Args holds validated, type-normalized parameters. Ints are int64 and
// timestamps are time.Time regardless of how they arrived on the wire.
type Args map[string]any

func (a Args) Int64(name string) int64 {
	v, _ := a[name].(int64)
	return v
}

func (a Args) OptionalInt64(name string) *int64 {
	if v, ok := a[name].(int64); ok {
		return &v
	}
	return nil
}

func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

func (a Args) OptionalTime(name string) *time.Time {
	if v, ok := a[name].(time.Time); ok {
		return &v
	}
	return nil
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		// JSON numbers arrive as float64; reject anything fractional.
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// Validate checks a raw payload against the schema and returns normalized
// arguments. Any violation fails with ErrInvalidArgument before the handler
// is invoked.
func (s Schema) Validate(params map[string]any) (Args, error) {
	for name := range params {
		if _, known := s[name]; !known {
			return nil, fmt.Errorf("%w: unknown parameter %q", store.ErrInvalidArgument, name)
		}
	}

	args := Args{}
	for name, field := range s {
		raw, present := params[name]
		if !present || raw == nil {
			if field.Required {
				return nil, fmt.Errorf("%w: missing required parameter %q", store.ErrInvalidArgument, name)
			}
			continue
		}

		switch field.Type {
		case FieldInt:
			v, ok := toInt64(raw)
			if !ok {
				return nil, fmt.Errorf("%w: parameter %q must be an integer", store.ErrInvalidArgument, name)
			}
			if field.Min != nil && v < *field.Min {
				return nil, fmt.Errorf("%w: parameter %q must be at least %d", store.ErrInvalidArgument, name, *field.Min)
			}
			args[name] = v

		case FieldString:
			v, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: parameter %q must be a string", store.ErrInvalidArgument, name)
			}
			if field.Required && v == "" {
				return nil, fmt.Errorf("%w: parameter %q cannot be empty", store.ErrInvalidArgument, name)
			}
			args[name] = v

		case FieldEnum:
			v, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: parameter %q must be a string", store.ErrInvalidArgument, name)
			}
			member := false
			for _, allowed := range field.Enum {
				if v == allowed {
					member = true
					break
				}
			}
			if !member {
				return nil, fmt.Errorf("%w: parameter %q must be one of %v, got %q",
					store.ErrInvalidArgument, name, field.Enum, v)
			}
			args[name] = v

		case FieldTimestamp:
			v, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: parameter %q must be an RFC 3339 timestamp string", store.ErrInvalidArgument, name)
			}
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("%w: parameter %q is not a valid RFC 3339 timestamp: %v",
					store.ErrInvalidArgument, name, err)
			}
			args[name] = t

		default:
			return nil, fmt.Errorf("%w: parameter %q has unsupported type %q", store.ErrInvalidArgument, name, field.Type)
		}
	}
	return args, nil
}
