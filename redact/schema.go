// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Field describes one top-level settings key and how it is treated by Engine.Redact.
type Field struct {
	Name string

	// Sensitive marks password-like fields whose values are hidden behind the sentinel.
	Sensitive bool

	// AllowsExpression records that the field accepts dynamic expressions. It is descriptive; the
	// expression exemption itself is governed by ForceSensitive.
	AllowsExpression bool

	// ForceSensitive hides the value even when it looks like an expression.
	ForceSensitive bool
}

// Schema is an ordered list of field descriptors.
type Schema []Field

// Lookup returns the first field called name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate reports every empty or duplicated field name in s. Redact never calls it; a schema with
// problems still redacts using the first matching entry.
func (s Schema) Validate() error {
	var result *multierror.Error
	seen := make(map[string]int, len(s))
	for i, f := range s {
		if f.Name == "" {
			result = multierror.Append(result, fmt.Errorf("field %d has an empty name", i))
			continue
		}
		if first, ok := seen[f.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("field %q at index %d duplicates index %d", f.Name, i, first))
			continue
		}
		seen[f.Name] = i
	}
	return result.ErrorOrNil()
}
