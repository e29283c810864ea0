// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"errors"
	"fmt"
)

// ProviderNotFoundError is returned when a caller asks for a provider that is not registered.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("secrets provider %q not found", e.Name)
}

// IsProviderNotFound reports whether err, or anything it wraps, is a ProviderNotFoundError.
func IsProviderNotFound(err error) bool {
	var nf *ProviderNotFoundError
	return errors.As(err, &nf)
}
