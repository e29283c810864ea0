// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package redact hides sensitive provider settings before they are displayed and restores them from the
// saved copy before they are persisted. It also carries regex Patterns for scrubbing secrets out of text.
package redact

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcsecrets/record"
)

const (
	// DefaultSentinel marks a value that was intentionally hidden. It must never be a storable value.
	DefaultSentinel = "__BLANK_VALUE_e5362baf-c777-4d57-a609-6eaf1f9e87f6"

	// OAuthTokenDataKey holds OAuth token data. Callers only care whether it is set, so it is always hidden.
	OAuthTokenDataKey = "oauthTokenData"

	// ExpressionMarker prefixes values that are computed at runtime rather than literal secrets.
	ExpressionMarker = "="
)

// MissingSavedValueError is returned by Unredact when a sentinel has no saved counterpart to restore.
type MissingSavedValueError struct {
	Path string
}

func (e *MissingSavedValueError) Error() string {
	return fmt.Sprintf("no saved value to restore for redacted field %q", e.Path)
}

// Engine redacts and unredacts settings Records. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	sentinel string
}

// New returns an Engine that uses sentinel as its hidden-value marker, or DefaultSentinel if it is empty.
func New(sentinel string) Engine {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return Engine{sentinel: sentinel}
}

func (e Engine) Sentinel() string {
	if e.sentinel == "" {
		return DefaultSentinel
	}
	return e.sentinel
}

// IsSentinel reports whether v is exactly the sentinel string.
func (e Engine) IsSentinel(v record.Value) bool {
	s, ok := v.Str()
	return ok && s == e.Sentinel()
}

// Redact returns a copy of data with every sensitive top-level value replaced by the sentinel. Keys the
// schema does not describe pass through untouched, and nested Records are not inspected.
func (e Engine) Redact(data record.Record, schema Schema) record.Record {
	out := data.Clone()
	hidden := record.String(e.Sentinel())

	for key, val := range out {
		if key == OAuthTokenDataKey {
			out[key] = hidden
			continue
		}
		field, ok := schema.Lookup(key)
		if !ok || !field.Sensitive {
			continue
		}
		if isExpression(val) && !field.ForceSensitive {
			continue
		}
		out[key] = hidden
	}
	return out
}

// Unredact returns a copy of redacted in which every sentinel is replaced by the value at the same key
// path in saved. Objects present in both are walked in lockstep. Neither input is modified.
func (e Engine) Unredact(redacted, saved record.Record) (record.Record, error) {
	out := redacted.Clone()
	if err := e.restore(out, saved, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (e Engine) restore(unmerged, replacement record.Record, path string) error {
	for key, val := range unmerged {
		keyPath := joinPath(path, key)

		if e.IsSentinel(val) {
			saved, ok := replacement[key]
			if !ok {
				return &MissingSavedValueError{Path: keyPath}
			}
			unmerged[key] = saved.Clone()
			continue
		}

		nested, ok := val.Obj()
		if !ok {
			continue
		}
		savedNested, ok := replacement[key].Obj()
		if !ok {
			continue
		}
		if err := e.restore(nested, savedNested, keyPath); err != nil {
			return err
		}
	}
	return nil
}

func isExpression(v record.Value) bool {
	s, ok := v.Str()
	return ok && strings.HasPrefix(s, ExpressionMarker)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
