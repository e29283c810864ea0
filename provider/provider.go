// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package provider holds the secrets provider registry and the service that serves redacted provider
// settings to display surfaces and persists unredacted ones.
package provider

import (
	"context"
	"time"

	"github.com/hashicorp/hcsecrets/record"
	"github.com/hashicorp/hcsecrets/redact"
)

// Property describes a single configurable setting of a provider.
type Property struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Type        string       `json:"type"`
	Default     record.Value `json:"default"`

	// Password marks the value as a secret that is never shown back to the user.
	Password bool `json:"password,omitempty"`

	// NoDataExpression forbids dynamic expressions, which also removes their redaction exemption.
	NoDataExpression bool `json:"noDataExpression,omitempty"`
}

// Provider is a secrets provider known to the registry.
type Provider struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Properties  []Property `json:"properties"`
}

// Schema derives the redaction schema from the provider's properties.
func (p Provider) Schema() redact.Schema {
	schema := make(redact.Schema, 0, len(p.Properties))
	for _, prop := range p.Properties {
		schema = append(schema, redact.Field{
			Name:             prop.Name,
			Sensitive:        prop.Password,
			AllowsExpression: !prop.NoDataExpression,
			ForceSensitive:   prop.NoDataExpression,
		})
	}
	return schema
}

// Settings is the stored state of a provider.
type Settings struct {
	Connected   bool          `json:"connected"`
	ConnectedAt *time.Time    `json:"connectedAt"`
	Settings    record.Record `json:"settings"`
}

// ProviderWithSettings pairs a provider with its current settings.
type ProviderWithSettings struct {
	Provider Provider
	Settings Settings
}

// Registry looks providers up by name.
type Registry interface {
	ProviderWithSettings(name string) (ProviderWithSettings, bool)
	ProvidersWithSettings() []ProviderWithSettings
}

// Persister stores new settings for a provider.
type Persister interface {
	SetProviderSettings(ctx context.Context, name string, settings record.Record) error
}
