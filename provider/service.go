// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/hcsecrets/record"
	"github.com/hashicorp/hcsecrets/redact"
)

// ProviderResponse is the display representation of one provider. Data is always redacted.
type ProviderResponse struct {
	DisplayName string        `json:"displayName"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon"`
	Connected   bool          `json:"connected"`
	ConnectedAt *time.Time    `json:"connectedAt"`
	Properties  []Property    `json:"properties"`
	Data        record.Record `json:"data"`
}

// ProviderSummary is the list view of a provider. It carries no settings at all.
type ProviderSummary struct {
	DisplayName string     `json:"displayName"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Connected   bool       `json:"connected"`
	ConnectedAt *time.Time `json:"connectedAt"`
}

// Service sits between the display surface and the provider registry. Everything it hands out is redacted,
// and everything it persists is unredacted against the last saved settings.
type Service struct {
	l         hclog.Logger
	registry  Registry
	persister Persister
	engine    redact.Engine
}

func NewService(l hclog.Logger, registry Registry, persister Persister, engine redact.Engine) *Service {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	return &Service{
		l:         l.Named("service"),
		registry:  registry,
		persister: persister,
		engine:    engine,
	}
}

// GetProvider returns the redacted view of a provider's settings.
func (s *Service) GetProvider(name string) (ProviderResponse, error) {
	pws, ok := s.registry.ProviderWithSettings(name)
	if !ok {
		return ProviderResponse{}, &ProviderNotFoundError{Name: name}
	}
	p, settings := pws.Provider, pws.Settings
	return ProviderResponse{
		DisplayName: p.DisplayName,
		Name:        p.Name,
		Icon:        p.Name,
		Connected:   settings.Connected,
		ConnectedAt: settings.ConnectedAt,
		Properties:  p.Properties,
		Data:        s.engine.Redact(settings.Settings, p.Schema()),
	}, nil
}

// GetProviders lists every registered provider without any settings data.
func (s *Service) GetProviders() []ProviderSummary {
	all := s.registry.ProvidersWithSettings()
	out := make([]ProviderSummary, 0, len(all))
	for _, pws := range all {
		out = append(out, ProviderSummary{
			DisplayName: pws.Provider.DisplayName,
			Name:        pws.Provider.Name,
			Icon:        pws.Provider.Name,
			Connected:   pws.Settings.Connected,
			ConnectedAt: pws.Settings.ConnectedAt,
		})
	}
	return out
}

// SaveProviderSettings restores every hidden value in data from the saved settings and persists the result.
// Errors from the persister are returned as-is.
func (s *Service) SaveProviderSettings(ctx context.Context, name string, data record.Record) error {
	pws, ok := s.registry.ProviderWithSettings(name)
	if !ok {
		return &ProviderNotFoundError{Name: name}
	}
	merged, err := s.engine.Unredact(data, pws.Settings.Settings)
	if err != nil {
		return err
	}
	s.l.Debug("saving provider settings", "provider", name, "keys", merged.Keys())
	return s.persister.SetProviderSettings(ctx, name, merged)
}

// Credentials returns the unredacted settings of a provider for in-process consumers such as API clients.
// The result must never be rendered.
func (s *Service) Credentials(name string) (record.Record, error) {
	pws, ok := s.registry.ProviderWithSettings(name)
	if !ok {
		return nil, &ProviderNotFoundError{Name: name}
	}
	return pws.Settings.Settings.Clone(), nil
}
