// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/hcsecrets/record"
)

var (
	_ Registry  = &Manager{}
	_ Persister = &Manager{}
)

// Store loads and saves the settings of every provider at once.
type Store interface {
	Load() (map[string]Settings, error)
	Save(map[string]Settings) error
}

// Manager is an in-memory provider registry. When it has a Store, every change is written through to it
// before it becomes visible.
type Manager struct {
	l     hclog.Logger
	store Store
	now   func() time.Time

	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
	settings  map[string]Settings
}

// NewManager registers providers in the given order and loads their settings from store, which may be nil.
// Stored settings for providers that are not registered are kept so that saving does not discard them.
func NewManager(l hclog.Logger, providers []Provider, store Store) (*Manager, error) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	m := &Manager{
		l:         l.Named("manager"),
		store:     store,
		now:       time.Now,
		providers: make(map[string]Provider, len(providers)),
		settings:  make(map[string]Settings),
	}
	for _, p := range providers {
		if _, dup := m.providers[p.Name]; dup {
			return nil, fmt.Errorf("provider %q registered twice", p.Name)
		}
		m.order = append(m.order, p.Name)
		m.providers[p.Name] = p
	}

	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			return nil, err
		}
		for name, s := range loaded {
			if _, ok := m.providers[name]; !ok {
				m.l.Warn("stored settings for unregistered provider", "provider", name)
			}
			m.settings[name] = s
		}
	}
	m.l.Debug("registry ready", "providers", m.order)
	return m, nil
}

func (m *Manager) ProviderWithSettings(name string) (ProviderWithSettings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.providers[name]
	if !ok {
		return ProviderWithSettings{}, false
	}
	return ProviderWithSettings{Provider: p, Settings: cloneSettings(m.settings[name])}, true
}

func (m *Manager) ProvidersWithSettings() []ProviderWithSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ProviderWithSettings, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, ProviderWithSettings{
			Provider: m.providers[name],
			Settings: cloneSettings(m.settings[name]),
		})
	}
	return out
}

// SetProviderSettings replaces the settings record of a provider. Store errors are returned unchanged and
// leave the previous settings in place.
func (m *Manager) SetProviderSettings(ctx context.Context, name string, settings record.Record) error {
	return m.update(ctx, name, func(s *Settings) {
		s.Settings = settings.Clone()
	})
}

// SetConnected flips the connected flag of a provider, stamping the time it was connected.
func (m *Manager) SetConnected(ctx context.Context, name string, connected bool) error {
	return m.update(ctx, name, func(s *Settings) {
		s.Connected = connected
		s.ConnectedAt = nil
		if connected {
			at := m.now().UTC()
			s.ConnectedAt = &at
		}
	})
}

func (m *Manager) update(ctx context.Context, name string, fn func(*Settings)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[name]; !ok {
		return &ProviderNotFoundError{Name: name}
	}

	prev, hadPrev := m.settings[name]
	next := cloneSettings(prev)
	fn(&next)
	m.settings[name] = next

	if m.store != nil {
		if err := m.store.Save(m.snapshot()); err != nil {
			if hadPrev {
				m.settings[name] = prev
			} else {
				delete(m.settings, name)
			}
			m.l.Error("failed to persist provider settings", "provider", name, "error", err)
			return err
		}
	}
	m.l.Info("provider settings updated", "provider", name)
	return nil
}

// snapshot copies all settings; callers must hold m.mu.
func (m *Manager) snapshot() map[string]Settings {
	out := make(map[string]Settings, len(m.settings))
	for name, s := range m.settings {
		out[name] = cloneSettings(s)
	}
	return out
}

func cloneSettings(s Settings) Settings {
	out := Settings{Connected: s.Connected, Settings: s.Settings.Clone()}
	if s.ConnectedAt != nil {
		at := *s.ConnectedAt
		out.ConnectedAt = &at
	}
	if out.Settings == nil {
		out.Settings = record.Record{}
	}
	return out
}
