// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp/hcsecrets/client"
	"github.com/hashicorp/hcsecrets/provider"
	"github.com/hashicorp/hcsecrets/record"
	"github.com/hashicorp/hcsecrets/redact"
)

const (
	DefaultSettingsFile = "hcsecrets-settings.json"

	// DefaultDiscordProvider is the provider whose settings hold the Discord bot token.
	DefaultDiscordProvider = "discord"
	DefaultDiscordTokenKey = "botToken"
)

type HCL struct {
	Sentinel     string      `hcl:"sentinel,optional" json:"-"`
	SettingsFile string      `hcl:"settings_file,optional" json:"settings_file"`
	Providers    []*Provider `hcl:"provider,block" json:"providers"`
	Discord      *Discord    `hcl:"discord,block" json:"discord"`
}

type Provider struct {
	Name        string     `hcl:"name,label"`
	DisplayName string     `hcl:"display_name,optional"`
	Properties  []Property `hcl:"property,block"`
}

type Property struct {
	Name             string `hcl:"name,label"`
	DisplayName      string `hcl:"display_name,optional"`
	Type             string `hcl:"type,optional"`
	Default          string `hcl:"default,optional"`
	Password         bool   `hcl:"password,optional"`
	NoDataExpression bool   `hcl:"no_data_expression,optional"`
}

type Discord struct {
	BaseURL         string   `hcl:"base_url,optional"`
	RequestInterval string   `hcl:"request_interval,optional"`
	Burst           int      `hcl:"burst,optional"`
	Provider        string   `hcl:"provider,optional"`
	TokenKey        string   `hcl:"token_key,optional"`
	Redactions      []Redact `hcl:"redact,block"`
}

// Redact blocks scrub matching text from API responses before they are printed.
type Redact struct {
	Label   string `hcl:"name,label"`
	ID      string `hcl:"id,optional"`
	Match   string `hcl:"match"`
	Replace string `hcl:"replace,optional"`
}

// Parse takes a file path and decodes the file from disk into HCL types.
func Parse(path string) (HCL, error) {
	var h HCL
	err := hclsimple.DecodeFile(path, nil, &h)
	if err != nil {
		return HCL{}, err
	}
	return h, h.Validate()
}

// Decode parses src as if it were read from filename, which only determines the syntax and error positions.
func Decode(filename string, src []byte) (HCL, error) {
	var h HCL
	err := hclsimple.Decode(filename, src, nil, &h)
	if err != nil {
		return HCL{}, err
	}
	return h, h.Validate()
}

// Validate reports every semantic problem in the configuration at once.
func (h HCL) Validate() error {
	var result *multierror.Error

	seen := make(map[string]bool, len(h.Providers))
	for _, p := range h.Providers {
		if p.Name == "" {
			result = multierror.Append(result, fmt.Errorf("provider block has an empty name"))
			continue
		}
		if seen[p.Name] {
			result = multierror.Append(result, fmt.Errorf("provider %q is declared more than once", p.Name))
		}
		seen[p.Name] = true

		if err := p.schema().Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("provider %q: %w", p.Name, err))
		}
	}

	if h.Discord != nil {
		if _, err := h.Discord.Interval(); err != nil {
			result = multierror.Append(result, err)
		}
		if h.Discord.Burst < 0 {
			result = multierror.Append(result, fmt.Errorf("discord burst must not be negative, got %d", h.Discord.Burst))
		}
		if _, err := MapRedacts(h.Discord.Redactions); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// SettingsPath returns the configured settings file, or DefaultSettingsFile.
func (h HCL) SettingsPath() string {
	if h.SettingsFile == "" {
		return DefaultSettingsFile
	}
	return h.SettingsFile
}

// Engine builds the redaction engine with the configured sentinel.
func (h HCL) Engine() redact.Engine {
	return redact.New(h.Sentinel)
}

// ProviderList maps the provider blocks to registry providers, preserving their order.
func (h HCL) ProviderList() []provider.Provider {
	out := make([]provider.Provider, 0, len(h.Providers))
	for _, p := range h.Providers {
		out = append(out, p.toProvider())
	}
	return out
}

func (p *Provider) toProvider() provider.Provider {
	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Name
	}
	props := make([]provider.Property, 0, len(p.Properties))
	for _, prop := range p.Properties {
		props = append(props, prop.toProperty())
	}
	return provider.Provider{Name: p.Name, DisplayName: displayName, Properties: props}
}

func (p *Provider) schema() redact.Schema {
	return p.toProvider().Schema()
}

func (p Property) toProperty() provider.Property {
	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Name
	}
	typ := p.Type
	if typ == "" {
		typ = "string"
	}
	def := record.Null()
	if p.Default != "" {
		def = record.String(p.Default)
	}
	return provider.Property{
		Name:             p.Name,
		DisplayName:      displayName,
		Type:             typ,
		Default:          def,
		Password:         p.Password,
		NoDataExpression: p.NoDataExpression,
	}
}

// Interval parses request_interval. An empty value means client.DefaultInterval.
func (d *Discord) Interval() (time.Duration, error) {
	if d == nil || d.RequestInterval == "" {
		return client.DefaultInterval, nil
	}
	interval, err := time.ParseDuration(d.RequestInterval)
	if err != nil {
		return 0, fmt.Errorf("discord request_interval: %w", err)
	}
	if interval < 0 {
		return 0, fmt.Errorf("discord request_interval must not be negative, got %s", interval)
	}
	return interval, nil
}

// ClientConfig converts the block into a client.DiscordConfig carrying token.
func (d *Discord) ClientConfig(token string) (client.DiscordConfig, error) {
	interval, err := d.Interval()
	if err != nil {
		return client.DiscordConfig{}, err
	}
	cfg := client.DiscordConfig{Token: token, Interval: interval}
	if d != nil {
		cfg.BaseURL = d.BaseURL
		cfg.Burst = d.Burst
	}
	return cfg, nil
}

// TokenSource names the provider and settings key that hold the bot token.
func (d *Discord) TokenSource() (providerName, key string) {
	providerName, key = DefaultDiscordProvider, DefaultDiscordTokenKey
	if d == nil {
		return providerName, key
	}
	if d.Provider != "" {
		providerName = d.Provider
	}
	if d.TokenKey != "" {
		key = d.TokenKey
	}
	return providerName, key
}

// MapRedacts compiles redact blocks into text patterns.
func MapRedacts(redacts []Redact) ([]*redact.Pattern, error) {
	out := make([]*redact.Pattern, 0, len(redacts))
	for _, r := range redacts {
		p, err := redact.NewPattern(r.Match, r.ID, r.Replace)
		if err != nil {
			return nil, fmt.Errorf("redact %q: %w", r.Label, err)
		}
		out = append(out, p)
	}
	return out, nil
}
