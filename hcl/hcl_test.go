// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hcl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/hcsecrets/client"
	"github.com/hashicorp/hcsecrets/provider"
	"github.com/hashicorp/hcsecrets/record"
	"github.com/hashicorp/hcsecrets/redact"
)

const fullConfig = `
sentinel      = "__HIDDEN__"
settings_file = "/var/lib/hcsecrets/settings.json"

provider "vault" {
  display_name = "HashiCorp Vault"

  property "url" {
    display_name = "Vault URL"
    default      = "http://127.0.0.1:8200"
  }

  property "token" {
    password           = true
    no_data_expression = true
  }
}

provider "discord" {
  property "botToken" {
    password = true
  }
}

discord {
  base_url         = "http://localhost:9999/api/"
  request_interval = "500ms"
  burst            = 2
  token_key        = "token"

  redact "ids" {
    match   = "[0-9]{17,19}"
    replace = "<ID>"
  }
}
`

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		expect HCL
	}{
		{
			name:   "Empty config is valid",
			src:    "",
			expect: HCL{},
		},
		{
			name: "Provider with no properties is valid",
			src:  `provider "aws" {}`,
			expect: HCL{
				Providers: []*Provider{{Name: "aws"}},
			},
		},
		{
			name: "Full config",
			src:  fullConfig,
			expect: HCL{
				Sentinel:     "__HIDDEN__",
				SettingsFile: "/var/lib/hcsecrets/settings.json",
				Providers: []*Provider{
					{
						Name:        "vault",
						DisplayName: "HashiCorp Vault",
						Properties: []Property{
							{Name: "url", DisplayName: "Vault URL", Default: "http://127.0.0.1:8200"},
							{Name: "token", Password: true, NoDataExpression: true},
						},
					},
					{
						Name:       "discord",
						Properties: []Property{{Name: "botToken", Password: true}},
					},
				},
				Discord: &Discord{
					BaseURL:         "http://localhost:9999/api/",
					RequestInterval: "500ms",
					Burst:           2,
					TokenKey:        "token",
					Redactions: []Redact{
						{Label: "ids", Match: "[0-9]{17,19}", Replace: "<ID>"},
					},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Decode("config.hcl", []byte(tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.expect, h)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name:     "syntax error",
			src:      `provider "vault" {`,
			contains: []string{"config.hcl"},
		},
		{
			name:     "unknown attribute",
			src:      `colour = "blue"`,
			contains: []string{"colour"},
		},
		{
			name: "every semantic problem is reported",
			src: `
provider "vault" {}
provider "vault" {
  property "token" {}
  property "token" {}
}
discord {
  request_interval = "soon"
  burst            = -1
  redact "bad" {
    match = "("
  }
}
`,
			contains: []string{
				`provider "vault" is declared more than once`,
				`field "token" at index 1 duplicates index 0`,
				"request_interval",
				"burst must not be negative",
				`redact "bad"`,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("config.hcl", []byte(tc.src))
			require.Error(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hcsecrets.hcl")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	h, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, h.Providers, 2)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestHCL_ProviderList(t *testing.T) {
	h, err := Decode("config.hcl", []byte(fullConfig))
	require.NoError(t, err)

	providers := h.ProviderList()
	require.Len(t, providers, 2)

	assert.Equal(t, provider.Provider{
		Name:        "vault",
		DisplayName: "HashiCorp Vault",
		Properties: []provider.Property{
			{Name: "url", DisplayName: "Vault URL", Type: "string", Default: record.String("http://127.0.0.1:8200")},
			{Name: "token", DisplayName: "token", Type: "string", Default: record.Null(), Password: true, NoDataExpression: true},
		},
	}, providers[0])
	assert.Equal(t, "discord", providers[1].DisplayName)
}

func TestHCL_Defaults(t *testing.T) {
	var h HCL
	assert.Equal(t, DefaultSettingsFile, h.SettingsPath())
	assert.Equal(t, redact.DefaultSentinel, h.Engine().Sentinel())

	providerName, key := h.Discord.TokenSource()
	assert.Equal(t, DefaultDiscordProvider, providerName)
	assert.Equal(t, DefaultDiscordTokenKey, key)

	cfg, err := h.Discord.ClientConfig("tok")
	require.NoError(t, err)
	assert.Equal(t, client.DiscordConfig{Token: "tok", Interval: client.DefaultInterval}, cfg)
}

func TestDiscord_ClientConfig(t *testing.T) {
	h, err := Decode("config.hcl", []byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/hcsecrets/settings.json", h.SettingsPath())
	assert.Equal(t, "__HIDDEN__", h.Engine().Sentinel())

	cfg, err := h.Discord.ClientConfig("tok")
	require.NoError(t, err)
	assert.Equal(t, client.DiscordConfig{
		BaseURL:  "http://localhost:9999/api/",
		Token:    "tok",
		Interval: 500 * time.Millisecond,
		Burst:    2,
	}, cfg)

	providerName, key := h.Discord.TokenSource()
	assert.Equal(t, "discord", providerName)
	assert.Equal(t, "token", key)

	patterns, err := MapRedacts(h.Discord.Redactions)
	require.NoError(t, err)
	out, err := redact.String("channel 123456789012345678", patterns)
	require.NoError(t, err)
	assert.Equal(t, "channel <ID>", out)
}
