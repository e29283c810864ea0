// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

// https://discord.com/developers/docs/reference

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	home "github.com/mitchellh/go-homedir"
)

const (
	DefaultDiscordBaseURL = "https://discord.com/api/v10/"

	EnvDiscordBotToken   = "DISCORD_BOT_TOKEN"
	EnvDiscordCaCert     = "DISCORD_CACERT"
	EnvDiscordCaPath     = "DISCORD_CAPATH"
	EnvDiscordSkipVerify = "DISCORD_SKIP_VERIFY"

	discordTokenFile = "~/.discord-token"
)

// DiscordConfig configures NewDiscordAPI. Zero values fall back to the defaults.
type DiscordConfig struct {
	BaseURL  string
	Token    string
	Interval time.Duration
	Burst    int
}

// NewDiscordAPI returns an APIClient for the Discord REST API that authenticates as a bot.
func NewDiscordAPI(cfg DiscordConfig, l hclog.Logger) (*APIClient, error) {
	token, err := DiscordToken(cfg.Token)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultDiscordBaseURL
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	tlsConfig, err := NewDiscordTLSConfig()
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Authorization": "Bot " + token,
	}
	return NewAPIClient(APIConfig{
		Product:   "discord",
		BaseURL:   baseURL,
		TLSConfig: *tlsConfig,
		Interval:  interval,
		Burst:     cfg.Burst,
	}, headers, l)
}

// DiscordToken resolves the bot token from, in order: explicit, the DISCORD_BOT_TOKEN environment
// variable, and ~/.discord-token.
func DiscordToken(explicit string) (string, error) {
	token := strings.TrimSpace(explicit)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(EnvDiscordBotToken))
	}
	if token == "" {
		if path, err := home.Expand(discordTokenFile); err == nil {
			if bts, err := os.ReadFile(path); err == nil {
				token = strings.TrimSpace(string(bts))
			}
		}
	}
	if token == "" {
		return "", errors.New("unable to find a Discord bot token in settings, DISCORD_BOT_TOKEN or ~/.discord-token")
	}
	return token, nil
}

// NewDiscordTLSConfig returns a *TLSConfig object, using
// default environment variables to build up the object.
func NewDiscordTLSConfig() (*TLSConfig, error) {
	tlsConfig := TLSConfig{
		CACert: os.Getenv(EnvDiscordCaCert),
		CAPath: os.Getenv(EnvDiscordCaPath),
	}

	if v := os.Getenv(EnvDiscordSkipVerify); v != "" {
		skipVerify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		tlsConfig.Insecure = skipVerify
	}

	return &tlsConfig, nil
}
