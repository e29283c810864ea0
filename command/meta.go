// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package command implements the hcsecrets subcommands on top of mitchellh/cli.
package command

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp/hcsecrets/hcl"
	"github.com/hashicorp/hcsecrets/provider"
)

const (
	// EnvConfig names the HCL configuration file used when -config is not given.
	EnvConfig = "HCSECRETS_CONFIG"

	configUsageText = "Path to the HCL configuration file declaring providers. Defaults to $HCSECRETS_CONFIG."
)

// meta holds what every provider-facing command shares: the UI, the flag set and the configuration path.
type meta struct {
	ui    cli.Ui
	flags *flag.FlagSet

	config string
}

func (m *meta) initFlags(name string) {
	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	m.flags = flag.NewFlagSet(name, flag.ContinueOnError)
	m.flags.StringVar(&m.config, "config", os.Getenv(EnvConfig), configUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	m.flags.SetOutput(io.Discard)
}

// parse parses args and checks that exactly nargs positional arguments remain.
func (m *meta) parse(args []string, nargs int, help string) ([]string, bool) {
	if err := m.flags.Parse(args); err != nil {
		m.ui.Warn(err.Error())
		m.ui.Warn(help)
		return nil, false
	}
	rest := m.flags.Args()
	if len(rest) != nargs {
		m.ui.Warn("Incorrect number of arguments.")
		m.ui.Warn(help)
		return nil, false
	}
	return rest, true
}

// env is everything a command needs to work with providers.
type env struct {
	l       hclog.Logger
	cfg     hcl.HCL
	manager *provider.Manager
	service *provider.Service
}

// load reads the configuration and the settings file and wires the registry and service together.
func (m *meta) load() (*env, error) {
	l := configureLogging("hcsecrets")

	var cfg hcl.HCL
	if m.config != "" {
		var err error
		cfg, err = hcl.Parse(m.config)
		if err != nil {
			l.Error("Failed to load configuration", "config", m.config, "error", err)
			return nil, err
		}
	}

	store := provider.NewFileStore(cfg.SettingsPath())
	manager, err := provider.NewManager(l, cfg.ProviderList(), store)
	if err != nil {
		l.Error("Failed to load provider settings", "settings", store.Path, "error", err)
		return nil, err
	}

	return &env{
		l:       l,
		cfg:     cfg,
		manager: manager,
		service: provider.NewService(l, manager, manager, cfg.Engine()),
	}, nil
}

// outputJSON writes v to the UI as indented JSON.
func (m *meta) outputJSON(v interface{}) int {
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		m.ui.Error(err.Error())
		return OutputError
	}
	m.ui.Output(string(bts))
	return Success
}

// providerError reports err and maps it to a return code.
func (m *meta) providerError(err error) int {
	m.ui.Error(err.Error())
	if provider.IsProviderNotFound(err) {
		return NotFoundError
	}
	return ConfigError
}

func configureLogging(loggerName string) hclog.Logger {
	// Create logger, set default and log level
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name: loggerName,
	})
	hclog.SetDefault(appLogger)
	if logStr := os.Getenv("LOG_LEVEL"); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			appLogger.SetLevel(level)
			appLogger.Debug("Logger configuration change", "LOG_LEVEL", hclog.Fmt("%s", logStr))
		}
	}
	return hclog.Default()
}
