// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/hcsecrets/provider"
	"github.com/hashicorp/hcsecrets/record"
)

var _ cli.Command = &SaveCommand{}

// SaveCommand persists submitted provider settings, restoring every redacted value from the stored copy.
type SaveCommand struct {
	meta

	data  string
	stdin io.Reader
}

func NewSaveCommand(ui cli.Ui) *SaveCommand {
	c := &SaveCommand{meta: meta{ui: ui}, stdin: os.Stdin}
	c.initFlags("save")
	c.flags.StringVar(&c.data, "data", "-", `Path to a JSON file with the new settings, or "-" to read standard input`)
	return c
}

// SaveCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func SaveCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewSaveCommand(ui), nil
	}
}

func (c *SaveCommand) Help() string {
	helpText := `Usage: hcsecrets save [options] NAME

Saves new settings for a secrets provider. The input is a JSON object, usually the "data" field printed
by "hcsecrets provider" after editing. Values still equal to the redaction placeholder are replaced by
the stored values; everything else is saved as submitted.
`
	return Usage(helpText, c.flags, argument{name: "NAME", usage: "Name of the provider, as declared in the configuration file."})
}

func (c *SaveCommand) Synopsis() string {
	return "Save secrets provider settings"
}

func (c *SaveCommand) Run(args []string) int {
	rest, ok := c.parse(args, 1, c.Help())
	if !ok {
		return FlagParseError
	}
	name := rest[0]

	data, err := c.readData()
	if err != nil {
		c.ui.Error(err.Error())
		return InputError
	}

	e, err := c.load()
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	if err := e.service.SaveProviderSettings(context.Background(), name, data); err != nil {
		if provider.IsProviderNotFound(err) {
			return c.providerError(err)
		}
		e.l.Error("Failed to save provider settings", "provider", name, "error", err)
		c.ui.Error(err.Error())
		return SaveError
	}

	c.ui.Output(fmt.Sprintf("Saved settings for provider %q.", name))
	return Success
}

func (c *SaveCommand) readData() (record.Record, error) {
	var r io.Reader
	if c.data == "-" {
		r = c.stdin
	} else {
		f, err := os.Open(c.data)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var data record.Record
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("decoding settings: expected a JSON object")
	}
	return data, nil
}
