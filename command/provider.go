// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"github.com/mitchellh/cli"
)

var _ cli.Command = &ProviderCommand{}

// ProviderCommand prints one provider with its settings redacted.
type ProviderCommand struct {
	meta
}

func NewProviderCommand(ui cli.Ui) *ProviderCommand {
	c := &ProviderCommand{meta: meta{ui: ui}}
	c.initFlags("provider")
	return c
}

// ProviderCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func ProviderCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewProviderCommand(ui), nil
	}
}

func (c *ProviderCommand) Help() string {
	helpText := `Usage: hcsecrets provider [options] NAME

Prints a secrets provider, its properties and its current settings as JSON. Password properties and OAuth
token data are replaced by a placeholder; submitting the placeholder back with "hcsecrets save" keeps
the stored value.
`
	return Usage(helpText, c.flags, argument{name: "NAME", usage: "Name of the provider, as declared in the configuration file."})
}

func (c *ProviderCommand) Synopsis() string {
	return "Show a secrets provider with redacted settings"
}

func (c *ProviderCommand) Run(args []string) int {
	rest, ok := c.parse(args, 1, c.Help())
	if !ok {
		return FlagParseError
	}

	e, err := c.load()
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	resp, err := e.service.GetProvider(rest[0])
	if err != nil {
		return c.providerError(err)
	}
	return c.outputJSON(resp)
}
