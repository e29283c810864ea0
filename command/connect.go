// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"

	"github.com/mitchellh/cli"
)

var _ cli.Command = &ConnectCommand{}

// ConnectCommand marks a provider as connected or disconnected.
type ConnectCommand struct {
	meta

	disconnect bool
}

func NewConnectCommand(ui cli.Ui) *ConnectCommand {
	c := &ConnectCommand{meta: meta{ui: ui}}
	c.initFlags("connect")
	c.flags.BoolVar(&c.disconnect, "disconnect", false, "Mark the provider as disconnected instead")
	return c
}

// ConnectCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func ConnectCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewConnectCommand(ui), nil
	}
}

func (c *ConnectCommand) Help() string {
	helpText := `Usage: hcsecrets connect [options] NAME

Marks a secrets provider as connected and records the time. Use -disconnect to clear it.
`
	return Usage(helpText, c.flags, argument{name: "NAME", usage: "Name of the provider, as declared in the configuration file."})
}

func (c *ConnectCommand) Synopsis() string {
	return "Connect or disconnect a secrets provider"
}

func (c *ConnectCommand) Run(args []string) int {
	rest, ok := c.parse(args, 1, c.Help())
	if !ok {
		return FlagParseError
	}
	name := rest[0]

	e, err := c.load()
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	if err := e.manager.SetConnected(context.Background(), name, !c.disconnect); err != nil {
		if code := c.providerError(err); code == NotFoundError {
			return code
		}
		return SaveError
	}

	state := "connected"
	if c.disconnect {
		state = "disconnected"
	}
	c.ui.Output(fmt.Sprintf("Provider %q is now %s.", name, state))
	return Success
}
