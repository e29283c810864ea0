// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/hcsecrets/command"
	"github.com/hashicorp/hcsecrets/version"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("hcsecrets", version.GetVersion().SemanticVersion())
	c.Args = args
	c.Commands = commands(ui)

	exitStatus, err := c.Run()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitStatus
}

func commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"providers": command.ProvidersCommandFactory(ui),
		"provider":  command.ProviderCommandFactory(ui),
		"save":      command.SaveCommandFactory(ui),
		"connect":   command.ConnectCommandFactory(ui),
		"discord":   command.DiscordCommandFactory(ui),
		"version":   command.VersionCommandFactory(ui),
	}
}
