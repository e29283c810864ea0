// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/hcsecrets/provider"
)

var _ cli.Command = &ProvidersCommand{}

// ProvidersCommand lists every registered provider and whether it is connected.
type ProvidersCommand struct {
	meta

	json bool
}

func NewProvidersCommand(ui cli.Ui) *ProvidersCommand {
	c := &ProvidersCommand{meta: meta{ui: ui}}
	c.initFlags("providers")
	c.flags.BoolVar(&c.json, "json", false, "Print the provider list as JSON instead of a table")
	return c
}

// ProvidersCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func ProvidersCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewProvidersCommand(ui), nil
	}
}

func (c *ProvidersCommand) Help() string {
	helpText := `Usage: hcsecrets providers [options]

Lists the secrets providers declared in the configuration file, with their connection state.
`
	return Usage(helpText, c.flags)
}

func (c *ProvidersCommand) Synopsis() string {
	return "List secrets providers"
}

func (c *ProvidersCommand) Run(args []string) int {
	if _, ok := c.parse(args, 0, c.Help()); !ok {
		return FlagParseError
	}

	e, err := c.load()
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	summaries := e.service.GetProviders()
	if c.json {
		return c.outputJSON(summaries)
	}

	table, err := formatSummaries(summaries)
	if err != nil {
		c.ui.Error(err.Error())
		return OutputError
	}
	c.ui.Output(table)
	return Success
}

func formatSummaries(summaries []provider.ProviderSummary) (string, error) {
	buf := new(bytes.Buffer)
	t := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(t, "NAME\tDISPLAY NAME\tCONNECTED\tCONNECTED AT"); err != nil {
		return "", err
	}
	for _, s := range summaries {
		connectedAt := "-"
		if s.ConnectedAt != nil {
			connectedAt = s.ConnectedAt.UTC().Format(time.RFC3339)
		}
		row := strings.Join([]string{s.Name, s.DisplayName, strconv.FormatBool(s.Connected), connectedAt}, "\t")
		if _, err := fmt.Fprintln(t, row); err != nil {
			return "", err
		}
	}
	if err := t.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
