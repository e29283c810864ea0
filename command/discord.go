// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/hcsecrets/client"
	"github.com/hashicorp/hcsecrets/hcl"
	"github.com/hashicorp/hcsecrets/redact"
)

var _ cli.Command = &DiscordCommand{}

var discordMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// DiscordCommand sends one rate-limited request to the Discord API as a bot.
type DiscordCommand struct {
	meta

	token string
	body  string
	query queryValues
}

func NewDiscordCommand(ui cli.Ui) *DiscordCommand {
	const (
		tokenUsageText = "Bot token to use instead of the one stored in the provider settings, DISCORD_BOT_TOKEN or ~/.discord-token"
		bodyUsageText  = "JSON request body"
		queryUsageText = "Query parameter as key=value; may be repeated"
	)
	c := &DiscordCommand{meta: meta{ui: ui}, query: queryValues{}}
	c.initFlags("discord")
	c.flags.StringVar(&c.token, "token", "", tokenUsageText)
	c.flags.StringVar(&c.body, "body", "", bodyUsageText)
	c.flags.Var(c.query, "query", queryUsageText)
	return c
}

// DiscordCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func DiscordCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewDiscordCommand(ui), nil
	}
}

func (c *DiscordCommand) Help() string {
	helpText := `Usage: hcsecrets discord [options] METHOD ENDPOINT

Sends a request to the Discord REST API and prints the JSON response. Requests are spaced by the
discord block's request_interval. The bot token is read from the settings of the provider named in the
discord block, falling back to DISCORD_BOT_TOKEN and ~/.discord-token.
`
	return Usage(helpText, c.flags,
		argument{name: "METHOD", usage: "One of GET, POST, PUT, PATCH or DELETE."},
		argument{name: "ENDPOINT", usage: "Path relative to the API base URL, e.g. channels/123/messages."},
	)
}

func (c *DiscordCommand) Synopsis() string {
	return "Send a request to the Discord API"
}

func (c *DiscordCommand) Run(args []string) int {
	rest, ok := c.parse(args, 2, c.Help())
	if !ok {
		return FlagParseError
	}
	method, endpoint := strings.ToUpper(rest[0]), rest[1]
	if !discordMethods[method] {
		c.ui.Warn(fmt.Sprintf("Unsupported method %q.", rest[0]))
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	var body interface{}
	if c.body != "" {
		if err := json.Unmarshal([]byte(c.body), &body); err != nil {
			c.ui.Error(fmt.Sprintf("decoding -body: %s", err))
			return InputError
		}
	}

	e, err := c.load()
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	patterns, err := hcl.MapRedacts(discordRedacts(e.cfg.Discord))
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	token := c.token
	if token == "" {
		token = c.storedToken(e)
	}
	clientCfg, err := e.cfg.Discord.ClientConfig(token)
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}
	api, err := client.NewDiscordAPI(clientCfg, e.l)
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	resp, err := api.Request(context.Background(), method, endpoint, body, url.Values(c.query))
	if err != nil {
		c.ui.Error(err.Error())
		return RequestError
	}
	if resp == nil {
		return Success
	}

	bts, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		c.ui.Error(err.Error())
		return OutputError
	}
	out, err := redact.String(string(bts), patterns)
	if err != nil {
		c.ui.Error(err.Error())
		return OutputError
	}
	c.ui.Output(out)
	return Success
}

// storedToken reads the bot token from the provider settings. Expressions and hidden placeholders are not
// usable tokens and are ignored.
func (c *DiscordCommand) storedToken(e *env) string {
	providerName, key := e.cfg.Discord.TokenSource()
	creds, err := e.service.Credentials(providerName)
	if err != nil {
		e.l.Debug("no stored discord credentials", "provider", providerName, "error", err)
		return ""
	}
	engine := e.cfg.Engine()
	v := creds[key]
	token, ok := v.Str()
	if !ok || engine.IsSentinel(v) || strings.HasPrefix(token, redact.ExpressionMarker) {
		return ""
	}
	return token
}

func discordRedacts(d *hcl.Discord) []hcl.Redact {
	if d == nil {
		return nil
	}
	return d.Redactions
}

// queryValues collects repeated -query key=value flags.
type queryValues url.Values

func (q queryValues) String() string {
	return url.Values(q).Encode()
}

func (q queryValues) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("query parameter %q must be key=value", v)
	}
	url.Values(q).Add(key, value)
	return nil
}
