// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// maxLineLength is the maximum width of any line.
const maxLineLength int = 72

// argument documents a positional argument of a command.
type argument struct {
	name  string
	usage string
}

// Usage renders the help text for a command: its usage slug, positional arguments and flags.
func Usage(txt string, flags *flag.FlagSet, args ...argument) string {
	u := &usager{
		usage: txt,
		args:  args,
		flags: flags,
	}
	return u.String()
}

type usager struct {
	usage string
	args  []argument
	flags *flag.FlagSet
}

func (u *usager) String() string {
	out := new(bytes.Buffer)

	out.WriteString(strings.TrimSpace(u.usage))
	out.WriteString("\n\n")

	if len(u.args) > 0 {
		printTitle(out, "Arguments")
		for _, a := range u.args {
			_, _ = fmt.Fprintf(out, "  %s\n%s\n\n", a.name, wrapAtLength(a.usage, 5))
		}
	}

	if u.flags != nil {
		printTitle(out, "Command Options")
		u.flags.VisitAll(func(f *flag.Flag) {
			printFlag(out, f)
		})
	}

	return strings.TrimRight(out.String(), "\n")
}

// printTitle prints a consistently-formatted title to the given writer.
func printTitle(w io.Writer, s string) {
	_, _ = fmt.Fprintf(w, "%s\n\n", s)
}

// printFlag prints a single flag, with its default when it has one.
func printFlag(w io.Writer, f *flag.Flag) {
	if f.DefValue != "" && f.DefValue != "false" {
		_, _ = fmt.Fprintf(w, "  -%s=%s\n", f.Name, f.DefValue)
	} else {
		_, _ = fmt.Fprintf(w, "  -%s\n", f.Name)
	}

	_, _ = fmt.Fprintf(w, "%s\n\n", wrapAtLength(f.Usage, 5))
}

// wrapAtLength wraps the given text at the maxLineLength, taking into account
// any provided left padding.
func wrapAtLength(s string, pad int) string {
	wrapped := text.Wrap(s, maxLineLength-pad)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
