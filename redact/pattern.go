// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DefaultReplace is written in place of a pattern match when a Pattern is built without a replacement.
const DefaultReplace = "<REDACTED>"

// Pattern scrubs free text, such as error messages and response bodies, of anything its matcher finds.
// It complements Engine, which works on structured settings rather than text.
type Pattern struct {
	ID      string `json:"ID"`
	matcher *regexp.Regexp
	Replace string `json:"replace"`
}

// NewPattern compiles matcher into a ready-to-use Pattern. ID and replace are optional and can be left empty.
func NewPattern(matcher, id, replace string) (*Pattern, error) {
	re, err := regexp.Compile(matcher)
	if err != nil {
		return nil, err
	}
	if id == "" {
		genID := md5.Sum([]byte(matcher))
		id = fmt.Sprintf("%x", genID)
	}
	if replace == "" {
		replace = DefaultReplace
	}
	return &Pattern{ID: id, matcher: re, Replace: replace}, nil
}

// Literal builds a Pattern that matches secret verbatim. Empty secrets produce a nil Pattern, which every
// function in this file skips.
func Literal(secret string) *Pattern {
	if secret == "" {
		return nil
	}
	p, _ := NewPattern(regexp.QuoteMeta(secret), "", "")
	return p
}

func (p Pattern) Apply(w io.Writer, r io.Reader) error {
	return ApplyPatterns([]*Pattern{&p}, w, r)
}

// ApplyPatterns reads everything from r, applies patterns in order and writes the result to w. Patterns that
// appear earlier take precedence, and a later matcher can match the Replace text of an earlier one.
func ApplyPatterns(patterns []*Pattern, w io.Writer, r io.Reader) error {
	bts, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bts) != 0 {
		for _, p := range patterns {
			if p == nil {
				continue
			}
			bts = p.matcher.ReplaceAll(bts, []byte(p.Replace))
		}
	}
	_, err = w.Write(bts)
	return err
}

// String applies patterns to s and returns the scrubbed string.
func String(s string, patterns []*Pattern) (string, error) {
	buf := new(bytes.Buffer)
	if err := ApplyPatterns(patterns, buf, strings.NewReader(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Flatten joins several pattern slices into one, preserving order and dropping nil entries.
func Flatten(patterns ...[]*Pattern) []*Pattern {
	out := make([]*Pattern, 0)
	for _, ps := range patterns {
		for _, p := range ps {
			if p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}
