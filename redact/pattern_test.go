// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPattern(t *testing.T) {
	tcs := []struct {
		name    string
		matcher string
		id      string
		replace string
	}{
		{
			name:    "empty optional fields",
			matcher: "/some regex/",
		},
		{
			name:    "set optional fields",
			matcher: "/some other regex/",
			id:      "COOLCOOL",
			replace: "WOWOW",
		},
	}

	for _, tc := range tcs {
		p, err := NewPattern(tc.matcher, tc.id, tc.replace)
		assert.NoError(t, err, tc.name)
		assert.NotEqual(t, "", p.ID, tc.name)
		assert.NotEqual(t, "", p.Replace, tc.name)
	}
}

func TestNewPattern_InvalidRegex(t *testing.T) {
	_, err := NewPattern("(unclosed", "", "")
	assert.Error(t, err)
}

func TestPattern_Apply(t *testing.T) {
	tcs := []struct {
		name    string
		matcher string
		input   string
		expect  string
	}{
		{
			name:    "empty input",
			matcher: "/myRegex/",
			input:   "",
			expect:  "",
		},
		{
			name:    "redacts once",
			matcher: "myRegex",
			input:   "myRegex",
			expect:  "<REDACTED>",
		},
		{
			name:    "redacts many",
			matcher: "test",
			input:   "test test_test+test-test\n!test ??test",
			expect:  "<REDACTED> <REDACTED>_<REDACTED>+<REDACTED>-<REDACTED>\n!<REDACTED> ??<REDACTED>",
		},
	}
	for _, tc := range tcs {
		p, err := NewPattern(tc.matcher, "", "")
		assert.NoError(t, err, tc.name)

		buf := new(bytes.Buffer)
		err = p.Apply(buf, strings.NewReader(tc.input))
		assert.NoError(t, err, tc.name)
		assert.Equal(t, tc.expect, buf.String(), tc.name)
	}
}

func TestApplyPatterns(t *testing.T) {
	var patterns []*Pattern
	for _, matcher := range []string{"myRegex", "test", "does not apply"} {
		patterns = append(patterns, newTestPattern(t, matcher, ""))
	}
	tcs := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "empty input",
			input:  "",
			expect: "",
		},
		{
			name:   "redacts once",
			input:  "myRegex",
			expect: "<REDACTED>",
		},
		{
			name:   "redacts many",
			input:  "test test_test+test-test\n!test ??test",
			expect: "<REDACTED> <REDACTED>_<REDACTED>+<REDACTED>-<REDACTED>\n!<REDACTED> ??<REDACTED>",
		},
	}
	for _, tc := range tcs {
		buf := new(bytes.Buffer)
		err := ApplyPatterns(patterns, buf, strings.NewReader(tc.input))
		assert.NoError(t, err, tc.name)
		assert.Equal(t, tc.expect, buf.String(), tc.name)
	}
}

func TestLiteral(t *testing.T) {
	assert.Nil(t, Literal(""))

	res, err := String("Authorization: Bot a.b+c*d", []*Pattern{Literal("a.b+c*d")})
	require.NoError(t, err)
	assert.Equal(t, "Authorization: Bot <REDACTED>", res)

	res, err = String("axbxc", []*Pattern{Literal("a.b")})
	require.NoError(t, err)
	assert.Equal(t, "axbxc", res, "regex metacharacters must be matched literally")

	res, err = String("nothing to hide", []*Pattern{Literal(""), nil})
	require.NoError(t, err)
	assert.Equal(t, "nothing to hide", res)
}

func TestFlatten(t *testing.T) {
	var nilSlice []*Pattern
	var emptySlice = []*Pattern{}
	single := []*Pattern{newTestPattern(t, "matchredact", "foobar")}
	multi := []*Pattern{
		newTestPattern(t, "foobar", "baz"),
		newTestPattern(t, "baz", "<REDACTED>"),
	}

	tcs := []struct {
		name   string
		input  [][]*Pattern
		expect []*Pattern
	}{
		{
			name:   "nil slice alone",
			input:  [][]*Pattern{nilSlice},
			expect: make([]*Pattern, 0),
		},
		{
			name:   "empty slice alone",
			input:  [][]*Pattern{emptySlice},
			expect: make([]*Pattern, 0),
		},
		{
			name:   "nil slice first",
			input:  [][]*Pattern{nilSlice, single},
			expect: single,
		},
		{
			name:   "order is preserved",
			input:  [][]*Pattern{single, multi},
			expect: []*Pattern{single[0], multi[0], multi[1]},
		},
		{
			name:   "mixed args",
			input:  [][]*Pattern{nilSlice, multi, emptySlice, single},
			expect: []*Pattern{multi[0], multi[1], single[0]},
		},
		{
			name:   "nil entries are dropped",
			input:  [][]*Pattern{{nil, single[0], nil}},
			expect: single,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Flatten(tc.input...))
		})
	}
}

func TestPatternsChain(t *testing.T) {
	patterns := []*Pattern{
		newTestPattern(t, "foobar", "baz"),
		newTestPattern(t, "baz", "<REDACTED>"),
	}
	res, err := String("foobar and baz", patterns)
	require.NoError(t, err)
	assert.Equal(t, "<REDACTED> and <REDACTED>", res)
}

// newTestPattern wraps pattern creation and fails the test if there's an error
func newTestPattern(t *testing.T, matcher string, replace string) *Pattern {
	t.Helper()
	p, err := NewPattern(matcher, "", replace)
	require.NoError(t, err, "error creating test pattern")
	return p
}
