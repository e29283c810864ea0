// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, version, v.Version)
	assert.Equal(t, prerelease, v.Prerelease)
	assert.Equal(t, gitCommit, v.Revision)
}

func TestVersion_SemanticVersion(t *testing.T) {
	testCases := []struct {
		name   string
		v      Version
		expect string
	}{
		{name: "only version", v: Version{Version: "0.0.0"}, expect: "0.0.0"},
		{name: "prerelease", v: Version{Version: "0.0.0", Prerelease: "dev"}, expect: "0.0.0-dev"},
		{name: "metadata", v: Version{Version: "0.0.0", Metadata: "build1"}, expect: "0.0.0+build1"},
		{name: "all", v: Version{Version: "0.0.0", Prerelease: "rc1", Metadata: "build1"}, expect: "0.0.0-rc1+build1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.v.SemanticVersion())
		})
	}
}

func TestVersion_FullVersionNumber(t *testing.T) {
	v := Version{Version: "1.2.3", Revision: "abc123", BuildDate: "2024-01-01"}
	assert.Equal(t, "hcsecrets v1.2.3 (abc123), built 2024-01-01", v.FullVersionNumber(true))
	assert.Equal(t, "hcsecrets v1.2.3, built 2024-01-01", v.FullVersionNumber(false))
}
