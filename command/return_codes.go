// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError indicates that there was an error in the hcsecrets configuration or the settings file.
	ConfigError

	// InputError indicates that data submitted to the command could not be read or decoded.
	InputError

	// OutputError indicates an error encoding or writing the command's output.
	OutputError
)

// The following error group is intended for issues with providers and their settings.
const (
	// NotFoundError is returned when the requested provider is not registered.
	NotFoundError int = iota + 32

	// SaveError is returned when submitted settings could not be restored or persisted.
	SaveError

	// RequestError is returned when a request to a third-party API fails.
	RequestError
)
