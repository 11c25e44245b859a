//go:build tools

// Package tools pins the code generators behind go:generate: enumer for the
// platform, install state and log level enums, mockgen for the command
// runner, prompter, presence checker, strategy and GitHub client mocks.
package tools

import (
	_ "github.com/dmarkham/enumer"
	_ "go.uber.org/mock/mockgen"
)
