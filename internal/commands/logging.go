package commands

import (
	"strings"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// CommandLogger returns the module logger for the command handlers of group,
// e.g. "sitecms.commands.bulk".
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		return logging.ModuleLogger(provider, logging.ModuleCommands)
	}
	logger := logging.ModuleLogger(provider, logging.ModuleCommands+"."+group)
	return logging.WithFields(logger, map[string]any{"command_group": group})
}
