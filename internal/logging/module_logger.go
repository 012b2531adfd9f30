package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const rootModule = "sitecms"

// Module names handed to the logger provider.
const (
	ModulePosts         = "sitecms.posts"
	ModuleCareers       = "sitecms.careers"
	ModulePortfolio     = "sitecms.portfolio"
	ModuleMessages      = "sitecms.messages"
	ModuleNotifications = "sitecms.notifications"
	ModuleUsers         = "sitecms.users"
	ModuleActivity      = "sitecms.activity"
	ModuleTranslations  = "sitecms.translations"
	ModuleContent       = "sitecms.content"
	ModuleNewsletter    = "sitecms.newsletter"
	ModuleDashboard     = "sitecms.dashboard"
	ModuleCommands      = "sitecms.commands"
	ModuleHTTP          = "sitecms.http"
	ModuleStore         = "sitecms.store"
	ModuleMarkdown      = "sitecms.markdown"
)

// ModuleLogger returns the logger for module tagged with a "module" field.
// Without a provider it returns NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// RootLogger returns the top-level sitecms logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger   { return n }
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
