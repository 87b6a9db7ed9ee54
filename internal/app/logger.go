package app

import (
	"strings"

	"github.com/aryasetia/doorguard/pkg/logger"
)

// ConfigureLogging initialises the global logger from the server config,
// defaulting to info level and json output.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.Init(level, format)
}

// SMTPEnabled reports whether outbound email is configured.
func (c *Config) SMTPEnabled() bool {
	return c != nil && c.Email.SMTP.Enabled
}
