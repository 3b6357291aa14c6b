package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Every error it returns
// wraps ErrInvalid.
func (c *Config) Validate() error {
	if len(c.Upload.AcceptedTypes) == 0 {
		return fmt.Errorf("%w: upload.accepted_types must list at least one type", ErrInvalid)
	}
	for _, t := range c.Upload.AcceptedTypes {
		if !strings.HasPrefix(t, "image/") {
			return fmt.Errorf("%w: upload.accepted_types: %q is not an image type", ErrInvalid, t)
		}
	}
	if c.Media.Dir == "" {
		return fmt.Errorf("%w: media.dir must be set", ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be one of debug, info, warn, error (got %q)", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json (got %q)", ErrInvalid, c.Logging.Format)
	}
	return nil
}
