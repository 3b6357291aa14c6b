package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Editor.Locale = strings.TrimSpace(c.Editor.Locale)
	if c.Editor.Locale == "" {
		c.Editor.Locale = defaultLocale
	}
	c.normalizeUpload()
	if err := c.normalizeMedia(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeUpload() {
	seen := make(map[string]bool)
	types := c.Upload.AcceptedTypes[:0]
	for _, t := range c.Upload.AcceptedTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "image/jpg" {
			t = "image/jpeg"
		}
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	c.Upload.AcceptedTypes = types
	c.Upload.ContainerID = strings.TrimSpace(c.Upload.ContainerID)
}

func (c *Config) normalizeMedia() error {
	if strings.TrimSpace(c.Media.Dir) == "" {
		c.Media.Dir = defaultMediaDir
	}
	var err error
	if c.Media.Dir, err = expandPath(c.Media.Dir); err != nil {
		return fmt.Errorf("media.dir: %w", err)
	}
	c.Media.BaseURL = strings.TrimSpace(c.Media.BaseURL)
	if c.Media.BaseURL == "" {
		c.Media.BaseURL = defaultBaseURL
	}
	if !strings.HasSuffix(c.Media.BaseURL, "/") {
		c.Media.BaseURL += "/"
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "text" {
		format = "console"
	}
	c.Logging.Format = format
}
