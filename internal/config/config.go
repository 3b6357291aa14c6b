package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Editor contains settings of the editing surface.
type Editor struct {
	Locale string `toml:"locale"`
}

// Upload contains settings of the upload orchestrator.
type Upload struct {
	AcceptedTypes []string `toml:"accepted_types"`
	WantCaption   bool     `toml:"want_caption"`
	ContainerID   string   `toml:"container_id"`
}

// Media contains settings of the local media store.
type Media struct {
	Dir     string `toml:"dir"`
	BaseURL string `toml:"base_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console, json, or empty for auto
}

// Config encapsulates all configuration values for chipedit.
type Config struct {
	Editor  Editor  `toml:"editor"`
	Upload  Upload  `toml:"upload"`
	Media   Media   `toml:"media"`
	Logging Logging `toml:"log"`
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// DefaultPath returns the absolute path of the default configuration file.
func DefaultPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. A missing file yields the defaults. The returned config is
// normalized and validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the media directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Media.Dir, 0o755); err != nil {
		return fmt.Errorf("create media directory %q: %w", c.Media.Dir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
