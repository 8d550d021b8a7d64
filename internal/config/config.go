package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by display.backend.
const (
	BackendMemory = "memory"
	BackendFBDev  = "fbdev"
	BackendX11    = "x11"
)

// Rebuild policies accepted by the rebuild key.
const (
	RebuildTopology = "topology"
	RebuildAlways   = "always"
)

const (
	DefaultWidth           = 320
	DefaultHeight          = 200
	DefaultMaxWindows      = 64
	DefaultMaxCanvasPixels = DefaultWidth * DefaultHeight
	DefaultMaxTreeNodes    = 1 << 16
)

// DisplayConfig selects and sizes the output device.
type DisplayConfig struct {
	// Backend is one of memory, fbdev, x11.
	Backend string `yaml:"backend"`
	// Device is the framebuffer device node (fbdev only).
	Device string `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Scale is the integer zoom of the X11 preview window. 0 fits the
	// window to the smallest attached monitor.
	Scale int `yaml:"scale"`
}

// Limits bounds what clients can allocate. Zero means unlimited.
type Limits struct {
	MaxWindows      int `yaml:"max_windows"`
	MaxCanvasPixels int `yaml:"max_canvas_pixels"`
	MaxTreeNodes    int `yaml:"max_tree_nodes"`
}

// LoggingConfig configures the command journal.
type LoggingConfig struct {
	// Enabled turns journaling on/off
	Enabled bool `yaml:"enabled"`
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the journal path (default: ~/.local/share/quadwm/commands.log)
	File string `yaml:"file"`
	// MaxSizeMB is the maximum file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files"`
}

// Config is the effective daemon configuration.
type Config struct {
	Display    DisplayConfig `yaml:"display"`
	Limits     Limits        `yaml:"limits"`
	Rebuild    string        `yaml:"rebuild"`
	LogLevel   string        `yaml:"log_level"`
	Logging    LoggingConfig `yaml:"logging"`
	SocketPath string        `yaml:"socket_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Backend: BackendMemory,
			Device:  "/dev/fb0",
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Scale:   3,
		},
		Limits: Limits{
			MaxWindows:      DefaultMaxWindows,
			MaxCanvasPixels: DefaultMaxCanvasPixels,
			MaxTreeNodes:    DefaultMaxTreeNodes,
		},
		Rebuild:  RebuildTopology,
		LogLevel: "info",
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/quadwm/commands.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates c and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Display.Backend {
	case BackendMemory, BackendFBDev, BackendX11:
	default:
		return &ValidationError{Path: "display.backend", Err: fmt.Errorf("backend must be one of: memory, fbdev, x11")}
	}
	if c.Display.Backend == BackendFBDev && strings.TrimSpace(c.Display.Device) == "" {
		return &ValidationError{Path: "display.device", Err: fmt.Errorf("device is required for the fbdev backend")}
	}
	if c.Display.Width <= 0 {
		return &ValidationError{Path: "display.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Display.Height <= 0 {
		return &ValidationError{Path: "display.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Display.Scale < 0 || c.Display.Scale > 16 {
		return &ValidationError{Path: "display.scale", Err: fmt.Errorf("scale must be between 0 and 16")}
	}
	if c.Limits.MaxWindows < 0 {
		return &ValidationError{Path: "limits.max_windows", Err: fmt.Errorf("max_windows must be >= 0")}
	}
	if c.Limits.MaxCanvasPixels < 0 {
		return &ValidationError{Path: "limits.max_canvas_pixels", Err: fmt.Errorf("max_canvas_pixels must be >= 0")}
	}
	if c.Limits.MaxTreeNodes < 0 {
		return &ValidationError{Path: "limits.max_tree_nodes", Err: fmt.Errorf("max_tree_nodes must be >= 0")}
	}
	if c.Rebuild != RebuildTopology && c.Rebuild != RebuildAlways {
		return &ValidationError{Path: "rebuild", Err: fmt.Errorf("rebuild must be one of: topology, always")}
	}
	if !validLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.Level != "" && !validLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
