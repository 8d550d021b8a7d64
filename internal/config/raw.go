package config

// RawConfig mirrors Config with optional fields so that keys missing from
// the file keep their defaults.
type RawConfig struct {
	Display    *RawDisplayConfig `yaml:"display"`
	Limits     *RawLimits        `yaml:"limits"`
	Rebuild    *string           `yaml:"rebuild"`
	LogLevel   *string           `yaml:"log_level"`
	Logging    *RawLoggingConfig `yaml:"logging"`
	SocketPath *string           `yaml:"socket_path"`
}

type RawDisplayConfig struct {
	Backend *string `yaml:"backend"`
	Device  *string `yaml:"device"`
	Width   *int    `yaml:"width"`
	Height  *int    `yaml:"height"`
	Scale   *int    `yaml:"scale"`
}

type RawLimits struct {
	MaxWindows      *int `yaml:"max_windows"`
	MaxCanvasPixels *int `yaml:"max_canvas_pixels"`
	MaxTreeNodes    *int `yaml:"max_tree_nodes"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// BuildEffectiveConfig overlays raw onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if d := raw.Display; d != nil {
		set(&cfg.Display.Backend, d.Backend)
		set(&cfg.Display.Device, d.Device)
		set(&cfg.Display.Width, d.Width)
		set(&cfg.Display.Height, d.Height)
		set(&cfg.Display.Scale, d.Scale)
	}
	if l := raw.Limits; l != nil {
		set(&cfg.Limits.MaxWindows, l.MaxWindows)
		set(&cfg.Limits.MaxCanvasPixels, l.MaxCanvasPixels)
		set(&cfg.Limits.MaxTreeNodes, l.MaxTreeNodes)
	}
	set(&cfg.Rebuild, raw.Rebuild)
	set(&cfg.LogLevel, raw.LogLevel)
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Enabled, l.Enabled)
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.File, l.File)
		set(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		set(&cfg.Logging.MaxFiles, l.MaxFiles)
	}
	set(&cfg.SocketPath, raw.SocketPath)
	return cfg
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
