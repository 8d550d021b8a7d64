// Package daemon assembles the compositor, display, journal and IPC server
// from the configuration and keeps them in sync with it.
package daemon

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/1broseidon/quadwm/internal/actionlog"
	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/compositor"
	"github.com/1broseidon/quadwm/internal/config"
	"github.com/1broseidon/quadwm/internal/display"
	"github.com/1broseidon/quadwm/internal/ipc"
	"github.com/1broseidon/quadwm/internal/runtimepath"
	"github.com/1broseidon/quadwm/internal/window"
)

// Daemon owns every long-lived component.
type Daemon struct {
	mu         sync.Mutex
	configPath string
	cfg        *config.Config
	device     display.Device
	comp       *compositor.Compositor
	server     *ipc.Server
	journal    *actionlog.Logger
	level      *slog.LevelVar
	logger     *slog.Logger
	pidPath    string
}

// New loads configPath (missing file means defaults), opens the display
// and prepares the IPC server. Nothing listens until Start.
func New(configPath string) (*Daemon, error) {
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mode := modeFor(cfg)
	dev, err := display.Open(display.Options{
		Backend: cfg.Display.Backend,
		Device:  cfg.Display.Device,
		Scale:   cfg.Display.Scale,
		Mode:    mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}

	journal, err := openJournal(cfg)
	if err != nil {
		dev.Close()
		return nil, err
	}

	comp := compositor.New(dev, mode, compositor.Options{
		Limits: limitsFor(cfg),
		Policy: compositor.Policy(cfg.Rebuild),
		Logger: logger.With("component", "compositor"),
	})

	d := &Daemon{
		configPath: configPath,
		cfg:        cfg,
		device:     dev,
		comp:       comp,
		journal:    journal,
		level:      level,
		logger:     logger,
	}

	server, err := ipc.NewServer(comp, ipc.ServerOptions{
		SocketPath: cfg.SocketPath,
		Backend:    cfg.Display.Backend,
		Journal:    journal,
		Reload:     d.Reload,
	})
	if err != nil {
		d.Close()
		return nil, err
	}
	d.server = server
	return d, nil
}

// Compositor returns the daemon's compositor.
func (d *Daemon) Compositor() *compositor.Compositor { return d.comp }

// SocketPath returns the IPC socket path.
func (d *Daemon) SocketPath() string { return d.server.SocketPath() }

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Start paints the empty display, starts the IPC server and records the
// pid file.
func (d *Daemon) Start() error {
	if err := d.comp.Refresh(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}
	if err := d.server.Start(); err != nil {
		return err
	}
	if path, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			log.Printf("Warning: failed to write pid file: %v", err)
		} else {
			d.pidPath = path
		}
	}
	log.Printf("quadwm daemon started (backend: %s, rebuild: %s)", d.cfg.Display.Backend, d.cfg.Rebuild)
	return nil
}

// Run watches the config file until ctx is cancelled. Watcher failures are
// logged and leave RELOAD and SIGHUP as the only reload paths.
func (d *Daemon) Run(ctx context.Context) {
	w := &ConfigWatcher{
		Path: d.configPath,
		OnChange: func() {
			if err := d.Reload(); err != nil {
				log.Printf("Config reload failed: %v", err)
			}
		},
		Logger: d.logger.With("component", "watcher"),
	}
	if err := w.Run(ctx); err != nil {
		d.logger.Warn("config watcher disabled", "error", err)
		<-ctx.Done()
	}
}

// Reload re-reads the config file and applies what can change at runtime:
// limits, rebuild policy, log level and the journal. Display changes need a
// restart.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	next := res.Config

	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.cfg

	if next.Display != prev.Display {
		log.Printf("Display settings changed; restart the daemon to apply them")
	}
	if next.SocketPath != prev.SocketPath {
		log.Printf("socket_path changed; restart the daemon to apply it")
	}
	if next.Logging != prev.Logging {
		journal, err := openJournal(next)
		if err != nil {
			return err
		}
		d.server.SetJournal(journal)
		d.journal.Close()
		d.journal = journal
	}

	d.level.Set(ParseLevel(next.LogLevel))
	d.comp.SetLimits(limitsFor(next))
	d.comp.SetPolicy(compositor.Policy(next.Rebuild))

	// Keep Display and SocketPath as running so a later reload still warns.
	next.Display = prev.Display
	next.SocketPath = prev.SocketPath
	d.cfg = next

	log.Println("Config reloaded successfully")
	return d.comp.Refresh()
}

// Close stops the server and releases the display.
func (d *Daemon) Close() {
	if d.server != nil {
		d.server.Stop()
	}
	if d.pidPath != "" {
		os.Remove(d.pidPath)
	}
	d.journal.Close()
	if d.device != nil {
		if err := d.device.Close(); err != nil {
			log.Printf("Failed to close display: %v", err)
		}
	}
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func modeFor(cfg *config.Config) display.Mode {
	return display.Mode{Width: cfg.Display.Width, Height: cfg.Display.Height, Colors: colors.Usable}
}

func limitsFor(cfg *config.Config) window.Limits {
	return window.Limits{
		MaxWindows:      cfg.Limits.MaxWindows,
		MaxCanvasPixels: cfg.Limits.MaxCanvasPixels,
		MaxTreeNodes:    cfg.Limits.MaxTreeNodes,
	}
}

func openJournal(cfg *config.Config) (*actionlog.Logger, error) {
	lc := cfg.GetLoggingConfig()
	journal, err := actionlog.NewLogger(actionlog.LogConfig{
		Enabled:   lc.Enabled,
		Level:     actionlog.ParseLogLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open command journal: %w", err)
	}
	return journal, nil
}
