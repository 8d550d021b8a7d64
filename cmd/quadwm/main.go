package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/quadwm/internal/config"
	"github.com/1broseidon/quadwm/internal/daemon"
	"github.com/1broseidon/quadwm/internal/ipc"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "create":
		os.Exit(runCreate(os.Args[2:]))
	case "pixel":
		os.Exit(runPixel(os.Args[2:]))
	case "line":
		os.Exit(runLine(os.Args[2:]))
	case "text":
		os.Exit(runText(os.Args[2:]))
	case "raise":
		os.Exit(runRaise(os.Args[2:]))
	case "occluded":
		os.Exit(runOccluded(os.Args[2:]))
	case "snapshot":
		os.Exit(runSnapshot(os.Args[2:]))
	case "view":
		os.Exit(runView(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quadwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the compositor daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status and counters")
	fmt.Fprintln(w, "  reload              Ask the daemon to re-read its config")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  create              Create a window")
	fmt.Fprintln(w, "  pixel               Draw a pixel into a window canvas")
	fmt.Fprintln(w, "  line                Draw a line into a window canvas")
	fmt.Fprintln(w, "  text                Draw text into a window canvas")
	fmt.Fprintln(w, "  raise               Bring a window to the front")
	fmt.Fprintln(w, "  windows             List windows front to back")
	fmt.Fprintln(w, "  occluded            Query whether a window pixel is covered")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  snapshot            Save the display as a PNG")
	fmt.Fprintln(w, "  view                Show the display live in the terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config path         Print the default config path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'quadwm <command> --help' for command-specific options.")
}

// parseFlags runs fs.Parse and maps its outcome to an exit code; ok is false
// when the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// newClient picks the socket from the flag, then from the config file, then
// the runtime default.
func newClient(socket string) *ipc.Client {
	if socket != "" {
		return ipc.NewClientWithSocket(socket)
	}
	if cfg, err := config.Load(); err == nil && cfg.SocketPath != "" {
		return ipc.NewClientWithSocket(cfg.SocketPath)
	}
	return ipc.NewClient()
}

func socketFlag(fs *flag.FlagSet) *string {
	return fs.String("socket", "", "Daemon socket path (default: socket_path from config, then $XDG_RUNTIME_DIR/quadwm.sock)")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/quadwm/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the compositor in the foreground. SIGHUP reloads the config.")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		configPath = p
	}

	d, err := daemon.New(configPath)
	if err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}
	if err := d.Start(); err != nil {
		d.Close()
		log.Fatalf("Failed to start daemon: %v", err)
	}
	log.Printf("Listening on %s", d.SocketPath())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			log.Println("Received SIGHUP, reloading config...")
			if err := d.Reload(); err != nil {
				log.Printf("Config reload failed: %v", err)
				continue
			}
			log.Println("Config reloaded successfully")
		case os.Interrupt, syscall.SIGTERM:
			log.Println("Shutting down quadwm daemon...")
			cancel()
			d.Close()
			return 0
		}
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm status [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := newClient(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("display:        %dx%d\n", status.Width, status.Height)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("windows:        %d\n", status.Stats.Windows)
	fmt.Printf("rebuild_policy: %s\n", status.Stats.Policy)
	fmt.Printf("commands:       %d (%d no-op)\n", status.Stats.Commands, status.Stats.NoOps)
	fmt.Printf("rebuilds:       %d (last %s)\n", status.Stats.Rebuilds, status.Stats.LastRebuild)
	fmt.Printf("renders:        %d (last %s)\n", status.Stats.Renders, status.Stats.LastRender)
	fmt.Printf("pixels_written: %d\n", status.Stats.PixelsWritten)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := newClient(*socket).Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}

func loadForCommand(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  quadwm config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  quadwm config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  quadwm config explain [--path PATH] <yaml.path>")
		fmt.Fprintln(os.Stderr, "  quadwm config path")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quadwm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadForCommand(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quadwm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadForCommand(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quadwm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadForCommand(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	case "path":
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(p)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
