package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/daemon"
	"github.com/1broseidon/floatwin/internal/hotkeys"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/logging"
	"github.com/1broseidon/floatwin/internal/metrics"
	"github.com/1broseidon/floatwin/internal/overlay"
	"github.com/1broseidon/floatwin/internal/platform"
	"go.uber.org/zap"
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
	case "geometry":
		os.Exit(runGeometry(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "dispatch":
		os.Exit(runDispatch(os.Args[2:]))
	case "move-bar":
		os.Exit(runMoveBar(os.Args[2:]))
	case "opacity":
		os.Exit(runOpacity(os.Args[2:]))
	case "restore":
		os.Exit(runRestore(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "snap":
		os.Exit(runSnap(os.Args[2:]))
	case "replay":
		os.Exit(runReplay(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: floatwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Attach the overlay to a window (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  geometry            Show or set the window rectangle")
	fmt.Fprintln(w, "  action <name>       Run an action (move-bar, close, transparency, minimize, maximize, ...)")
	fmt.Fprintln(w, "  dispatch <handle> <trigger>")
	fmt.Fprintln(w, "                      Fire a handle gesture through the bindings")
	fmt.Fprintln(w, "  move-bar show|hide  Show or hide the drag bar")
	fmt.Fprintln(w, "  opacity [10-100]    Show or set the window opacity")
	fmt.Fprintln(w, "  restore             Undo a maximize")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  snap                Evaluate snap zones offline")
	fmt.Fprintln(w, "  replay [file]       Replay a JSON-lines pointer script headless")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config edit         Edit configuration interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatwin <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	logCfg := logging.DefaultConfig()
	if debug {
		logCfg = logging.DevelopmentConfig()
	} else if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	return logging.New(logCfg)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	windowFlag := fs.String("window", "", "Window id to attach to (default: the active window)")
	titleFlag := fs.String("title", "", "Attach to the first window whose title contains this text")
	debug := fs.Bool("debug", false, "Verbose console logging")
	path := fs.String("config", "", "Config file path (default: ~/.config/floatwin/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin daemon [--window ID | --title TEXT] [--config PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Attach the floating-window overlay and serve IPC until the window closes.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}
	if *windowFlag != "" && *titleFlag != "" {
		fmt.Fprintln(os.Stderr, "--window and --title are mutually exclusive")
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := newLogger(cfg, *debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()
	conn := backend.Connection()

	id, err := resolveWindow(backend, *windowFlag, *titleFlag)
	if err != nil {
		log.Fatalf("Failed to resolve window: %v", err)
	}
	title := backend.WindowTitle(id)
	logger = logger.With(zap.Stringer("window_id", id))

	renderer, err := overlay.NewX11Renderer(conn, logger.Named("render"))
	if err != nil {
		log.Fatalf("Failed to create overlay windows: %v", err)
	}
	recorder := metrics.NewRecorder()
	o, err := overlay.New(overlay.Options{
		Config:   cfg,
		Host:     platform.NewWindowSurface(backend, id),
		Renderer: renderer,
		Density:  conn.Density(),
		Metrics:  recorder,
		Logger:   logger.Named("overlay"),
	})
	if err != nil {
		renderer.Destroy()
		log.Fatalf("Failed to attach overlay: %v", err)
	}
	renderer.Bind(o)
	defer o.Detach()

	keys := hotkeys.NewHandler(conn.XUtil, conn.Root, o, logger)
	if err := keys.Bind(cfg.Hotkeys); err != nil {
		logger.Warn("some hotkeys are unavailable", zap.Error(err))
	}
	defer keys.Close()

	watcher := daemon.NewWatcher(daemon.WatcherConfig{
		Interval: time.Duration(cfg.PollMS) * time.Millisecond,
		Logger:   logger,
		OnGone:   conn.Quit,
	}, o)

	var reloadMu sync.Mutex
	reload := func() error {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		newCfg, err := loadConfig(*path)
		if err != nil {
			return err
		}
		if err := o.Reload(newCfg); err != nil && !errors.Is(err, overlay.ErrDetached) {
			logger.Warn("gesture cancelled by reload", zap.Error(err))
		}
		if err := keys.Bind(newCfg.Hotkeys); err != nil {
			logger.Warn("some hotkeys are unavailable", zap.Error(err))
		}
		watcher.SetInterval(time.Duration(newCfg.PollMS) * time.Millisecond)
		return nil
	}

	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		Overlay:  o,
		WindowID: id.String(),
		Title:    title,
		Reload:   reload,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := recorder.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}
	go watcher.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					if err := reload(); err != nil {
						logger.Error("config reload failed", zap.Error(err))
					}
				default:
					logger.Info("shutting down", zap.Stringer("signal", sig))
					conn.Quit()
					return
				}
			}
		}
	}()

	logger.Info("floatwin daemon started",
		zap.String("title", title),
		zap.String("socket", ipcServer.SocketPath()))
	conn.EventLoop()
	logger.Info("event loop finished")
	return 0
}

// windowLookup is the part of a backend resolveWindow needs.
type windowLookup interface {
	ActiveWindow() (platform.WindowID, error)
	FindWindow(title string) (platform.WindowID, error)
	WindowExists(id platform.WindowID) bool
}

func resolveWindow(b windowLookup, idFlag, title string) (platform.WindowID, error) {
	switch {
	case idFlag != "":
		id, err := platform.ParseWindowID(idFlag)
		if err != nil {
			return 0, err
		}
		if !b.WindowExists(id) {
			return 0, fmt.Errorf("window %s does not exist", id)
		}
		return id, nil
	case title != "":
		return b.FindWindow(title)
	default:
		return b.ActiveWindow()
	}
}
