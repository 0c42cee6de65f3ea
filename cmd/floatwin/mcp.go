package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/logging"
	"github.com/1broseidon/floatwin/internal/mcp"
)

const mcpUsage = `Usage: floatwin mcp serve [--socket PATH] [--debug]

Serve the floatwin tools over MCP on stdio. Each tool call is forwarded to a
running 'floatwin daemon' through its IPC socket.`

func runMCP(args []string) int {
	switch {
	case len(args) == 0:
		fmt.Fprintln(os.Stderr, mcpUsage)
		return 2
	case args[0] == "serve":
		return runMCPServe(args[1:])
	case args[0] == "help" || args[0] == "-h" || args[0] == "--help":
		fmt.Println(mcpUsage)
		return 0
	}
	fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n%s\n", args[0], mcpUsage)
	return 2
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Daemon socket (default: $FLOATWIN_SOCKET or the runtime dir)")
	debug := fs.Bool("debug", false, "Log tool calls to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, mcpUsage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	// Logging must stay off stdout, which carries the protocol.
	logCfg := logging.DefaultConfig()
	if *debug {
		logCfg = logging.DevelopmentConfig()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client := ipc.NewClient()
	if *socket != "" {
		client = ipc.NewClientAt(*socket)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mcp.NewServer(client, logger.Named("mcp")).Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return 0
}
