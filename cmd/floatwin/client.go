package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/ipc"
)

// parseRect reads "X,Y,W,H".
func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid rect %q: want X,Y,W,H", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.Rect{}, fmt.Errorf("invalid rect %q: width and height must be positive", s)
	}
	return geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func formatRect(r geometry.Rect) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// parseNoArgs parses a flag set that takes no positional arguments. It
// returns -1 to continue, otherwise the exit code.
func parseNoArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func printJSON(v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window:         %s %q\n", status.WindowID, status.Title)
	fmt.Printf("geometry:       %s\n", formatRect(status.Window))
	fmt.Printf("screen:         %s\n", formatRect(status.Screen))
	fmt.Printf("phase:          %s\n", status.Phase)
	fmt.Printf("resize:         %s\n", status.Resize)
	fmt.Printf("snap:           %v (tolerance %dpx)\n", status.SnapEnabled, status.Tolerance)
	fmt.Printf("move_bar:       %v\n", status.MoveBar)
	fmt.Printf("opacity:        %d%%\n", status.Opacity)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runGeometry(args []string) int {
	fs := flag.NewFlagSet("geometry", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	set := fs.String("set", "", "Move and resize the window to X,Y,W,H")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin geometry [--set X,Y,W,H]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the window rectangle, or set it. The daemon clamps the")
		fmt.Fprintln(os.Stderr, "requested rectangle and prints the one it applied.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	client := ipc.NewClient()
	var (
		r   geometry.Rect
		err error
	)
	if *set != "" {
		target, perr := parseRect(*set)
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return 2
		}
		r, err = client.SetGeometry(target)
	} else {
		r, err = client.Geometry()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatRect(r))
	return 0
}

func runAction(args []string) int {
	if len(args) != 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: floatwin action <name|code>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions: none(0) move-bar(1) close(2) transparency(3) minimize(4)")
		fmt.Fprintln(os.Stderr, "         move-bar-keep-corners(5) maximize(6)")
		if len(args) == 1 {
			return 0
		}
		return 2
	}
	data, err := ipc.NewClient().Action(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s (%d)\n", data.Action, data.Code)
	return 0
}

func runDispatch(args []string) int {
	if len(args) < 1 || len(args) > 2 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: floatwin dispatch <triangle|quadrant> [tap|long-press]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the action bound to a corner handle gesture.")
		if len(args) == 1 {
			return 0
		}
		return 2
	}
	trigger := "tap"
	if len(args) == 2 {
		trigger = args[1]
	}
	data, err := ipc.NewClient().Dispatch(args[0], trigger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s (%d)\n", data.Action, data.Code)
	return 0
}

func runMoveBar(args []string) int {
	fs := flag.NewFlagSet("move-bar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	hideCorners := fs.Bool("hide-corners", false, "Hide the corner handles while the bar is shown")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin move-bar [--hide-corners] show|hide")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	var visible bool
	switch fs.Arg(0) {
	case "show":
		visible = true
	case "hide", "done":
	default:
		fmt.Fprintf(os.Stderr, "Unknown move-bar state: %s\n", fs.Arg(0))
		return 2
	}
	if err := ipc.NewClient().SetMoveBar(visible, *hideCorners); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOpacity(args []string) int {
	if len(args) > 1 || (len(args) == 1 && (args[0] == "-h" || args[0] == "--help")) {
		fmt.Fprintln(os.Stderr, "Usage: floatwin opacity [10-100]")
		if len(args) == 1 {
			return 0
		}
		return 2
	}
	client := ipc.NewClient()
	var (
		pct int
		err error
	)
	if len(args) == 1 {
		want, perr := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
		if perr != nil {
			fmt.Fprintf(os.Stderr, "invalid opacity %q\n", args[0])
			return 2
		}
		pct, err = client.SetOpacity(want)
	} else {
		pct, err = client.Opacity()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%d%%\n", pct)
	return 0
}

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin restore")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}
	r, err := ipc.NewClient().Restore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatRect(r))
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to reload its configuration.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
