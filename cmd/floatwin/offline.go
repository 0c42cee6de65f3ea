package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/logging"
	"github.com/1broseidon/floatwin/internal/replay"
	"github.com/1broseidon/floatwin/internal/snap"
	"golang.org/x/term"
)

// snapQuery is the input of `floatwin snap`.
type snapQuery struct {
	screen    geometry.Rect
	rect      geometry.Rect
	tolerance int
	density   float64
	topEdge   snap.TopEdge
}

func evaluateSnap(q snapQuery) (snap.Result, int) {
	tol := q.tolerance
	if tol <= 0 {
		tol = snap.DefaultTolerance(q.density)
	}
	d := snap.NewDetector(tol, q.topEdge, logging.NewNop())
	return d.Detect(q.rect, q.screen), tol
}

func runSnap(args []string) int {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenFlag := fs.String("screen", "", "Screen work area X,Y,W,H (required)")
	rectFlag := fs.String("rect", "", "Window rect at release X,Y,W,H (required)")
	tolerance := fs.Int("tolerance", 0, "Snap band in pixels (default: derived from --density)")
	density := fs.Float64("density", 1, "Display density relative to 96 DPI")
	topEdge := fs.String("top-edge", string(snap.TopEdgeMaximize), "What the top edge snaps to: maximize or top-half")
	zones := fs.Bool("zones", false, "List every zone for the screen instead")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin snap --screen X,Y,W,H --rect X,Y,W,H [--tolerance N] [--top-edge maximize|top-half]")
		fmt.Fprintln(os.Stderr, "       floatwin snap --screen X,Y,W,H --zones")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Evaluate where a window released at --rect would snap. No daemon needed.")
		fs.PrintDefaults()
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}
	if *topEdge != string(snap.TopEdgeMaximize) && *topEdge != string(snap.TopEdgeHalf) {
		fmt.Fprintf(os.Stderr, "invalid --top-edge %q\n", *topEdge)
		return 2
	}

	screen, err := parseRect(*screenFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--screen:", err)
		return 2
	}
	if *zones {
		for _, z := range snap.BuildZones(screen, snap.TopEdge(*topEdge)) {
			fmt.Printf("%-13s %s\n", z.Kind, formatRect(z.Target))
		}
		return 0
	}
	rect, err := parseRect(*rectFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--rect:", err)
		return 2
	}

	res, tol := evaluateSnap(snapQuery{
		screen:    screen,
		rect:      rect,
		tolerance: *tolerance,
		density:   *density,
		topEdge:   snap.TopEdge(*topEdge),
	})
	fmt.Printf("tolerance: %dpx\n", tol)
	fmt.Printf("zone:      %s\n", res.Zone)
	fmt.Printf("snapped:   %v\n", res.Snapped)
	fmt.Printf("rect:      %s\n", formatRect(res.Rect))
	return 0
}

func runReplay(args []string) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenFlag := fs.String("screen", "0,0,1920,1080", "Screen work area X,Y,W,H")
	windowFlag := fs.String("window", "100,100,640,480", "Initial window rect X,Y,W,H")
	path := fs.String("config", "", "Config file path (default: ~/.config/floatwin/config.yaml)")
	asJSON := fs.Bool("json", false, "Print one JSON result per step")
	debug := fs.Bool("debug", false, "Log engine decisions to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin replay [--screen X,Y,W,H] [--window X,Y,W,H] [--json] [file]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a JSON-lines pointer script against an in-memory window and print")
		fmt.Fprintln(os.Stderr, "every host operation. Reads stdin when no file is given. Example line:")
		fmt.Fprintln(os.Stderr, `  {"handle":"drag-bar","event":"down","x":600,"y":1000}`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	screen, err := parseRect(*screenFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--screen:", err)
		return 2
	}
	window, err := parseRect(*windowFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--window:", err)
		return 2
	}
	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := logging.NewNop()
	if *debug {
		if logger, err = logging.New(logging.DevelopmentConfig()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	var in io.Reader = os.Stdin
	if fs.NArg() == 1 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		in = f
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Reading steps from the terminal, one JSON object per line. Ctrl-D ends the replay.")
	}

	err = replay.Run(in, replay.Options{
		Screen: screen,
		Window: window,
		Config: cfg,
		Logger: logger,
	}, func(res replay.Result) error {
		return printReplayResult(os.Stdout, res, *asJSON)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printReplayResult(w io.Writer, res replay.Result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(res)
	}
	if _, err := fmt.Fprintf(w, "%d: %s -> %s [%s]\n", res.Line, describeStep(res.Step), formatRect(res.Geometry), res.Phase); err != nil {
		return err
	}
	for _, op := range res.Ops {
		if _, err := fmt.Fprintf(w, "    %s\n", op); err != nil {
			return err
		}
	}
	if res.Err != "" {
		_, err := fmt.Fprintf(w, "    error: %s\n", res.Err)
		return err
	}
	return nil
}

func describeStep(s replay.Step) string {
	switch {
	case s.Action != "":
		return "action " + s.Action
	case s.Event == "":
		return fmt.Sprintf("wait %dms", s.AdvanceMS)
	default:
		return fmt.Sprintf("%s %s %d,%d", s.Handle, s.Event, s.X, s.Y)
	}
}
