package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/tui"
	"gopkg.in/yaml.v3"
)

const configUsage = `Usage:
  floatwin config validate [--path PATH]
  floatwin config print [--path PATH] [--defaults] [--format yaml|toml]
  floatwin config explain [--path PATH] <key.path>
  floatwin config edit [--path PATH]`

// configFlags returns a flag set carrying the shared --path flag.
func configFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/floatwin/config.yaml)")
	return fs, path
}

func loadWithSources(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, configUsage)
		return 2
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "validate":
		return runConfigValidate(rest)
	case "print":
		return runConfigPrint(rest)
	case "explain":
		return runConfigExplain(rest)
	case "edit":
		return runConfigEdit(rest)
	case "help", "-h", "--help":
		fmt.Fprintln(os.Stderr, configUsage)
		return 2
	}
	fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n%s\n", sub, configUsage)
	return 2
}

func runConfigValidate(args []string) int {
	fs, path := configFlags("validate")
	if fs.Parse(args) != nil {
		return 2
	}
	res, err := loadWithSources(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, f := range res.Files {
		fmt.Println("loaded:", f)
	}
	fmt.Println("config: ok")
	return 0
}

func runConfigPrint(args []string) int {
	fs, path := configFlags("print")
	defaults := fs.Bool("defaults", false, "Print the built-in defaults, ignoring files")
	format := fs.String("format", "yaml", "Output format: yaml or toml")
	if fs.Parse(args) != nil {
		return 2
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		res, err := loadWithSources(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = res.Config
	}
	data, err := cfg.Marshal(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	os.Stdout.Write(data)
	return 0
}

func runConfigExplain(args []string) int {
	fs, path := configFlags("explain")
	if fs.Parse(args) != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "explain takes exactly one <key.path>")
		return 2
	}
	key := fs.Arg(0)

	res, err := loadWithSources(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	value, src, err := config.Explain(res, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("path: %s\nsource: %s\nvalue:\n%s", key, src, out)
	return 0
}

func runConfigEdit(args []string) int {
	fs, path := configFlags("edit")
	if fs.Parse(args) != nil {
		return 2
	}
	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
