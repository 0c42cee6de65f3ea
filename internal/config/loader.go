package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
	SourceEnv     SourceKind = "env"
)

// Source records where a config value was last set.
type Source struct {
	Kind   SourceKind
	Name   string // env var name
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch {
	case s.Kind == SourceEnv:
		return "$" + s.Name
	case s.Kind == SourceFile && s.Line > 0:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case s.Kind == SourceFile:
		return s.File
	}
	return "defaults"
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // dotted key -> last writer
	Files   []string          // loaded files, includes before their includer
}

// DefaultConfigPath returns ~/.config/floatwin/config.yaml, or config.toml
// when only the TOML file exists.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "floatwin")
	yamlPath := filepath.Join(dir, "config.yaml")
	if exists(yamlPath) {
		return yamlPath, nil
	}
	if tomlPath := filepath.Join(dir, "config.toml"); exists(tomlPath) {
		return tomlPath, nil
	}
	return yamlPath, nil
}

// Load reads the configuration from the standard location, applies
// FLOATWIN_* environment overrides and returns a validated config.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load that also reports where each value came from.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes, then environment overrides.
// A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := newLoader()
	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	envRaw, envSources, err := loadEnvOverrides()
	if err != nil {
		return nil, err
	}
	l.apply(envRaw, envSources)

	cfg, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader folds a file tree into one RawConfig. Includes are applied before
// the file naming them, so the includer wins.
type loader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	done    map[string]bool
	stack   []string
}

func newLoader() *loader {
	return &loader{sources: map[string]Source{}, done: map[string]bool{}}
}

func (l *loader) apply(raw RawConfig, sources map[string]Source) {
	l.raw = l.raw.merge(raw)
	for k, src := range sources {
		l.sources[k] = src
	}
}

func (l *loader) load(path string) error {
	file := canonicalPath(path)
	if slices.Contains(l.stack, file) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.stack, " -> "), file)
	}
	if l.done[file] {
		return nil
	}
	l.done[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}
	decode := decodeYAML
	if formatForPath(file) == "toml" {
		decode = decodeTOML
	}
	doc, err := decode(data, file)
	if err != nil {
		return err
	}

	l.stack = append(l.stack, file)
	for _, inc := range doc.includes {
		paths, err := includePaths(file, inc.path)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", inc.at, inc.path, err)
		}
		for _, p := range paths {
			if err := l.load(p); err != nil {
				return err
			}
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	l.apply(doc.raw, doc.sources)
	l.files = append(l.files, file)
	return nil
}

// decoded is one parsed config file.
type decoded struct {
	raw      RawConfig
	sources  map[string]Source
	includes []include
}

type include struct {
	path string
	at   Source
}

func decodeYAML(data []byte, file string) (decoded, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return decoded{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return decoded{}, fmt.Errorf("%s: %w", file, err)
	}

	d := decoded{raw: raw, sources: map[string]Source{}}
	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	walkYAML(top, file, "", d.sources)
	d.includes = yamlIncludes(top, file)
	return d, nil
}

func decodeTOML(data []byte, file string) (decoded, error) {
	var raw RawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return decoded{}, fmt.Errorf("%s: failed to parse toml: %w", file, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return decoded{}, fmt.Errorf("%s: unknown keys: %s", file, strings.Join(keys, ", "))
	}

	at := Source{Kind: SourceFile, File: file}
	d := decoded{raw: raw, sources: map[string]Source{}}
	for _, k := range md.Keys() {
		d.sources[k.String()] = at
	}
	for _, p := range raw.Include {
		d.includes = append(d.includes, include{path: p, at: at})
	}
	return d, nil
}

// walkYAML records the position of every mapping value under prefix.
// Sequences are recorded as a whole.
func walkYAML(n *yaml.Node, file, prefix string, out map[string]Source) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			val := n.Content[i+1]
			out[key] = nodeSource(file, val)
			walkYAML(val, file, key, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = nodeSource(file, n)
		}
	}
}

func yamlIncludes(top *yaml.Node, file string) []include {
	if top == nil || top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "include" {
			continue
		}
		val := top.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var out []include
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				out = append(out, include{path: item.Value, at: nodeSource(file, item)})
			}
		}
		return out
	}
	return nil
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

func formatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// canonicalPath resolves path to an absolute, symlink-free form where it
// can, so the same file reached twice is recognised.
func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// includePaths resolves an include relative to the file naming it. A
// directory expands to its .yaml, .yml and .toml files in name order.
func includePaths(from, ref string) ([]string, error) {
	if ref == "" {
		return nil, errors.New("path is empty")
	}
	if ref == "~" || strings.HasPrefix(ref, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		ref = filepath.Join(home, strings.TrimPrefix(ref, "~"))
	}
	if !filepath.IsAbs(ref) {
		ref = filepath.Join(filepath.Dir(from), ref)
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{ref}, nil
	}
	entries, err := os.ReadDir(ref)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".toml":
			if !e.IsDir() {
				out = append(out, filepath.Join(ref, e.Name()))
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// withSource annotates a validation error with where its key was set.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
