package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given dotted path and the
// source that set it.
//
// Paths follow the YAML keys:
//
//	log_level
//	live_resize
//	snap.tolerance
//	triangle.tap_action
//	border.color
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the YAML encoding of cfg so every tagged field is
// addressable without a hand-written switch.
func lookupValue(cfg *Config, path string) (any, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	node := &doc
	for _, part := range strings.Split(path, ".") {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == part {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
