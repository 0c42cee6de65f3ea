package tui

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatwin/internal/config"
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// diffContextLines is how many unchanged lines surround each change.
const diffContextLines = 2

// computeDiffLines diffs the YAML renderings of two configs. It returns nil
// when they render the same.
func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := original.Marshal("yaml")
	if err != nil {
		return nil
	}
	b, err := current.Marshal("yaml")
	if err != nil {
		return nil
	}
	as := strings.TrimSpace(string(a))
	bs := strings.TrimSpace(string(b))
	if as == bs {
		return nil
	}
	return trimContext(diffLines(strings.Split(as, "\n"), strings.Split(bs, "\n")), diffContextLines)
}

// diffLines aligns a and b on their longest common subsequence.
func diffLines(a, b []string) []diffLine {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	out := make([]diffLine, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	return out
}

// trimContext drops unchanged lines further than n lines from a change and
// marks each gap with "...". It returns nil when nothing changed.
func trimContext(lines []diffLine, n int) []diffLine {
	// dist[i] is the distance from line i to the nearest change.
	const far = 1 << 30
	dist := make([]int, len(lines))
	last := -far
	for i, l := range lines {
		if l.kind != diffContext {
			last = i
		}
		dist[i] = i - last
	}
	last = far
	changed := false
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].kind != diffContext {
			last = i
			changed = true
		}
		dist[i] = min(dist[i], last-i)
	}
	if !changed {
		return nil
	}

	var out []diffLine
	gap := false
	for i, l := range lines {
		if dist[i] > n {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, diffLine{diffContext, "..."})
		}
		gap = false
		out = append(out, l)
	}
	return out
}

// cloneConfig deep-copies a Config via a YAML round trip.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := cfg.Marshal("yaml")
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
