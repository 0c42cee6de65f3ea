package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override, e.g.
// FLOATWIN_SNAP_TOLERANCE.
const EnvPrefix = "floatwin"

// envOverrides lists the settings that can be changed without editing the
// config file. Unset variables leave the pointer nil. split_words keeps the
// lookup prefixed; an envconfig tag would also match the bare name.
type envOverrides struct {
	LogLevel      *string `split_words:"true"`
	LiveResize    *bool   `split_words:"true"`
	MinVisible    *int    `split_words:"true"`
	LongPressMS   *int    `split_words:"true"`
	TapSlop       *int    `split_words:"true"`
	MetricsAddr   *string `split_words:"true"`
	SnapEnabled   *bool   `split_words:"true"`
	SnapTolerance *int    `split_words:"true"`
	SnapTopEdge   *string `split_words:"true"`
}

func envName(key string) string {
	return "FLOATWIN_" + key
}

func loadEnvOverrides() (RawConfig, map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return RawConfig{}, nil, fmt.Errorf("environment overrides: %w", err)
	}

	raw := RawConfig{
		LogLevel:    env.LogLevel,
		LiveResize:  env.LiveResize,
		MinVisible:  env.MinVisible,
		LongPressMS: env.LongPressMS,
		TapSlop:     env.TapSlop,
		MetricsAddr: env.MetricsAddr,
	}
	if env.SnapEnabled != nil || env.SnapTolerance != nil || env.SnapTopEdge != nil {
		raw.Snap = &RawSnap{
			Enabled:   env.SnapEnabled,
			Tolerance: env.SnapTolerance,
			TopEdge:   env.SnapTopEdge,
		}
	}

	sources := map[string]Source{}
	mark := func(set bool, path, key string) {
		if set {
			sources[path] = Source{Kind: SourceEnv, Name: envName(key)}
		}
	}
	mark(env.LogLevel != nil, "log_level", "LOG_LEVEL")
	mark(env.LiveResize != nil, "live_resize", "LIVE_RESIZE")
	mark(env.MinVisible != nil, "min_visible", "MIN_VISIBLE")
	mark(env.LongPressMS != nil, "long_press_ms", "LONG_PRESS_MS")
	mark(env.TapSlop != nil, "tap_slop", "TAP_SLOP")
	mark(env.MetricsAddr != nil, "metrics_addr", "METRICS_ADDR")
	mark(env.SnapEnabled != nil, "snap.enabled", "SNAP_ENABLED")
	mark(env.SnapTolerance != nil, "snap.tolerance", "SNAP_TOLERANCE")
	mark(env.SnapTopEdge != nil, "snap.top_edge", "SNAP_TOP_EDGE")

	return raw, sources, nil
}
