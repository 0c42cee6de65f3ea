// Package metrics counts gestures, host re-layouts, snaps and action
// dispatches with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/1broseidon/floatwin/internal/snap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder holds the overlay's collectors on its own registry. It satisfies
// both gesture.Observer and actions.Observer.
type Recorder struct {
	registry *prometheus.Registry

	GesturesStarted  *prometheus.CounterVec
	GesturesFinished *prometheus.CounterVec
	Relayouts        *prometheus.CounterVec
	Snaps            *prometheus.CounterVec
	Actions          *prometheus.CounterVec
	Attached         prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		GesturesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "floatwin_gestures_started_total",
				Help: "Gestures started, by kind",
			},
			[]string{"kind"},
		),
		GesturesFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "floatwin_gestures_finished_total",
				Help: "Gestures finished, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Relayouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "floatwin_host_relayouts_total",
				Help: "Geometry commits pushed to the host window, by reason",
			},
			[]string{"reason"},
		),
		Snaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "floatwin_snaps_total",
				Help: "Drag releases that snapped, by zone",
			},
			[]string{"zone"},
		),
		Actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "floatwin_actions_total",
				Help: "Handle actions dispatched",
			},
			[]string{"handle", "trigger", "action"},
		),
		Attached: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "floatwin_attached",
				Help: "1 while the overlay is attached to a host window",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) GestureStarted(kind string) {
	r.GesturesStarted.WithLabelValues(kind).Inc()
}

func (r *Recorder) GestureFinished(kind, outcome string) {
	r.GesturesFinished.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) Relayout(reason string) {
	r.Relayouts.WithLabelValues(reason).Inc()
}

func (r *Recorder) Snapped(zone snap.ZoneKind) {
	r.Snaps.WithLabelValues(zone.String()).Inc()
}

func (r *Recorder) ActionDispatched(handle, trigger, action string) {
	r.Actions.WithLabelValues(handle, trigger, action).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
