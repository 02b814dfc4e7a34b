// Package metrics exposes runtime counters for the bar in Prometheus
// format.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statusbar"

// Recorder counts widget crashes, updates, redraws, relayouts and docked
// tray icons. Each Recorder has its own registry.
type Recorder struct {
	reg *prometheus.Registry

	crashes   *prometheus.CounterVec
	updates   *prometheus.CounterVec
	redraws   *prometheus.CounterVec
	relayouts *prometheus.CounterVec
	trayIcons prometheus.Gauge
}

// NewRecorder creates a Recorder with Go runtime and process collectors
// registered alongside the bar's own metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Recorder{
		reg: reg,
		crashes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_crashes_total",
			Help:      "Widgets replaced by the crash placeholder, by widget and lifecycle call.",
		}, []string{"widget", "op"}),
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_updates_total",
			Help:      "Widget updates triggered by wakeups.",
		}, []string{"widget"}),
		redraws: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redraws_total",
			Help:      "Frames presented, by kind (full or partial).",
		}, []string{"kind"}),
		relayouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relayouts_total",
			Help:      "Layout passes, by whether the regions changed.",
		}, []string{"changed"}),
		trayIcons: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tray_icons",
			Help:      "Icons currently docked in the system tray.",
		}),
	}
}

// WidgetCrashed counts a replacement.
func (r *Recorder) WidgetCrashed(widget, op string) {
	r.crashes.WithLabelValues(widget, op).Inc()
}

// WidgetUpdated counts an update.
func (r *Recorder) WidgetUpdated(widget string) {
	r.updates.WithLabelValues(widget).Inc()
}

// Redraw counts a presented frame.
func (r *Recorder) Redraw(kind string) {
	r.redraws.WithLabelValues(kind).Inc()
}

// Relayout counts a layout pass.
func (r *Recorder) Relayout(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	r.relayouts.WithLabelValues(label).Inc()
}

// TrayIcons sets the docked icon gauge.
func (r *Recorder) TrayIcons(n int) {
	r.trayIcons.Set(float64(n))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Server serves /metrics, and /healthz when a state func is set, until its
// context is cancelled. It satisfies suture.Service.
type Server struct {
	addr   string
	rec    *Recorder
	log    *slog.Logger
	health func() string
}

// Health is the /healthz body.
type Health struct {
	State string `json:"state"`
}

// NewServer returns a metrics server listening on addr.
func NewServer(addr string, rec *Recorder, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{addr: addr, rec: rec, log: log}
}

// WithHealth reports fn's result on /healthz. Only "running" answers 200.
func (s *Server) WithHealth(fn func() string) *Server {
	s.health = fn
	return s
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.rec.Handler())
	if s.health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			h := Health{State: s.health()}
			w.Header().Set("Content-Type", "application/json")
			if h.State != "running" {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
			json.NewEncoder(w).Encode(h)
		})
	}
	return mux
}

// Serve listens until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("metrics server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("metrics server shutdown", "err", err)
		}
		return ctx.Err()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

func (s *Server) String() string { return "metrics-server" }
