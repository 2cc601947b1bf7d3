// Package pkgresponse renders classified errors into the JSON envelope every
// client receives.
//
// The cause of an error is logged locally and never rendered. Path, method
// and field are only rendered in debug mode.
package pkgresponse

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the wire representation of an error.
type Envelope struct {
	Error      bool   `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path,omitempty"`
	Method     string `json:"method,omitempty"`
	Field      string `json:"field,omitempty"`
}

// RequestInfo carries the request details the envelope may expose.
type RequestInfo struct {
	Path   string
	Method string
}

// Normalizer turns any error into a classified one, see pkgboundary.Boundary.
type Normalizer interface {
	Classify(err error) *pkgerror.Error
}

// Config configures a Formatter.
type Config struct {
	// Debug adds path, method and field to every envelope.
	Debug bool
	// Now defaults to time.Now.
	Now func() time.Time
	// Registerer receives the error counter. Nil skips metrics.
	Registerer prometheus.Registerer
}

// Formatter renders errors. It is safe for concurrent use.
type Formatter struct {
	debug   bool
	now     func() time.Time
	counter *prometheus.CounterVec
}

// NewFormatter builds a Formatter.
func NewFormatter(cfg Config) *Formatter {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	f := &Formatter{debug: cfg.Debug, now: now}

	if cfg.Registerer != nil {
		f.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "faultline_errors_total",
			Help: "Errors rendered to clients, by kind.",
		}, []string{"kind"})
		if err := cfg.Registerer.Register(f.counter); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					f.counter = existing
				}
			} else {
				slog.Error("failed to register error counter", "error", err)
				f.counter = nil
			}
		}
	}

	return f
}

// Debug reports whether diagnostic fields are rendered.
func (f *Formatter) Debug() bool {
	return f.debug
}

// Format renders err. The status code comes from the kind only.
func (f *Formatter) Format(err *pkgerror.Error, req RequestInfo) Envelope {
	env := Envelope{
		Error:      true,
		Message:    err.Msg(),
		StatusCode: err.StatusCode(),
		Timestamp:  f.now().UTC().Format(TimestampLayout),
	}

	if f.debug {
		env.Path = req.Path
		env.Method = req.Method
		env.Field = err.Field()
	}

	return env
}

// Write classifies err with n, logs its cause, and writes the envelope.
func (f *Formatter) Write(w http.ResponseWriter, r *http.Request, n Normalizer, err error) {
	perr := n.Classify(err)
	ctx := r.Context()

	attrs := []any{
		"kind", perr.Kind().String(),
		"status", perr.StatusCode(),
		"method", r.Method,
		"path", r.URL.Path,
		"message", perr.Msg(),
	}
	if cause := perr.Cause(); cause != nil {
		attrs = append(attrs, "cause", cause.Error())
	}
	// Client disconnects are logged at warn and not counted.
	gone := errors.Is(perr.Cause(), context.Canceled) && errors.Is(ctx.Err(), context.Canceled)
	switch {
	case gone:
		slog.WarnContext(ctx, "request canceled by client", attrs...)
	case perr.Kind() == pkgerror.KindInternal:
		slog.ErrorContext(ctx, "request failed", attrs...)
	default:
		slog.WarnContext(ctx, "request rejected", attrs...)
	}

	if f.counter != nil && !gone {
		f.counter.WithLabelValues(perr.Kind().String()).Inc()
	}

	WriteJSON(w, f.Format(perr, RequestInfo{Path: r.URL.Path, Method: r.Method}), perr.StatusCode())
}

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
