// Package metrics centralises metric names and tag shapes so emission stays
// consistent across the HTTP layer and the scheduler.
package metrics

import (
	goerrors "errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/neduet/campus-api/internal/errors"
	"github.com/neduet/campus-api/internal/observability/statsd"
)

// RequestMetric captures one handled HTTP request.
type RequestMetric struct {
	Method   string
	Status   int
	Duration time.Duration
}

// EmitRequest emits count and timing metrics for a handled request.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method": in.Method,
		"status": strconv.Itoa(in.Status),
	}
	sink.Count("http.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("http.request.duration", in.Duration, tags)
	}
}

// SweepMetric captures one scheduler pass over expired enrollment windows.
type SweepMetric struct {
	Closed   int64
	Duration time.Duration
	Err      error
}

// EmitWindowSweep emits metrics for a scheduler sweep.
func EmitWindowSweep(sink statsd.Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	result := "success"
	tags := map[string]string{}
	if in.Err != nil {
		result = "error"
		if class := errorClass(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	tags["result"] = result

	sink.Count("scheduler.sweep", 1, tags)
	if in.Err == nil {
		sink.Count("scheduler.windows_closed", in.Closed, nil)
	}
	if in.Duration > 0 {
		sink.Timing("scheduler.sweep.duration", in.Duration, tags)
	}
}

// errorClass returns a normalised error identifier for tagging. Application
// errors report their code; anything else reports the innermost concrete type.
func errorClass(err error) string {
	if err == nil {
		return ""
	}

	var appErr *apperrors.AppError
	if goerrors.As(err, &appErr) {
		return string(appErr.Code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	return strings.ReplaceAll(name, ".", "_")
}
