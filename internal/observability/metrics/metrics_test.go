package metrics

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/neduet/campus-api/internal/errors"
)

type capturedMetric struct {
	kind  string
	name  string
	value int64
	tags  map[string]string
}

type captureSink struct {
	metrics []capturedMetric
}

func (c *captureSink) Count(name string, value int64, tags map[string]string) {
	c.metrics = append(c.metrics, capturedMetric{kind: "count", name: name, value: value, tags: tags})
}

func (c *captureSink) Gauge(name string, _ float64, tags map[string]string) {
	c.metrics = append(c.metrics, capturedMetric{kind: "gauge", name: name, tags: tags})
}

func (c *captureSink) Timing(name string, _ time.Duration, tags map[string]string) {
	c.metrics = append(c.metrics, capturedMetric{kind: "timing", name: name, tags: tags})
}

func (c *captureSink) find(name string) *capturedMetric {
	for i := range c.metrics {
		if c.metrics[i].name == name {
			return &c.metrics[i]
		}
	}
	return nil
}

func TestEmitRequest(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	EmitRequest(sink, RequestMetric{Method: "GET", Status: 302, Duration: 5 * time.Millisecond})

	count := sink.find("http.request")
	if count == nil {
		t.Fatal("http.request count not emitted")
	}
	if count.tags["method"] != "GET" || count.tags["status"] != "302" {
		t.Fatalf("unexpected tags %v", count.tags)
	}
	if sink.find("http.request.duration") == nil {
		t.Fatal("http.request.duration timing not emitted")
	}
}

func TestEmitWindowSweepSuccess(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	EmitWindowSweep(sink, SweepMetric{Closed: 3, Duration: time.Millisecond})

	sweep := sink.find("scheduler.sweep")
	if sweep == nil || sweep.tags["result"] != "success" {
		t.Fatalf("unexpected sweep metric %+v", sweep)
	}
	closed := sink.find("scheduler.windows_closed")
	if closed == nil || closed.value != 3 {
		t.Fatalf("unexpected windows_closed metric %+v", closed)
	}
}

func TestEmitWindowSweepErrorTagsClass(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	err := &apperrors.AppError{Code: apperrors.ErrCodeTimeout, Message: "close windows timed out", Cause: errors.New("deadline")}
	EmitWindowSweep(sink, SweepMetric{Err: err})

	sweep := sink.find("scheduler.sweep")
	if sweep == nil || sweep.tags["result"] != "error" {
		t.Fatalf("unexpected sweep metric %+v", sweep)
	}
	if sweep.tags["error_class"] == "" {
		t.Fatal("expected error_class tag")
	}
	if sink.find("scheduler.windows_closed") != nil {
		t.Fatal("windows_closed must not be emitted on error")
	}
}

func TestEmitNilSinkIsNoop(t *testing.T) {
	t.Parallel()

	EmitRequest(nil, RequestMetric{Method: "GET", Status: 200})
	EmitWindowSweep(nil, SweepMetric{Closed: 1})
}
