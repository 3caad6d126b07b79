package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" http/request ": "http_request",
		"foo..bar":       "foo.bar",
		".trimmed.":      "trimmed",
		"":               "",
	}
	for input, want := range tests {
		if got := normalizeMetricName(input); got != want {
			t.Fatalf("normalizeMetricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	got := formatTags(map[string]string{
		"result": " ok ",
		"":       "ignored",
		"method": "GET",
	})
	want := "|#method:GET,result:ok"
	if got != want {
		t.Fatalf("formatTags = %q, want %q", got, want)
	}

	if got := formatTags(nil); got != "" {
		t.Fatalf("formatTags(nil) = %q, want empty", got)
	}
}

func TestDisabledClientDropsMetrics(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	// Must not panic or block.
	client.Count("http.request", 1, nil)
	client.Timing("http.request.duration", time.Second, nil)
	if closeErr := client.Close(); closeErr != nil {
		t.Fatalf("Close: %v", closeErr)
	}
}

func TestClientEmitsLineProtocol(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  "campus",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	client.Count("http.request", 1, map[string]string{"method": "GET", "status": "200"})

	if deadlineErr := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); deadlineErr != nil {
		t.Fatalf("set deadline: %v", deadlineErr)
	}
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}

	line := string(buf[:n])
	if line != "campus.http.request:1|c|#method:GET,status:200" {
		t.Fatalf("unexpected metric line %q", line)
	}
	if !strings.HasPrefix(line, "campus.") {
		t.Fatalf("metric missing prefix: %q", line)
	}
}
