package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/testutil"
)

const sampleLog = `{"time":"2024-12-30T10:00:00Z","level":"INFO","msg":"refresh loop started","component":"refresher","interval":"1s"}
{"time":"2024-12-30T10:00:01Z","level":"DEBUG","msg":"slot written","component":"refresher","slot":"weekend"}
{"time":"2024-12-30T10:05:00Z","level":"WARN","msg":"joke fetch failed","component":"refresher","kind":"network"}
not json at all
{"time":"2024-12-30T10:06:00Z","level":"INFO","msg":"http request","component":"server","status":200}
`

func TestLogEntry_UnmarshalJSON(t *testing.T) {
	var entry logEntry
	line := `{"time":"2024-12-30T10:00:00Z","level":"WARN","msg":"joke fetch failed","component":"refresher","slot":"joke","kind":"network"}`
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if entry.Component != "refresher" || entry.Slot != "joke" || entry.Msg != "joke fetch failed" {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.Extra) != 1 || entry.Extra["kind"] != "network" {
		t.Errorf("Extra = %v, want only kind", entry.Extra)
	}
}

func TestNewLogFilter(t *testing.T) {
	now := time.Date(2024, time.December, 30, 10, 10, 0, 0, time.UTC)

	if _, err := newLogFilter("", "soon", "", "", now); err == nil {
		t.Error("an invalid --since should fail")
	}
	if _, err := newLogFilter("", "", "(", "", now); err == nil {
		t.Error("an invalid --grep should fail")
	}

	f, err := newLogFilter("warning", "10m", "fetch", "refresher", now)
	if err != nil {
		t.Fatalf("newLogFilter() error = %v", err)
	}
	if f.minLevel != levelPriority("WARN") {
		t.Errorf("minLevel = %d, want WARN", f.minLevel)
	}
	if !f.since.Equal(now.Add(-10 * time.Minute)) {
		t.Errorf("since = %v", f.since)
	}
}

func TestDisplayLogs(t *testing.T) {
	path := testutil.WriteFile(t, "debug.log", sampleLog)
	now := time.Date(2024, time.December, 30, 10, 10, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tail      int
		level     string
		since     string
		grep      string
		component string
		want      []string
		wantNot   []string
	}{
		{
			name: "everything",
			want: []string{"refresh loop started", "slot written", "joke fetch failed", "not json at all", "http request"},
		},
		{
			name:    "tail",
			tail:    2,
			want:    []string{"not json at all", "http request"},
			wantNot: []string{"joke fetch failed"},
		},
		{
			name:    "level",
			level:   "warn",
			want:    []string{"joke fetch failed"},
			wantNot: []string{"refresh loop started", "slot written", "http request"},
		},
		{
			name:    "since",
			since:   "6m",
			want:    []string{"joke fetch failed", "http request"},
			wantNot: []string{"refresh loop started"},
		},
		{
			name:    "grep matches slot",
			grep:    "weekend",
			want:    []string{"slot written"},
			wantNot: []string{"http request"},
		},
		{
			name:      "component",
			component: "server",
			want:      []string{"http request"},
			wantNot:   []string{"refresh loop started"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := newLogFilter(tt.level, tt.since, tt.grep, tt.component, now)
			if err != nil {
				t.Fatalf("newLogFilter() error = %v", err)
			}
			var out bytes.Buffer
			if err := displayLogs(&out, path, tt.tail, filter); err != nil {
				t.Fatalf("displayLogs() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, notWant := range tt.wantNot {
				if strings.Contains(out.String(), notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, out.String())
				}
			}
		})
	}
}

func TestDisplayLogs_NoMatches(t *testing.T) {
	// Unparseable lines are always shown, so leave them out here.
	path := testutil.WriteFile(t, "debug.log", strings.ReplaceAll(sampleLog, "not json at all\n", ""))
	filter, err := newLogFilter("error", "", "", "", time.Now())
	if err != nil {
		t.Fatalf("newLogFilter() error = %v", err)
	}
	var out bytes.Buffer
	if err := displayLogs(&out, path, 0, filter); err != nil {
		t.Fatalf("displayLogs() error = %v", err)
	}
	if !strings.Contains(out.String(), "No matching log entries found.") {
		t.Errorf("output = %q", out.String())
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{mu: make(chan struct{}, 1)}
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu <- struct{}{}
	defer func() { <-b.mu }()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu <- struct{}{}
	defer func() { <-b.mu }()
	return b.buf.String()
}

func TestFollowLogs(t *testing.T) {
	path := testutil.WriteFile(t, "debug.log", sampleLog)
	filter, err := newLogFilter("", "", "", "", time.Now())
	if err != nil {
		t.Fatalf("newLogFilter() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := newSyncBuffer()
	done := make(chan error, 1)
	go func() { done <- followLogs(ctx, out, path, filter) }()

	// Wait until the follower has seeked to the end.
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Following logs") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("followLogs() never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		cancel()
		t.Fatalf("open log: %v", err)
	}
	_, _ = f.WriteString(`{"time":"2024-12-30T11:00:00Z","level":"INFO","msg":"fresh line","component":"tui"}` + "\n")
	_ = f.Close()

	for !strings.Contains(out.String(), "fresh line") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("followed output = %q, want the appended line", out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("followLogs() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("followLogs() did not return after cancellation")
	}

	if strings.Contains(out.String(), "refresh loop started") {
		t.Error("followLogs() should start at the end of the file")
	}
}
