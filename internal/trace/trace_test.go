package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"ERROR", LevelError, false},
		{"info", LevelInfo, false},
		{"Debug", LevelDebug, false},
		{"phase", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltersPointsAndSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelInfo, FormatText)

	Point(tr, LevelDebug, ScopeReport, "generating XML report to", "out.xml")
	Point(tr, LevelInfo, ScopeReport, "XML report generated", "out.xml")
	Begin(tr, ScopeFile, "parse", 0).End("")
	Begin(tr, ScopeReport, "render", 0).End("ok")

	out := buf.String()
	if strings.Contains(out, "generating") {
		t.Errorf("debug point leaked at info level:\n%s", out)
	}
	if !strings.Contains(out, "INFO XML report generated (out.xml)") {
		t.Errorf("info point missing:\n%s", out)
	}
	if strings.Contains(out, "parse") {
		t.Errorf("file-scope span leaked at info level:\n%s", out)
	}
	if got := strings.Count(out, "render"); got != 2 {
		t.Errorf("expected render begin and end, got %d lines:\n%s", got, out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)

	span := Begin(tr, ScopeReport, "render", 0).WithExtra("files", "3")
	span.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d:\n%s", len(lines), buf.String())
	}
	var end struct {
		Kind   string            `json:"kind"`
		Scope  string            `json:"scope"`
		Name   string            `json:"name"`
		Detail string            `json:"detail"`
		Extra  map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("invalid json %q: %v", lines[1], err)
	}
	if end.Kind != "end" || end.Scope != "report" || end.Name != "render" || end.Detail != "done" || end.Extra["files"] != "3" {
		t.Errorf("unexpected end event: %+v", end)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}

	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated")
	}

	span := Begin(tr, ScopeCommand, "xml", 0)
	ctx = WithSpan(ctx, span)
	if got := CurrentSpan(ctx).SpanID; got != span.ID() {
		t.Errorf("CurrentSpan = %d, want %d", got, span.ID())
	}
}

func TestNopSpanIsSafe(t *testing.T) {
	span := Begin(Nop, ScopeReport, "render", 0)
	if d := span.WithExtra("k", "v").End(""); d != 0 {
		t.Errorf("nop span duration = %v", d)
	}
	if ctx := WithSpan(context.Background(), span); CurrentSpan(ctx).SpanID != 0 {
		t.Error("nop span must not become current")
	}
	Point(nil, LevelError, ScopeCommand, "ignored", "")
}

func TestNewAutoFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelInfo, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, ok := tr.(*StreamTracer)
	if !ok {
		t.Fatalf("expected *StreamTracer, got %T", tr)
	}
	if st.format != FormatNDJSON {
		t.Errorf("format = %v, want ndjson", st.format)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Errorf("LevelOff must yield a disabled tracer, got %T, %v", off, err)
	}
}
