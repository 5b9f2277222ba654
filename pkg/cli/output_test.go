package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type entry struct {
	ID        string    `json:"id"`
	Mood      int       `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var entries = []entry{
	{ID: "a", Mood: 4, Note: "walk", CreatedAt: time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)},
	{ID: "b", Mood: 2, CreatedAt: time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)},
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(entries, OutputOptions{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	var result []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if len(result) != 2 || result[0]["note"] != "walk" {
		t.Errorf("result = %v", result)
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(entries[0], OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "mood: 4") || !strings.Contains(out, "note: walk") {
		t.Errorf("YAML output = %s", out)
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"bytes", []byte("raw bytes"), "raw bytes"},
		{"string", "raw string", "raw string"},
		{"strings", []any{"one", "two"}, "one\ntwo\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Output(tt.in, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if buf.String() != tt.want {
			t.Errorf("%s: output = %q, want %q", tt.name, buf.String(), tt.want)
		}
	}

	var buf bytes.Buffer
	if err := Output(map[string]int{"count": 42}, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "count: 42") {
		t.Errorf("raw fallback = %q", buf.String())
	}
}

func TestOutput_Query(t *testing.T) {
	var buf bytes.Buffer
	err := Output(entries, OutputOptions{Format: FormatJSON, Writer: &buf, Query: "[.[] | select(.mood > 3) | .id]"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(strings.Fields(buf.String()), ""); got != `["a"]` {
		t.Errorf("query output = %s", got)
	}

	buf.Reset()
	if err := Output(entries, OutputOptions{Format: FormatRaw, Writer: &buf, Query: ".[].id"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a\nb\n" {
		t.Errorf("multi-result raw = %q", buf.String())
	}

	buf.Reset()
	if err := Output(entries, OutputOptions{Format: FormatRaw, Writer: &buf, Query: ".[0].note"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "walk" {
		t.Errorf("single raw = %q", buf.String())
	}
}

func TestQueryErrors(t *testing.T) {
	if _, err := Query(entries, ".[] |"); err == nil {
		t.Error("parse error not reported")
	}
	if _, err := Query(entries, `error("boom")`); err == nil {
		t.Error("runtime error not reported")
	}
	v, err := Query(entries, "empty")
	if err != nil || v != nil {
		t.Errorf("empty = %v, %v", v, err)
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	if err := Output("data", OutputOptions{Format: "table", Writer: &bytes.Buffer{}}); err == nil {
		t.Error("Output should fail for unsupported format")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat accepted xml")
	}
	if f, err := ParseFormat(""); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(\"\") = %q, %v", f, err)
	}
}

func TestOutput_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Output(map[string]string{"key": "value"}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result map[string]string
	if err := json.Unmarshal(content, &result); err != nil || result["key"] != "value" {
		t.Fatalf("file = %s, %v", content, err)
	}
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "saved %d", 3)
	PrintWarning(&buf, "careful")
	if buf.String() != "✓ saved 3\n⚠ careful\n" {
		t.Errorf("output = %q", buf.String())
	}
}
