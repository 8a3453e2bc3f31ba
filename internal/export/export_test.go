package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

func sampleInput() Input {
	return Input{
		ServerID: "g1",
		Conversation: ask.Conversation{
			ID:    "c1",
			Title: "Q3 planning: what's next?",
		},
		Messages: []ask.Message{
			{ID: "m1", Role: ask.RoleUser, Text: "What did we decide?", CreatedAt: "2025-01-01T00:10:00.000Z"},
			{ID: "m2", Role: ask.RoleAssistant, Text: "Ship it [1](https://x/1).", CreatedAt: "2025-01-01T00:10:05.000Z"},
			ask.ThinkingPlaceholder("2025-01-01T00:10:06.000Z"),
			{ID: "m3", Role: ask.RoleUser, Text: "When?", CreatedAt: "2025-01-01T00:11:00.000Z"},
		},
		ExportedAt: "2025-01-01T00:20:00.000Z",
	}
}

func TestBuildAskThreadExport(t *testing.T) {
	in := sampleInput()
	out := BuildAskThreadExport(in)
	if out.Conversation.Title != in.Conversation.Title {
		t.Fatalf("unexpected title: %q", out.Conversation.Title)
	}
	if len(out.Messages) != 3 {
		t.Fatalf("expected thinking placeholder to be dropped, got %d messages", len(out.Messages))
	}
	if out.ExportedAt != "2025-01-01T00:20:00.000Z" {
		t.Fatalf("exportedAt must be passed through verbatim, got %q", out.ExportedAt)
	}
	if out.ServerID != "g1" {
		t.Fatalf("unexpected server id: %q", out.ServerID)
	}
}

func TestBuildPayloadJSON(t *testing.T) {
	p, err := BuildPayload(sampleInput(), FormatJSON)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(p.Content, &doc); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	for _, key := range []string{"exportedAt", "serverId", "conversation", "messages"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing key %q in %s", key, p.Content)
		}
	}
	if p.FileName != "Q3_planning_what_s_next_-2025-01-01.json" {
		t.Fatalf("unexpected file name: %q", p.FileName)
	}
}

func TestFormatAskThreadText(t *testing.T) {
	out := FormatAskThreadText(sampleInput())
	lines := strings.Split(out, "\n")
	if lines[0] != "Conversation: Q3 planning: what's next?" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Exported: ") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
	if strings.Count(out, "You:") != 2 {
		t.Fatalf("expected two user blocks, got:\n%s", out)
	}
	if strings.Count(out, AssistantLabel+":") != 1 {
		t.Fatalf("expected one assistant block, got:\n%s", out)
	}
	if strings.Contains(out, "Thinking") {
		t.Fatalf("placeholder leaked into export:\n%s", out)
	}
	first := strings.Index(out, "What did we decide?")
	second := strings.Index(out, "Ship it")
	third := strings.Index(out, "When?")
	if !(first < second && second < third) {
		t.Fatalf("messages out of order:\n%s", out)
	}
	if !strings.Contains(out, "[2025-01-01 00:10:00 UTC] You:") {
		t.Fatalf("expected formatted timestamp header, got:\n%s", out)
	}
}

func TestFileName(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"", "ask-thread-2025-01-01.txt"},
		{"   ", "ask-thread-2025-01-01.txt"},
		{"Weekly sync", "Weekly_sync-2025-01-01.txt"},
		{"a  /  b", "a_b-2025-01-01.txt"},
		{"keep-hyphen_and_underscore", "keep-hyphen_and_underscore-2025-01-01.txt"},
	}
	for _, tc := range cases {
		if got := FileName(tc.title, "2025-01-01T23:59:00Z", FormatText); got != tc.want {
			t.Fatalf("FileName(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Fatalf("got %q %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Fatalf("got %q %v", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatalf("expected error for pdf")
	}
}

func TestExporterWrite(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p, err := BuildPayload(sampleInput(), FormatText)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path, err := e.Write(p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected file in %s, got %s", dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(p.Content) {
		t.Fatalf("written content mismatch")
	}
}
