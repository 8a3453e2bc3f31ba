package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// ParseFormat accepts "json", "text" or "txt".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// AssistantLabel is how assistant turns are attributed in text exports.
const AssistantLabel = "Chronote"

const fallbackFileStem = "ask-thread"

// Input is everything an export needs. ExportedAt is an ISO-8601 timestamp.
type Input struct {
	ServerID     string
	Conversation ask.Conversation
	Messages     []ask.Message
	ExportedAt   string
}

// ThreadExport is the JSON document handed to the download sink.
type ThreadExport struct {
	ExportedAt   string           `json:"exportedAt"`
	ServerID     string           `json:"serverId"`
	Conversation ask.Conversation `json:"conversation"`
	Messages     []ask.Message    `json:"messages"`
}

func BuildAskThreadExport(in Input) ThreadExport {
	return ThreadExport{
		ExportedAt:   in.ExportedAt,
		ServerID:     in.ServerID,
		Conversation: in.Conversation,
		Messages:     ask.WithoutThinking(in.Messages),
	}
}

func FormatAskThreadText(in Input) string {
	var b strings.Builder
	b.WriteString("Conversation: " + in.Conversation.Title + "\n")
	b.WriteString("Exported: " + formatTimestamp(in.ExportedAt) + "\n")
	for _, m := range ask.WithoutThinking(in.Messages) {
		b.WriteString("\n")
		b.WriteString("[" + formatTimestamp(m.CreatedAt) + "] " + roleLabel(m.Role) + ":\n")
		b.WriteString(strings.TrimSpace(m.Text) + "\n")
	}
	return b.String()
}

func roleLabel(role ask.Role) string {
	if role == ask.RoleUser {
		return "You"
	}
	return AssistantLabel
}

func formatTimestamp(iso string) string {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(iso))
	if err != nil {
		return safeValue(iso)
	}
	return ts.UTC().Format("2006-01-02 15:04:05 UTC")
}

// Payload is a rendered export ready for a sink.
type Payload struct {
	FileName string
	Format   Format
	Content  []byte
}

func BuildPayload(in Input, format Format) (Payload, error) {
	var content []byte
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(BuildAskThreadExport(in), "", "  ")
		if err != nil {
			return Payload{}, fmt.Errorf("encode export: %w", err)
		}
		content = append(data, '\n')
	case FormatText:
		content = []byte(FormatAskThreadText(in))
	default:
		return Payload{}, fmt.Errorf("unknown export format %q", format)
	}
	return Payload{
		FileName: FileName(in.Conversation.Title, in.ExportedAt, format),
		Format:   format,
		Content:  content,
	}, nil
}

var unsafeFileRunRe = regexp.MustCompile(`[^\w-]+`)

// FileName is <slug>-<YYYY-MM-DD>.<ext>. Every run of characters that are
// neither word characters nor hyphens becomes a single underscore.
func FileName(title, exportedAt string, format Format) string {
	stem := safeFileName(title)
	return stem + "-" + exportDate(exportedAt) + "." + string(format)
}

func safeFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackFileStem
	}
	return unsafeFileRunRe.ReplaceAllString(s, "_")
}

func exportDate(exportedAt string) string {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(exportedAt))
	if err != nil {
		ts = time.Now()
	}
	return ts.UTC().Format("2006-01-02")
}

func safeValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "n/a"
	}
	return s
}

// Exporter writes payloads to disk.
type Exporter struct {
	overrideDir string
	cwd         string
}

func New(overrideDir string) (*Exporter, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	return &Exporter{overrideDir: strings.TrimSpace(overrideDir), cwd: cwd}, nil
}

// Write stores p under the export directory and returns the written path.
func (e *Exporter) Write(p Payload) (string, error) {
	path := filepath.Join(e.dir(), p.FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, p.Content, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// Deliver writes p and returns a status line.
func (e *Exporter) Deliver(_ context.Context, p Payload) (string, error) {
	path, err := e.Write(p)
	if err != nil {
		return "", err
	}
	return "Exported: " + path, nil
}

func (e *Exporter) dir() string {
	if e.overrideDir == "" {
		return filepath.Join(e.cwd, "exports")
	}
	if filepath.IsAbs(e.overrideDir) {
		return e.overrideDir
	}
	return filepath.Join(e.cwd, e.overrideDir)
}
