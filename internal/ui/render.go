package ui

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
)

const maxDisplayChars = 1_000_000

type renderMsg struct {
	key      string
	rendered string
	offsets  map[string]int
	nonce    int
}

type transcriptInput struct {
	key      string
	messages []ask.Message
	width    int
	style    string
	empty    string
}

// transcriptKey identifies a rendering: the same messages at the same width
// render identically.
func transcriptKey(activeID string, msgs []ask.Message, width int) string {
	h := fnv.New64a()
	for _, m := range msgs {
		h.Write([]byte(m.ID))
		h.Write([]byte{0})
		h.Write([]byte(m.Text))
		h.Write([]byte{0})
	}
	return activeID + "|w=" + strconv.Itoa(width) + "|n=" + strconv.Itoa(len(msgs)) + "|h=" + strconv.FormatUint(h.Sum64(), 16)
}

func renderTranscriptCmd(in transcriptInput, nonce int) tea.Cmd {
	return func() tea.Msg {
		rendered, offsets := renderTranscript(in)
		return renderMsg{key: in.key, rendered: rendered, offsets: offsets, nonce: nonce}
	}
}

// renderTranscript renders each message on its own so the line where every
// message starts is known.
func renderTranscript(in transcriptInput) (string, map[string]int) {
	if len(in.messages) == 0 {
		return in.empty, nil
	}
	wrap := in.width
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(in.style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		r = nil
	}

	var b strings.Builder
	offsets := make(map[string]int, len(in.messages))
	line := 0
	for _, m := range in.messages {
		offsets[m.ID] = line
		md := clampLongLines(messageMarkdown(m), 8000)
		out := md
		if r != nil {
			if rendered, renderErr := r.Render(md); renderErr == nil {
				out = rendered
			}
		}
		out = strings.TrimRight(out, "\n") + "\n"
		b.WriteString(out)
		line += strings.Count(out, "\n")
		if b.Len() > maxDisplayChars {
			b.WriteString("\n... [conversation truncated for display; use export for full content] ...\n")
			break
		}
	}
	return b.String(), offsets
}

func messageMarkdown(m ask.Message) string {
	who := "You"
	if m.Role == ask.RoleAssistant {
		who = export.AssistantLabel
	}
	header := "**" + who + "**"
	if ts := clockTime(m.CreatedAt); ts != "" {
		header += " · _" + ts + "_"
	}
	text := strings.TrimSpace(m.Text)
	if m.IsThinking() {
		text = "_" + text + "_"
	}
	return header + "\n\n" + text + "\n"
}

func clockTime(iso string) string {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(iso))
	if err != nil {
		return ""
	}
	return ts.Local().Format("Jan 2 15:04")
}

func clampLongLines(s string, max int) string {
	if max <= 0 || len(s) == 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if len(line) <= max {
			continue
		}
		head := line[:max/2]
		tail := line[len(line)-max/2:]
		lines[i] = head + "... [line truncated " + strconv.Itoa(len(line)-max) + " chars] ..." + tail
	}
	return strings.Join(lines, "\n")
}
