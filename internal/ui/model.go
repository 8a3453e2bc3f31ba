package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	humanize "github.com/dustin/go-humanize"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/clipboard"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/config"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/engine"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/highlight"
)

const (
	focusDelay     = 50 * time.Millisecond
	deliverTimeout = 5 * time.Second
)

// Sink receives an export payload: a file writer or the clipboard.
type Sink interface {
	Deliver(ctx context.Context, p export.Payload) (string, error)
}

type Options struct {
	Session      *engine.Session
	Files        Sink
	Clipboard    Sink
	Back         func()
	GlamourStyle string
}

type focusArea int

const (
	focusList focusArea = iota
	focusTranscript
	focusComposer
	focusSearch
	focusRename
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogArchive
	dialogShare
)

type Model struct {
	session *engine.Session
	files   Sink
	clip    Sink
	back    func()
	style   string

	list     list.Model
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	composer textinput.Model
	rename   textinput.Model
	keys     keyMap

	width  int
	height int

	focus       focusArea
	dialog      dialogKind
	shareCursor int

	view        engine.View
	renderKey   string
	renderNonce int
	rendering   bool
	offsets     map[string]int
	scrolls     []engine.Effect

	transcript  string
	markedQuery string
	matches     int

	status string
}

type refreshMsg struct{ res engine.RefreshResult }
type askMsg struct{ res engine.AskResult }
type renameMsg struct{ res engine.RenameResult }
type archiveMsg struct{ res engine.ArchiveResult }
type shareMsg struct{ res engine.ShareResult }
type deliverMsg struct {
	status string
	err    error
}
type focusMsg struct{ token int }

type conversationItem struct {
	item ask.Item
	row  highlight.Row
	mode ask.ListMode
}

func (i conversationItem) Title() string {
	title := i.row.Title
	if strings.TrimSpace(i.item.Title) == "" {
		title = ask.DefaultTitle
	}
	if i.item.Shared && i.mode != ask.ModeShared {
		title += " " + badgeStyle.Render("Shared")
	}
	return title
}

func (i conversationItem) Description() string {
	parts := make([]string, 0, 3)
	if ts := relativeTime(i.item.UpdatedAt); ts != "" {
		parts = append(parts, ts)
	}
	if i.item.OwnerTag != "" {
		parts = append(parts, "by "+i.item.OwnerTag)
	}
	if i.row.Summary != "" {
		parts = append(parts, i.row.Summary)
	}
	return strings.Join(parts, " | ")
}

func (i conversationItem) FilterValue() string {
	return strings.ToLower(i.item.Title + " " + i.item.Summary)
}

func relativeTime(iso string) string {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(iso))
	if err != nil {
		return ""
	}
	return humanize.Time(ts)
}

func NewModel(opts Options) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 20)
	l.Title = "My chats"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Points

	search := textinput.New()
	search.Placeholder = "Search conversations..."
	search.Prompt = "/ "
	search.CharLimit = 256

	composer := textinput.New()
	composer.Placeholder = "Ask about your meetings..."
	composer.Prompt = "> "
	composer.CharLimit = 4000

	rename := textinput.New()
	rename.Prompt = "title: "
	rename.CharLimit = 200

	style := strings.TrimSpace(opts.GlamourStyle)
	if style == "" {
		style = config.DefaultGlamourStyle
	}

	m := Model{
		session:  opts.Session,
		files:    opts.Files,
		clip:     opts.Clipboard,
		back:     opts.Back,
		style:    style,
		list:     l,
		viewport: vp,
		help:     h,
		spinner:  sp,
		search:   search,
		composer: composer,
		rename:   rename,
		keys:     defaultKeys(),
		focus:    focusList,
	}
	m.view = m.session.View()
	m.applyItems()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.refreshCmd())
}

func (m Model) refreshCmd() tea.Cmd {
	call := m.session.BeginRefresh()
	if call.Empty() {
		return nil
	}
	return func() tea.Msg {
		return refreshMsg{res: call.Do(context.Background())}
	}
}

func askCmd(call engine.AskCall) tea.Cmd {
	return func() tea.Msg {
		return askMsg{res: call.Do(context.Background())}
	}
}

func renameCmd(call engine.RenameCall) tea.Cmd {
	return func() tea.Msg {
		return renameMsg{res: call.Do(context.Background())}
	}
}

func archiveCmd(call engine.ArchiveCall) tea.Cmd {
	return func() tea.Msg {
		return archiveMsg{res: call.Do(context.Background())}
	}
}

func shareCmd(call engine.ShareCall) tea.Cmd {
	return func() tea.Msg {
		return shareMsg{res: call.Do(context.Background())}
	}
}

func focusCmd(token int) tea.Cmd {
	return tea.Tick(focusDelay, func(time.Time) tea.Msg {
		return focusMsg{token: token}
	})
}

func (m *Model) exportCmd(format export.Format, sink Sink) tea.Cmd {
	if sink == nil {
		return nil
	}
	p, ok := m.session.Export(format)
	if !ok {
		if msg := m.session.State().ExportError; msg != "" {
			m.status = msg
		} else {
			m.status = "Nothing to export."
		}
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()
		status, err := sink.Deliver(ctx, p)
		return deliverMsg{status: status, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderKey = ""

	case refreshMsg:
		m.session.FinishRefresh(msg.res)

	case askMsg:
		if !m.session.FinishAsk(msg.res) {
			if text := m.session.State().AskError; text != "" {
				m.status = text
			}
		}

	case renameMsg:
		if m.session.FinishRename(msg.res) {
			m.status = "Conversation renamed."
		}

	case archiveMsg:
		if m.session.FinishArchive(msg.res) {
			if msg.res.Conversation.Archived() {
				m.status = "Conversation archived."
			} else {
				m.status = "Conversation restored."
			}
		}

	case shareMsg:
		if m.session.FinishShare(msg.res) {
			m.status = "Sharing updated."
		}

	case deliverMsg:
		if msg.err != nil {
			m.session.ReportExportError(msg.err)
			if errors.Is(msg.err, clipboard.ErrToolNotFound) {
				m.status = "Could not copy: clipboard tool not found"
			} else {
				m.status = "Export failed: " + msg.err.Error()
			}
		} else {
			m.status = msg.status
		}

	case focusMsg:
		if m.session.FocusCurrent(msg.token) && m.dialog == dialogNone && m.focus != focusRename && m.focus != focusSearch {
			if m.session.View().ComposerEnabled {
				cmds = append(cmds, m.setFocus(focusComposer))
			}
		}

	case renderMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		m.rendering = false
		m.offsets = msg.offsets
		m.transcript = msg.rendered
		m.setTranscript(false)
		m.flushScrolls()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	cmds = append(cmds, m.afterEngine()...)
	return m, tea.Batch(cmds...)
}

// afterEngine pulls the engine's view and effects into the widgets and
// starts whatever fetches the new location needs.
func (m *Model) afterEngine() []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.refreshCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.view = m.session.View()
	m.applyItems()
	if m.view.Query != m.markedQuery && m.transcript != "" {
		m.setTranscript(true)
	}
	st := m.view.State
	if m.dialog == dialogArchive && !st.ArchiveConfirmOpen {
		m.dialog = dialogNone
	}
	if m.dialog == dialogShare && !st.ShareOpen {
		m.dialog = dialogNone
	}
	if m.focus == focusRename && !st.RenameEditing {
		cmds = append(cmds, m.setFocus(focusList))
	}
	if m.focus == focusComposer && !m.view.ComposerEnabled {
		cmds = append(cmds, m.setFocus(focusList))
	}

	for _, e := range m.session.Effects() {
		switch e.Kind {
		case engine.EffectFocus:
			cmds = append(cmds, focusCmd(e.FocusToken))
		case engine.EffectScrollBottom, engine.EffectScrollToMessage:
			m.scrolls = append(m.scrolls, e)
		}
	}

	if cmd := m.renderTranscript(); cmd != nil {
		cmds = append(cmds, cmd)
	} else if !m.rendering {
		m.flushScrolls()
	}
	return cmds
}

func (m *Model) applyItems() {
	marker := highlight.New(m.view.Query, searchMatchStyle)
	items := make([]list.Item, 0, len(m.view.Items))
	selected := -1
	for i, it := range m.view.Items {
		items = append(items, conversationItem{item: it, row: marker.Item(it), mode: m.view.Mode})
		if it.ID == m.view.ActiveID {
			selected = i
		}
	}
	m.list.SetItems(items)
	m.list.Title = modeLabel(m.view.Mode)
	if selected >= 0 {
		m.list.Select(selected)
	}
}

func (m *Model) currentSelectedID() string {
	item, ok := m.list.SelectedItem().(conversationItem)
	if !ok {
		return ""
	}
	return item.item.ID
}

func (m *Model) renderTranscript() tea.Cmd {
	if m.width == 0 {
		return nil
	}
	key := transcriptKey(m.view.ActiveID, m.view.Messages, m.viewport.Width)
	if len(m.view.Messages) == 0 {
		key += "|" + m.emptyTranscript()
	}
	if key == m.renderKey {
		return nil
	}
	m.renderKey = key
	m.renderNonce++
	m.rendering = true
	return renderTranscriptCmd(transcriptInput{
		key:      key,
		messages: m.view.Messages,
		width:    m.viewport.Width,
		style:    m.style,
		empty:    m.emptyTranscript(),
	}, m.renderNonce)
}

func (m Model) emptyTranscript() string {
	switch {
	case m.view.ServerID == "":
		return "Select a server to see its conversations."
	case m.view.Loading:
		return "Loading conversation..."
	case m.view.ActiveID == "":
		return "Start a new conversation by asking a question."
	default:
		return "No messages yet."
	}
}

// setTranscript marks search matches in the rendered transcript. Marking
// keeps line numbers, so message offsets stay valid.
func (m *Model) setTranscript(jump bool) {
	res := highlight.New(m.view.Query, searchMatchStyle).Lines(m.transcript)
	m.viewport.SetContent(res.Text)
	m.matches = res.Count
	m.markedQuery = m.view.Query
	if jump && len(res.LineIndex) > 0 {
		m.viewport.SetYOffset(m.clampViewportOffset(res.LineIndex[0]))
	}
}

// flushScrolls applies queued scroll effects once the transcript they refer
// to is in the viewport.
func (m *Model) flushScrolls() {
	for _, e := range m.scrolls {
		switch e.Kind {
		case engine.EffectScrollBottom:
			m.viewport.GotoBottom()
		case engine.EffectScrollToMessage:
			line, ok := m.offsets[e.MessageID]
			if !ok {
				continue
			}
			if e.Center {
				line -= m.viewport.Height / 2
			}
			m.viewport.SetYOffset(m.clampViewportOffset(line))
		}
	}
	m.scrolls = nil
}

func (m *Model) clampViewportOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.search.Blur()
	m.composer.Blur()
	m.rename.Blur()
	m.focus = f
	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusComposer:
		return m.composer.Focus()
	case focusRename:
		return m.rename.Focus()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusComposer:
		return m.handleComposerKey(msg)
	case focusRename:
		return m.handleRenameKey(msg)
	}
	if m.dialog != dialogNone {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Mine):
		m.session.SetMode(ask.ModeMine)
		return nil
	case key.Matches(msg, m.keys.Shared):
		m.session.SetMode(ask.ModeShared)
		return nil
	case key.Matches(msg, m.keys.Archived):
		m.session.SetMode(ask.ModeArchived)
		return nil
	case key.Matches(msg, m.keys.New):
		m.session.NewConversation()
		return nil
	case key.Matches(msg, m.keys.Compose):
		if !m.view.ComposerEnabled {
			m.status = composerHint(m.view, m.session.Access())
			return nil
		}
		return m.setFocus(focusComposer)
	case key.Matches(msg, m.keys.Search):
		m.search.SetValue(m.view.Query)
		m.search.CursorEnd()
		return m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.Rename):
		if !m.session.StartRename() {
			return nil
		}
		m.rename.SetValue(m.session.State().RenameDraft)
		m.rename.CursorEnd()
		return m.setFocus(focusRename)
	case key.Matches(msg, m.keys.Archive):
		if m.session.OpenArchive() {
			m.dialog = dialogArchive
		}
		return nil
	case key.Matches(msg, m.keys.Share):
		if m.session.OpenShare() {
			m.dialog = dialogShare
			m.shareCursor = 0
			for i, v := range m.session.ShareOptions() {
				if v == m.view.ShareVisibility {
					m.shareCursor = i
				}
			}
		}
		return nil
	case key.Matches(msg, m.keys.ExportJSON):
		return m.exportCmd(export.FormatJSON, m.files)
	case key.Matches(msg, m.keys.ExportText):
		return m.exportCmd(export.FormatText, m.files)
	case key.Matches(msg, m.keys.Copy):
		return m.exportCmd(export.FormatText, m.clip)
	case key.Matches(msg, m.keys.Back):
		if m.back != nil {
			m.back()
			m.session.Resync()
		}
		return nil
	case key.Matches(msg, m.keys.Refresh):
		m.session.Reload()
		m.status = ""
		return nil
	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusList {
			m.focus = focusTranscript
		} else {
			m.focus = focusList
		}
		return nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return nil
	}

	if m.focus != focusList {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		}
		return nil
	}

	prev := m.currentSelectedID()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if id := m.currentSelectedID(); id != "" && id != prev {
		m.session.Select(id)
	}
	return cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.session.SetQuery("")
		return m.setFocus(focusList)
	case "enter":
		return m.setFocus(focusList)
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.session.SetQuery(after)
	}
	return cmd
}

func (m *Model) handleComposerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.setFocus(focusList)
	case "enter":
		call, ok := m.session.BeginAsk(m.composer.Value())
		if !ok {
			return nil
		}
		m.composer.Reset()
		m.status = ""
		return askCmd(call)
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return cmd
}

func (m *Model) handleRenameKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.session.CancelRename()
		return m.setFocus(focusList)
	case "enter":
		call, ok := m.session.BeginRename(m.rename.Value())
		if !ok {
			return m.setFocus(focusList)
		}
		return renameCmd(call)
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return cmd
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch m.dialog {
	case dialogArchive:
		switch msg.String() {
		case "y", "enter":
			if call, ok := m.session.BeginArchive(); ok {
				return archiveCmd(call)
			}
		case "n", "esc":
			m.session.CloseArchive()
			m.dialog = dialogNone
		}
	case dialogShare:
		options := m.session.ShareOptions()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.shareCursor > 0 {
				m.shareCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.shareCursor < len(options)-1 {
				m.shareCursor++
			}
		case msg.String() == "enter":
			if m.shareCursor >= len(options) {
				return nil
			}
			if call, ok := m.session.BeginShare(options[m.shareCursor]); ok {
				return shareCmd(call)
			}
		case key.Matches(msg, m.keys.Esc):
			m.session.CloseShare()
			m.dialog = dialogNone
		}
	}
	return nil
}

func composerHint(v engine.View, a engine.Access) string {
	switch {
	case v.ServerID == "":
		return "Select a server to ask questions."
	case v.Mode != ask.ModeMine:
		return "Switch to My chats (1) to ask."
	case !a.AskAllowed:
		return "Ask is not available in this server."
	case v.Archived:
		return "Archived conversations are read-only. Unarchive to continue."
	case v.State.AskPending:
		return "Waiting for " + export.AssistantLabel + "..."
	}
	return ""
}

func modeLabel(mode ask.ListMode) string {
	switch mode {
	case ask.ModeShared:
		return "Shared with me"
	case ask.ModeArchived:
		return "Archived"
	default:
		return "My chats"
	}
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	left, right := m.paneWidths()

	bodyHeight := m.height - 2
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	m.list.SetSize(left-2, bodyHeight-2)
	m.viewport.Width = right - 2
	// header line, composer line and the error line below the transcript
	m.viewport.Height = bodyHeight - 2 - 3
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.composer.Width = right - 6
	m.rename.Width = right - 10
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	status := m.statusLine()
	left, right := m.paneWidths()
	leftPane := panelStyle(m.focus == focusList).Width(left).Height(m.height - 2).Render(m.list.View())
	rightPane := panelStyle(m.focus != focusList && m.focus != focusSearch).Width(right).Height(m.height - 2).Render(m.conversationPane(right - 4))
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	helpView := m.help.View(m.keys)
	if m.focus == focusSearch {
		helpView = m.search.View() + "  " + helpView
	} else if m.view.Query != "" {
		helpView = "search: " + m.view.Query + "  " + helpView
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		body,
		helpView,
	)
}

func (m Model) conversationPane(width int) string {
	st := m.view.State
	var header string
	if m.focus == focusRename {
		header = m.rename.View()
	} else {
		header = titleStyle.Render(ansi.Truncate(m.view.Title, width-10, "…"))
		if m.view.ShowShareBadge {
			header += " " + badgeStyle.Render(m.view.ShareBadge)
		}
		if m.view.Archived {
			header += " " + mutedStyle.Render("archived")
		}
		if m.view.SharedWithMe {
			header += " " + mutedStyle.Render("read-only")
		}
	}

	var footer string
	switch m.dialog {
	case dialogArchive:
		verb := "Archive"
		if m.view.Archived {
			verb = "Unarchive"
		}
		footer = dialogStyle.Render(verb + " this conversation? (y/n)")
		if st.ArchivePending {
			footer = dialogStyle.Render(m.spinner.View() + " " + verb + "...")
		}
		if st.ArchiveError != "" {
			footer += "\n" + errorStyle.Render(st.ArchiveError)
		}
	case dialogShare:
		footer = m.shareDialog()
		if st.ShareError != "" {
			footer += "\n" + errorStyle.Render(st.ShareError)
		}
	default:
		if m.view.ComposerEnabled || m.focus == focusComposer {
			footer = m.composer.View()
		} else {
			footer = mutedStyle.Render(composerHint(m.view, m.session.Access()))
		}
		if st.AskError != "" {
			footer += "\n" + errorStyle.Render(st.AskError)
		}
		if st.RenameError != "" {
			footer += "\n" + errorStyle.Render(st.RenameError)
		}
		if st.ExportError != "" {
			footer += "\n" + errorStyle.Render(st.ExportError)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		footer,
	)
}

func (m Model) shareDialog() string {
	var b strings.Builder
	b.WriteString("Share with:\n")
	for i, v := range m.session.ShareOptions() {
		cursor := "  "
		if i == m.shareCursor {
			cursor = "> "
		}
		b.WriteString(cursor + visibilityLabel(v) + "\n")
	}
	if m.view.State.SharePending {
		b.WriteString(m.spinner.View() + " saving...")
	} else {
		b.WriteString(mutedStyle.Render("enter to apply, esc to cancel"))
	}
	return dialogStyle.Render(b.String())
}

func visibilityLabel(v ask.Visibility) string {
	switch v {
	case ask.VisibilityServer:
		return "Everyone in this server"
	case ask.VisibilityPublic:
		return "Anyone with the link"
	default:
		return "Only me"
	}
}

func (m Model) statusLine() string {
	tabs := make([]string, 0, 3)
	for _, mode := range []ask.ListMode{ask.ModeMine, ask.ModeShared, ask.ModeArchived} {
		label := modeLabel(mode)
		if mode == m.view.Mode {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	status := strings.Join(tabs, " ")
	if m.view.ServerID != "" {
		status += "  server=" + shorten(m.view.ServerID, 20)
	}
	if m.view.Loading || m.view.State.AskPending {
		status += "  " + m.spinner.View()
	}
	if m.rendering {
		status += "  [rendering]"
	}
	if m.view.Query != "" && m.matches > 0 {
		status += "  " + humanize.Comma(int64(m.matches)) + " match(es) in transcript"
	}
	if m.view.LoadErr != "" {
		status += "  err=" + m.view.LoadErr
	}
	if strings.TrimSpace(m.status) != "" {
		status += "  " + strings.TrimSpace(m.status)
	}
	if m.width > 2 {
		status = ansi.Truncate(status, m.width-2, "…")
	}
	return statusStyle.Render(status)
}

func (m *Model) paneWidths() (int, int) {
	left := m.width / 3
	if left < 32 {
		left = 32
	}
	if left > m.width-32 {
		left = m.width - 32
	}
	if left < 20 {
		left = 20
	}
	right := m.width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	searchMatchStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220"))
	titleStyle = lipgloss.NewStyle().Bold(true)
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("114")).
			Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

func panelStyle(active bool) lipgloss.Style {
	border := lipgloss.NormalBorder()
	if active {
		return lipgloss.NewStyle().
			Border(border, true).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Border(border, true).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}
