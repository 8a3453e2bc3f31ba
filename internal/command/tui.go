package command

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/clipboard"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ui"
)

// NewTUICmd creates the interactive pane command.
func NewTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive ask pane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, _ := cmd.Flags().GetString("open")
			return runTUI(cmd, link)
		},
	}
	cmd.Flags().String("open", "", "ask link to open, e.g. /ask/<id>?list=archived&messageId=<id>")
	return cmd
}

func runTUI(cmd *cobra.Command, link string) error {
	start := route.Route{Mode: ask.ModeMine}
	if link != "" {
		r, err := route.Parse(link)
		if err != nil {
			return err
		}
		start = r
	}

	a, err := openApp(cmd, start)
	if err != nil {
		return err
	}
	defer a.Close()

	exporter, err := export.New(a.cfg.ExportDir)
	if err != nil {
		return err
	}
	m := ui.NewModel(ui.Options{
		Session:      a.session,
		Files:        exporter,
		Clipboard:    clipboard.NewWriter(),
		Back:         func() { a.history.Back() },
		GlamourStyle: a.cfg.GlamourStyle,
	})

	a.log.Info("tui started", "route", start.String())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
