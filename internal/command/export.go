package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/clipboard"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ui"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <conversation-id>",
		Short: "Export a conversation as JSON or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			toClipboard, _ := cmd.Flags().GetBool("copy")
			archived, _ := cmd.Flags().GetBool("archived")

			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			mode := ask.ModeMine
			if archived {
				mode = ask.ModeArchived
			}

			id := args[0]
			a, err := openApp(cmd, route.Route{Mode: mode, ConversationID: id})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			if got := a.history.Current().ConversationID; got != id {
				return fmt.Errorf("conversation %s not found in the %s list", id, mode)
			}

			p, ok := a.session.Export(format)
			if !ok {
				if msg := a.session.State().ExportError; msg != "" {
					return errors.New(msg)
				}
				return fmt.Errorf("conversation %s cannot be exported", id)
			}

			var sink ui.Sink
			if toClipboard {
				sink = clipboard.NewWriter()
			} else {
				exporter, err := export.New(a.cfg.ExportDir)
				if err != nil {
					return err
				}
				sink = exporter
			}
			status, err := sink.Deliver(cmd.Context(), p)
			if err != nil {
				a.log.Warn("export delivery failed", "conversation_id", id, "err", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "json", "export format: json or text")
	cmd.Flags().Bool("copy", false, "copy to the clipboard instead of writing a file")
	cmd.Flags().Bool("archived", false, "look the conversation up in the archived list")
	return cmd
}
