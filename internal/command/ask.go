package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
)

// NewAskCmd creates the one-shot ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conversationID, _ := cmd.Flags().GetString("conversation")
			raw, _ := cmd.Flags().GetBool("raw")
			question := strings.Join(args, " ")

			a, err := openApp(cmd, route.Route{Mode: ask.ModeMine, ConversationID: conversationID})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			if conversationID == "" {
				a.session.NewConversation()
			} else if got := a.history.Current().ConversationID; got != conversationID {
				return fmt.Errorf("conversation %s not found", conversationID)
			}

			if !a.session.CanSubmitAsk(question) {
				return errors.New("this conversation does not accept questions")
			}
			id, ok := a.session.Ask(cmd.Context(), question)
			if !ok {
				if msg := a.session.State().AskError; msg != "" {
					return errors.New(msg)
				}
				return errors.New("ask was not completed")
			}
			if err := a.session.Refresh(cmd.Context()); err != nil {
				a.log.Warn("refresh after ask failed", "conversation_id", id, "err", err)
			}

			v := a.session.View()
			return printThread(cmd.OutOrStdout(), id, v.Title, v.Messages, raw, a.cfg.GlamourStyle)
		},
	}
	cmd.Flags().String("conversation", "", "continue this conversation instead of starting a new one")
	cmd.Flags().Bool("raw", false, "print plain text instead of rendered markdown")
	return cmd
}

func printThread(w io.Writer, id, title string, msgs []ask.Message, raw bool, style string) error {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	for _, m := range msgs {
		who := "You"
		if m.Role == ask.RoleAssistant {
			who = export.AssistantLabel
		}
		b.WriteString("**" + who + ":** " + strings.TrimSpace(m.Text) + "\n\n")
	}
	b.WriteString("_conversation " + id + "_\n")

	out := b.String()
	if !raw {
		rendered, err := glamour.Render(out, style)
		if err == nil {
			out = rendered
		}
	}
	_, err := io.WriteString(w, out)
	return err
}
