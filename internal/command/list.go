package command

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modeFlag, _ := cmd.Flags().GetString("mode")
			query, _ := cmd.Flags().GetString("query")
			asJSON, _ := cmd.Flags().GetBool("json")

			mode, ok := ask.ParseListMode(modeFlag)
			if !ok {
				return fmt.Errorf("unknown list mode %q (want mine, shared or archived)", modeFlag)
			}

			a, err := openApp(cmd, route.Route{Mode: mode})
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.SetQuery(query)
			if err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			v := a.session.View()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v.Items)
			}
			if len(v.Items) == 0 {
				fmt.Fprintln(out, "No conversations.")
				return nil
			}
			for _, it := range v.Items {
				fmt.Fprintln(out, formatItem(it))
			}
			fmt.Fprintf(out, "\n%s conversation(s)\n", humanize.Comma(int64(len(v.Items))))
			return nil
		},
	}
	cmd.Flags().String("mode", "mine", "list to show: mine, shared or archived")
	cmd.Flags().StringP("query", "q", "", "filter by title or summary")
	cmd.Flags().Bool("json", false, "print items as JSON")
	return cmd
}

func formatItem(it ask.Item) string {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = ask.DefaultTitle
	}
	parts := []string{it.ID, title}
	if ts, err := time.Parse(time.RFC3339Nano, it.UpdatedAt); err == nil {
		parts = append(parts, humanize.Time(ts))
	}
	if it.OwnerTag != "" {
		parts = append(parts, "by "+it.OwnerTag)
	}
	if it.Shared && it.OwnerTag == "" {
		parts = append(parts, "[shared]")
	}
	return strings.Join(parts, "  ")
}
