package command

import (
	"errors"
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
)

// NewCacheCmd creates the cache maintenance commands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local conversation cache",
	}
	cmd.AddCommand(newCachePruneCmd())
	return cmd
}

func newCachePruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop cached conversations not refreshed recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.ServerID == "" {
				return errors.New("missing required settings: server_id")
			}

			store, err := cache.OpenSQLite(cfg.DBPath, false)
			if err != nil {
				return err
			}
			defer store.Close()

			cutoff := time.Now().Add(-olderThan)
			n, err := store.Prune(cfg.ServerID, cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %s cached conversation(s) last refreshed before %s.\n",
				humanize.Comma(n), humanize.Time(cutoff))
			return nil
		},
	}
	cmd.Flags().Duration("older-than", 30*24*time.Hour, "age after which cached conversations are dropped")
	return cmd
}
