// Package command wires the chronote-ask CLI.
package command

import (
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/config"
)

// NewRootCmd builds the command tree. Without a subcommand it opens the TUI.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chronote-ask",
		Short: "Ask questions about your meetings from the terminal",
		Long: `chronote-ask works with the Chronote Ask conversations of one server.
Run without a subcommand to open the interactive pane.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, "")
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file path (default is ~/.config/chronote-ask/config.yaml)")
	flags.String("api-url", "", "Chronote API base URL")
	flags.String("token", "", "API bearer token")
	flags.StringP("server", "s", "", "server (guild) id")
	flags.String("db", "", "cache database path")
	flags.Bool("reset-cache", false, "drop the local cache before starting")
	flags.String("export-dir", "", "directory for exported conversations (default ./exports)")
	flags.String("log-file", "", "append logs to this file")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("style", "", "glamour style for the transcript")

	cmd.AddCommand(
		NewTUICmd(),
		NewListCmd(),
		NewAskCmd(),
		NewExportCmd(),
		NewCacheCmd(),
	)
	return cmd
}

// loadConfig layers the persistent flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{
		ConfigPath: path,
		Apply: func(c *config.AppConfig) {
			applyFlags(cmd, c)
		},
	})
}

func applyFlags(cmd *cobra.Command, c *config.AppConfig) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("api-url", &c.APIURL)
	str("token", &c.Token)
	str("server", &c.ServerID)
	str("db", &c.DBPath)
	str("export-dir", &c.ExportDir)
	str("log-file", &c.LogPath)
	str("log-level", &c.LogLevel)
	str("style", &c.GlamourStyle)
	if flags.Changed("reset-cache") {
		c.ResetCache, _ = flags.GetBool("reset-cache")
	}
}
