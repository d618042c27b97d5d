package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preview-labs/prevu/internal/logging"
	"github.com/preview-labs/prevu/internal/session"
	"github.com/preview-labs/prevu/internal/store"
	"github.com/preview-labs/prevu/internal/toolserver"
)

const version = "0.3.0"

var (
	mcpDBPath  string
	mcpProject string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the editing tools over MCP on stdin/stdout",
	Long: `Mcp exposes the project-editing vocabulary (write, replace, insert,
rename, delete, read, list, entry, status) to a tool-calling agent.
With --db the session persists to SQLite and resumes the named project
on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := session.New(cfg)
		ts := toolserver.New(sess, version)
		logger := logging.For("mcp")

		if mcpDBPath != "" {
			st, err := store.Open(mcpDBPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			snap, entry, err := st.Load(mcpProject)
			switch {
			case err == nil:
				if err := sess.LoadSnapshot(snap); err != nil {
					return fmt.Errorf("restore project %s: %w", mcpProject, err)
				}
				if entry != "" {
					sess.SetEntry(entry)
				}
				logger.Info().Str("project", mcpProject).Int("files", len(snap)).Msg("project restored")
			case errors.Is(err, store.ErrNotFound):
				logger.Info().Str("project", mcpProject).Msg("starting new project")
			default:
				return err
			}
			ts = ts.WithStore(st, mcpProject)
		}

		logger.Info().Msg("serving MCP on stdio")
		return ts.ServeStdio()
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpDBPath, "db", "", "SQLite database for project persistence")
	mcpCmd.Flags().StringVar(&mcpProject, "project", "default", "Project name inside the database")
	rootCmd.AddCommand(mcpCmd)
}
