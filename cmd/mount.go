package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/preview-labs/prevu/internal/billyfs"
	"github.com/preview-labs/prevu/internal/logging"
	"github.com/preview-labs/prevu/internal/session"
)

var mountPoint string

var mountCmd = &cobra.Command{
	Use:   "mount [project-dir]",
	Short: "Serve the project tree over NFS",
	Long: `Mount starts an NFS server exposing the in-memory project tree so it
can be edited with ordinary tools. With --mountpoint the tree is also
mounted locally (requires sudo). Edits through the mount drive preview
rebuilds exactly like tool-call edits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := session.New(cfg)
		logger := logging.For("mount")

		if len(args) == 1 {
			n, err := loadProjectDir(sess, args[0])
			if err != nil {
				return err
			}
			logger.Info().Int("files", n).Str("dir", args[0]).Msg("project loaded")
		}

		srv, err := billyfs.NewServer(billyfs.New(sess))
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }()
		logger.Info().Int("port", srv.Port()).Msg("NFS server listening")

		if mountPoint != "" {
			if err := billyfs.Mount(srv.Port(), mountPoint); err != nil {
				return err
			}
			logger.Info().Str("mountpoint", mountPoint).Msg("mounted")
			defer func() {
				if err := billyfs.Unmount(mountPoint); err != nil {
					logger.Warn().Err(err).Msg("unmount failed")
				}
			}()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("shutting down")
		return nil
	},
}

func init() {
	mountCmd.Flags().StringVarP(&mountPoint, "mountpoint", "m", "", "Local directory to mount the NFS export at")
	rootCmd.AddCommand(mountCmd)
}
