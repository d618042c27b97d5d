package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/preview-labs/prevu/internal/session"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build [project-dir]",
	Short: "Render the preview artifact once and write it out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := session.New(cfg)

		start := time.Now()
		n, err := loadProjectDir(sess, args[0])
		if err != nil {
			return err
		}
		doc := sess.Preview()
		st := sess.Describe()

		if buildOutput == "-" {
			fmt.Print(doc)
		} else {
			if err := os.WriteFile(buildOutput, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}
		}

		fmt.Fprintf(os.Stderr, "Built %d files in %v (entry %s, %d errors).\n",
			n, time.Since(start), st.Entry, len(st.Errors))
		for _, e := range st.Errors {
			fmt.Fprintln(os.Stderr, "  "+e)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "preview.html", "Output file, or - for stdout")
	rootCmd.AddCommand(buildCmd)
}
