package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/preview-labs/prevu/internal/logging"
	"github.com/preview-labs/prevu/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [project-dir]",
	Short: "Serve the live preview over HTTP",
	Long: `Serve starts an HTTP server rendering the project preview. With a
project directory argument the tree is seeded from disk; without one
the session starts empty. Every request renders the current artifact,
rebuilding only when the tree has changed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := session.New(cfg)
		logger := logging.For("serve")

		if len(args) == 1 {
			n, err := loadProjectDir(sess, args[0])
			if err != nil {
				return err
			}
			logger.Info().Int("files", n).Str("dir", args[0]).Msg("project loaded")
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, sess.PreviewFrame())
		})
		mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, sess.Preview())
		})
		mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			st := sess.Describe()
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintf(w, "entry=%s files=%d epoch=%d errors=%d\n",
				st.Entry, st.FileCount, st.Epoch, len(st.Errors))
			for _, e := range st.Errors {
				fmt.Fprintln(w, e)
			}
		})

		logger.Info().Str("addr", serveAddr).Msg("preview server listening")
		return http.ListenAndServe(serveAddr, mux)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8731", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}
