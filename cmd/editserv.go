package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/nmoo-cli/internal/adapters/editpage"
	"github.com/spf13/cobra"
)

func newEditServCmd(app *app) *cobra.Command {
	var listen string
	var once bool

	cmd := &cobra.Command{
		Use:   "editserv FILE",
		Short: "Serve a file through the standalone browser edit page",
		Long:  "Serve FILE through the standalone browser edit page. Saving in the page with :w writes the buffer back to FILE.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			sink := &editpage.FileSink{Path: args[0]}
			handler := editpage.NewHandler(sink, app.logger.Named("editpage"), func(code string) {
				_, _ = fmt.Fprintf(out, "Saved %d bytes to %s\n", len(code), sink.Path)
				if once {
					cancel()
				}
			})

			if listen == "" {
				listen = app.editListen
			}
			server, err := editpage.Start(listen, handler)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "Editing %s at %s\n", sink.Path, server.URL())
			return server.Wait(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: editserv.listen, 127.0.0.1:0)")
	cmd.Flags().BoolVar(&once, "once", false, "Stop after the first save")

	return cmd
}

func newPushCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push URL FILE",
		Short: "Submit a file to an edit page",
		Long:  "Submit FILE (or - for stdin) to an edit page URL the way the page's save command does.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSource(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			resp, err := editpage.Submit(cmd.Context(), app.httpClient, args[0], code)
			if err != nil {
				return err
			}

			if resp = strings.TrimSpace(resp); resp != "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
			}
			return err
		},
	}
}
