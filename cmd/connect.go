package cmd

import (
	"context"
	"errors"

	"github.com/bnema/nmoo-cli/internal/application"
	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newConnectCmd(app *app) *cobra.Command {
	var profile string
	var name string
	var pass string

	cmd := &cobra.Command{
		Use:   "connect [HOST PORT]",
		Short: "Open the WebSocket terminal",
		Long: `Open the WebSocket terminal.

With HOST and PORT (or --profile) the session connects right away; otherwise
type 'connect <host> <port> [<name> <pass>]'. Once connected, 'vedit <verb>'
opens the verb in $EDITOR and uploads it when saved. Lines starting with '/'
are local commands: /disconnect, /quit.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("expected no arguments or HOST PORT")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var host, port string
			if len(args) == 2 {
				host, port = args[0], args[1]
			}

			if profile != "" {
				conn, err := app.profiles.ResolveConnection(ctx, domain.ProfileName(profile))
				if err != nil {
					return err
				}
				if host == "" {
					host, port = conn.Host, conn.Port
				}
				if name == "" {
					name = conn.Player
				}
				if pass == "" {
					pass = conn.Password
				}
			}

			term := application.NewTerminal(application.TerminalConfig{
				Dialer:      app.dialer,
				Editor:      app.editor,
				Out:         cmd.OutOrStdout(),
				Logger:      app.logger.Named("terminal"),
				CaptureWait: app.captureWait,
			})

			if host != "" {
				// A failed dial is already reported; the terminal stays in
				// command mode.
				_ = term.Connect(ctx, host, port, name, pass)
			}

			err := term.Run(ctx, cmd.InOrStdin())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile supplying host, port and login")
	cmd.Flags().StringVar(&name, "name", "", "Player name to log in with")
	cmd.Flags().StringVar(&pass, "pass", "", "Player password to log in with")

	return cmd
}
