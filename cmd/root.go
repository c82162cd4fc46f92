package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nmoo",
		Short:         "nmoo: browse and edit world objects from the terminal",
		Long:          "nmoo talks to an nmoo world server: list and edit object verbs over HTTP, play through the WebSocket terminal with in-place verb editing, and serve a standalone browser edit page.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().StringVar(&app.serverURL, "server", app.serverURL, "World server base URL (default: server.url / NMOO_SERVER_URL)")
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newVerbsCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newSaveCmd(app),
		newConnectCmd(app),
		newEditServCmd(app),
		newPushCmd(app),
		newProfileCmd(app),
		newLogsCmd(app),
	)

	return rootCmd
}
