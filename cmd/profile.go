package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved world servers",
	}

	cmd.AddCommand(
		newProfileAddCmd(app),
		newProfileListCmd(app),
		newProfileRemoveCmd(app),
		newProfileSecretCmd("token", "Store the object data token", app.profiles.SetToken),
		newProfileSecretCmd("password", "Store the player password", app.profiles.SetPassword),
	)

	return cmd
}

func newProfileAddCmd(app *app) *cobra.Command {
	var profile domain.Profile

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile.Name = domain.ProfileName(args[0])
			if err := app.profiles.AddProfile(cmd.Context(), profile); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", profile.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&profile.BaseURL, "base-url", "", "World server HTTP base URL")
	cmd.Flags().StringVar(&profile.Host, "host", "", "WebSocket host")
	cmd.Flags().IntVar(&profile.Port, "port", 0, "WebSocket port")
	cmd.Flags().StringVar(&profile.Player, "player", "", "Player name for login")

	return cmd
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.profiles.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}

			for _, p := range profiles {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					p.Name, dashIfEmpty(p.BaseURL), dashIfEmpty(p.Address()), dashIfEmpty(p.Player), secretFlags(p))
			}

			return nil
		},
	}
}

func newProfileRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a profile and its secrets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.profiles.RemoveProfile(cmd.Context(), domain.ProfileName(args[0])); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", args[0])
			return err
		},
	}
}

func newProfileSecretCmd(use string, short string, set func(ctx context.Context, name domain.ProfileName, value string) error) *cobra.Command {
	var value string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromStdin {
				read, err := readFirstLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				value = read
			}
			if strings.TrimSpace(value) == "" {
				return errors.New("pass --value or --stdin")
			}

			if err := set(cmd.Context(), domain.ProfileName(args[0]), value); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Stored %s for %s\n", use, args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Secret value")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the secret from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("value", "stdin")

	return cmd
}

func readFirstLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func secretFlags(p domain.Profile) string {
	var flags []string
	if p.TokenRef != "" {
		flags = append(flags, "token")
	}
	if p.PasswordRef != "" {
		flags = append(flags, "password")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
