package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/nmoo-cli/internal/adapters/httpapi"
	"github.com/bnema/nmoo-cli/internal/adapters/prompt"
	objectsrender "github.com/bnema/nmoo-cli/internal/adapters/render/objects"
	"github.com/bnema/nmoo-cli/internal/application"
	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/spf13/cobra"
)

const locatorHelp = "LOCATOR is token/objid[/verbid]; with --profile it is objid[/verbid] and the profile token is used."

// target is a resolved world server and locator for one command run.
type target struct {
	client  *httpapi.Client
	locator domain.Locator
}

func resolveTarget(cmd *cobra.Command, app *app, profile string, raw string) (target, error) {
	ctx := cmd.Context()
	baseURL := app.serverURL

	var locator domain.Locator
	if profile != "" {
		name := domain.ProfileName(profile)
		resolved, err := app.profiles.ResolveLocator(ctx, name, raw)
		if err != nil {
			return target{}, err
		}
		locator = resolved

		p, err := app.profiles.GetProfile(ctx, name)
		if err != nil {
			return target{}, err
		}
		if p.BaseURL != "" && !cmd.Flags().Changed("server") {
			baseURL = p.BaseURL
		}
	} else {
		parsed, err := domain.ParseLocator(raw)
		if err != nil {
			return target{}, err
		}
		locator = parsed
	}

	if baseURL == "" {
		return target{}, errNoServerURL
	}

	client, err := httpapi.NewClient(baseURL, app.httpClient, app.logger.Named("http"))
	if err != nil {
		return target{}, err
	}

	return target{client: client, locator: locator}, nil
}

type verbListing struct {
	Header string          `json:"header"`
	Verbs  []verbListEntry `json:"verbs"`
}

type verbListEntry struct {
	ID    string `json:"id"`
	Names string `json:"names"`
}

func newVerbsCmd(app *app) *cobra.Command {
	var profile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verbs LOCATOR",
		Short: "List an object's verbs",
		Long:  "List an object's verbs.\n\n" + locatorHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(cmd, app, profile, args[0])
			if err != nil {
				return err
			}

			svc := application.NewVerbService(t.client, app.editor, nil, app.logger)

			var view application.ObjectView
			load := func(ctx context.Context) error {
				var loadErr error
				view, loadErr = svc.LoadObject(ctx, t.locator)
				return loadErr
			}

			if asJSON {
				if err := load(cmd.Context()); err != nil {
					return err
				}
				return writeVerbListingJSON(cmd.OutOrStdout(), view)
			}

			if err := objectsrender.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching object...", load); err != nil {
				return err
			}

			rendered, err := app.objectRenderer(view, objectsrender.RenderOptions{Selected: t.locator.VerbID})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile supplying the server and token")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeVerbListingJSON(out io.Writer, view application.ObjectView) error {
	listing := verbListing{Header: view.Header, Verbs: make([]verbListEntry, 0, len(view.Verbs))}
	for _, entry := range view.Verbs {
		listing.Verbs = append(listing.Verbs, verbListEntry{ID: string(entry.ID), Names: entry.Names})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listing)
}

func newShowCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "show LOCATOR",
		Short: "Print a verb's source",
		Long:  "Print a verb's source. The locator must name a verb.\n\n" + locatorHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(cmd, app, profile, args[0])
			if err != nil {
				return err
			}
			if t.locator.VerbID == "" {
				return domain.ErrNoVerbSelected
			}

			svc := application.NewVerbService(t.client, app.editor, nil, app.logger)
			if _, err := svc.LoadObject(cmd.Context(), t.locator); err != nil {
				return err
			}

			source, err := svc.OpenVerb(cmd.Context(), t.locator.VerbID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), source)
			return err
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile supplying the server and token")

	return cmd
}

func newEditCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "edit LOCATOR",
		Short: "Browse an object's verbs, edit them and save",
		Long:  "Browse an object's verbs, edit them in $EDITOR and save them back.\n\n" + locatorHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(cmd, app, profile, args[0])
			if err != nil {
				return err
			}

			line := prompt.NewLine(cmd.InOrStdin(), cmd.OutOrStdout())
			svc := application.NewVerbService(t.client, app.editor, line, app.logger)
			ui := &browseUI{app: app, line: line, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}

			return svc.Browse(cmd.Context(), t.locator, ui)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile supplying the server and token")

	return cmd
}

// browseUI renders the edit loop on the command's streams.
type browseUI struct {
	app    *app
	line   *prompt.Line
	out    io.Writer
	errOut io.Writer
}

func (u *browseUI) ShowObject(view application.ObjectView, selected domain.VerbID) {
	rendered, err := u.app.objectRenderer(view, objectsrender.RenderOptions{Selected: selected})
	if err != nil {
		u.NotifyError(err)
		return
	}
	_, _ = fmt.Fprintln(u.out, rendered)
}

func (u *browseUI) PickVerb(verbs []domain.VerbID) (domain.VerbID, error) {
	return u.line.PickVerb(verbs)
}

func (u *browseUI) Notify(message string) {
	_, _ = fmt.Fprintln(u.out, message)
}

func (u *browseUI) NotifyError(err error) {
	_, _ = fmt.Fprintln(u.errOut, objectsrender.RenderError(err))
}

func newSaveCmd(app *app) *cobra.Command {
	var profile string
	var file string

	cmd := &cobra.Command{
		Use:   "save LOCATOR",
		Short: "Upload a file as a verb's code",
		Long:  "Upload a file (or stdin with --file -) as a verb's code. The locator must name a verb.\n\n" + locatorHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(cmd, app, profile, args[0])
			if err != nil {
				return err
			}
			if t.locator.VerbID == "" {
				return domain.ErrNoVerbSelected
			}

			code, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			resp, err := t.client.UpdateVerbCode(cmd.Context(), t.locator, code)
			if err != nil {
				return err
			}

			resp = strings.TrimSpace(resp)
			if resp == "" {
				resp = fmt.Sprintf("Saved %s.", t.locator.VerbID)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
			return err
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile supplying the server and token")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding the verb code, - for stdin")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readSource(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
