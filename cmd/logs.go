package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/nmoo-cli/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

func newLogsCmd(app *app) *cobra.Command {
	var level string
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := logging.Tail(app.logPath, level, limit)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s%s\n", entry.Timestamp, colorLevel(entry.Level), entry.Message, formatFields(entry.Fields))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Only show entries at this level (debug, info, warn, error)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show, 0 for all")

	return cmd
}

// colorLevel pads before coloring so escape codes do not skew the column.
func colorLevel(level string) string {
	padded := fmt.Sprintf("%-5s", level)
	if c, ok := levelColors[level]; ok {
		return c.Sprint(padded)
	}
	return padded
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value, err := json.Marshal(fields[key])
		if err != nil {
			value = []byte(fmt.Sprint(fields[key]))
		}
		fmt.Fprintf(&b, " %s=%s", key, value)
	}
	return b.String()
}
