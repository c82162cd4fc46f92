package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bnema/nmoo-cli/internal/ports"
)

const (
	DefaultCommand  = "vi"
	tempFileSuffix  = ".moo"
	maxNameFragment = 48
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// External hands the buffer to an editor process through a temp file, the way
// git and kubectl do.
type External struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	tempDir string
}

var _ ports.Editor = (*External)(nil)

type Option func(*External)

func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *External) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

func WithTempDir(dir string) Option {
	return func(e *External) {
		e.tempDir = dir
	}
}

func NewExternal(command string, opts ...Option) *External {
	command = strings.TrimSpace(command)
	if command == "" {
		command = DefaultCommand
	}

	e := &External{
		command: command,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveCommand picks the editor the way most terminal tools do.
func ResolveCommand(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return DefaultCommand
}

func (e *External) Edit(ctx context.Context, name string, text string) (string, error) {
	file, err := os.CreateTemp(e.tempDir, "nmoo-"+tempName(name)+"-*"+tempFileSuffix)
	if err != nil {
		return "", fmt.Errorf("create edit buffer: %w", err)
	}
	path := file.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := file.WriteString(text); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write edit buffer: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close edit buffer: %w", err)
	}

	args := strings.Fields(e.command)
	if len(args) == 0 {
		return "", errors.New("editor command is empty")
	}

	child := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	child.Stdin = e.stdin
	child.Stdout = e.stdout
	child.Stderr = e.stderr

	if err := child.Run(); err != nil {
		return "", fmt.Errorf("run editor %q: %w", args[0], err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edit buffer: %w", err)
	}

	return string(edited), nil
}

func tempName(name string) string {
	cleaned := strings.Trim(unsafeNameChars.ReplaceAllString(filepath.Base(name), "_"), "_.")
	if cleaned == "" {
		return "buffer"
	}
	if len(cleaned) > maxNameFragment {
		cleaned = cleaned[:maxNameFragment]
	}
	return cleaned
}
