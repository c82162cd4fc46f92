package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	DefaultCaptureWait = 10 * time.Second

	msgGreeting        = "nmoo WebSocket client"
	msgConnectHint     = "Type 'connect <host> <port>' to connect"
	msgConnectUsage    = "Usage: connect <host> <port> [<name> <pass>]"
	msgAlreadyOpen     = "Ignoring arguments, using existing connection."
	msgDisconnectHint  = "Type /disconnect to end the connection."
	msgNotConnected    = "Not connected."
	msgConnectionLost  = "Connection lost."
	msgSocketError     = "WebSocket error - Check host/port"
	msgVeditUsage      = "Usage: vedit <verb>"
	msgNoCodeBlock     = "No code block received."
	msgMissingVerbName = "No verb name for this code block; use vedit <verb>."
)

type TerminalConfig struct {
	Dialer ports.Dialer
	Editor ports.Editor
	Out    io.Writer
	Logger *zap.Logger
	// CaptureWait bounds how long vedit holds terminal input while the code
	// block is on its way.
	CaptureWait time.Duration
}

// Terminal relays lines between the user and a world server session and
// turns {verbcode} blocks into editor sessions. All state is owned by the
// goroutine running Run.
type Terminal struct {
	dialer      ports.Dialer
	editor      ports.Editor
	out         io.Writer
	logger      *zap.Logger
	captureWait time.Duration

	conn    ports.LineTransport
	capture domain.Capture
	editing string

	awaiting     bool
	awaitTimer   *time.Timer
	pendingBlock *string
}

func NewTerminal(cfg TerminalConfig) *Terminal {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	wait := cfg.CaptureWait
	if wait <= 0 {
		wait = DefaultCaptureWait
	}

	return &Terminal{
		dialer:      cfg.Dialer,
		editor:      cfg.Editor,
		out:         out,
		logger:      logger,
		captureWait: wait,
	}
}

func (t *Terminal) Connected() bool {
	return t.conn != nil
}

// Connect opens a session and logs in when both name and pass are given.
func (t *Terminal) Connect(ctx context.Context, host, port, name, pass string) error {
	if t.conn != nil {
		t.echo(msgAlreadyOpen)
		t.echo(msgDisconnectHint)
		return nil
	}
	if host == "" || port == "" {
		t.echo(msgConnectUsage)
		return nil
	}

	t.echo(fmt.Sprintf("Attempting to connect to ws://%s...", net.JoinHostPort(host, port)))

	conn, err := t.dialer.Dial(ctx, host, port)
	if err != nil {
		t.logger.Warn("connect failed", zap.String("host", host), zap.String("port", port), zap.Error(err))
		t.echo(msgSocketError)
		return err
	}

	t.conn = conn
	t.capture = domain.Capture{}
	t.editing = ""
	t.pendingBlock = nil

	if name != "" && pass != "" {
		t.echo("Sending login credentials for " + name)
		t.send(domain.LoginCommand(name, pass))
	}

	return nil
}

// Run processes terminal input until EOF, quit, or ctx ends.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer t.disconnect()

	if t.conn == nil {
		t.echo(msgGreeting)
		t.echo(msgConnectHint)
	}

	pump := startInputPump(ctx, in)
	pump.request()

	for {
		var inbound <-chan string
		if t.conn != nil {
			inbound = t.conn.Lines()
		}
		var waitExpired <-chan time.Time
		if t.awaiting && t.awaitTimer != nil {
			waitExpired = t.awaitTimer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-pump.lines:
			if !ok {
				return pump.err
			}
			if quit := t.handleInput(ctx, line); quit {
				return nil
			}
			if !t.awaiting {
				pump.request()
			}

		case line, ok := <-inbound:
			if !ok {
				t.connectionLost()
				if t.stopAwaiting() {
					pump.request()
				}
				continue
			}
			if t.handleInbound(ctx, line) {
				pump.request()
			}

		case <-waitExpired:
			t.awaiting = false
			t.awaitTimer = nil
			t.echo(msgNoCodeBlock)
			pump.request()
		}
	}
}

func (t *Terminal) handleInput(ctx context.Context, line string) bool {
	if t.pendingBlock != nil {
		text := *t.pendingBlock
		t.pendingBlock = nil
		t.editBlock(ctx, text)
		if strings.TrimSpace(line) == "" {
			return false
		}
	}

	if t.conn == nil {
		return t.handleCommand(ctx, strings.TrimPrefix(strings.TrimSpace(line), "/"))
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "/") {
		return t.handleCommand(ctx, strings.TrimPrefix(trimmed, "/"))
	}

	fields := strings.Fields(trimmed)
	if len(fields) > 0 && fields[0] == "vedit" {
		if len(fields) < 2 {
			t.echo(msgVeditUsage)
			return false
		}
		t.editing = fields[1]
		if t.send(domain.ListCommand(fields[1])) {
			t.startAwaiting()
		}
		return false
	}

	t.send(line)
	return false
}

func (t *Terminal) handleCommand(ctx context.Context, command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}

	args := fields[1:]
	switch fields[0] {
	case "connect":
		var host, port, name, pass string
		if len(args) > 0 {
			host = args[0]
		}
		if len(args) > 1 {
			port = args[1]
		}
		if len(args) > 3 {
			name, pass = args[2], args[3]
		}
		_ = t.Connect(ctx, host, port, name, pass)
	case "disconnect":
		if t.conn == nil {
			t.echo(msgNotConnected)
			return false
		}
		t.disconnect()
		t.echo("Disconnected.")
	case "quit", "exit":
		return true
	default:
		t.echo(fmt.Sprintf("Unknown command %q. %s", fields[0], msgConnectHint))
	}

	return false
}

// handleInbound reports whether held input should be released.
func (t *Terminal) handleInbound(ctx context.Context, line string) bool {
	event := t.capture.Feed(line)

	switch event.Kind {
	case domain.EventPassthrough:
		t.echo(event.Line)
	case domain.EventClosed:
		t.logger.Debug("captured code block", zap.String("verb", t.editing), zap.Int("bytes", len(event.Text)))
		if t.stopAwaiting() {
			t.editBlock(ctx, event.Text)
			return true
		}
		text := event.Text
		t.pendingBlock = &text
		t.echo("Code block received; press Enter to edit it.")
	}

	return false
}

func (t *Terminal) editBlock(ctx context.Context, text string) {
	name := t.editing
	if name == "" {
		name = "verbcode"
	}

	edited, err := t.editor.Edit(ctx, name, text)
	if err != nil {
		t.logger.Warn("editor failed", zap.Error(err))
		t.echo("Editor failed: " + err.Error())
		return
	}

	// A clean editor exit always uploads, so an untouched block can be
	// re-sent to recompile it.
	lines, err := domain.ProgramLines(t.editing, edited)
	if err != nil {
		if errors.Is(err, domain.ErrMissingVerbName) {
			t.echo(msgMissingVerbName)
			return
		}
		t.echo(err.Error())
		return
	}

	for _, line := range lines {
		if !t.send(line) {
			return
		}
	}
	t.editing = ""
}

// send reports whether the line went out; a failed write drops the session.
func (t *Terminal) send(line string) bool {
	if t.conn == nil {
		t.echo(msgNotConnected)
		return false
	}

	if err := t.conn.Send(line); err != nil {
		t.logger.Warn("send failed", zap.Error(err))
		t.echo(msgSocketError)
		t.disconnect()
		t.echo(msgConnectionLost)
		return false
	}
	return true
}

func (t *Terminal) startAwaiting() {
	t.stopAwaiting()
	t.awaiting = true
	t.awaitTimer = time.NewTimer(t.captureWait)
}

func (t *Terminal) stopAwaiting() bool {
	if !t.awaiting {
		return false
	}
	if t.awaitTimer != nil {
		t.awaitTimer.Stop()
	}
	t.awaiting = false
	t.awaitTimer = nil
	return true
}

func (t *Terminal) connectionLost() {
	if t.conn == nil {
		return
	}

	if err := t.conn.Err(); err != nil {
		t.logger.Warn("session failed", zap.Error(err))
		t.echo(msgSocketError)
	}
	_ = t.conn.Close()
	t.conn = nil
	t.echo(msgConnectionLost)
}

func (t *Terminal) disconnect() {
	t.stopAwaiting()
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		t.logger.Debug("close session", zap.Error(err))
	}
	t.conn = nil
}

func (t *Terminal) echo(line string) {
	_, _ = fmt.Fprintln(t.out, line)
}

// inputPump reads one line each time it is asked to, so nothing competes
// with an editor for the terminal between requests.
type inputPump struct {
	reader *bufio.Reader
	next   chan struct{}
	lines  chan string
	err    error
}

func startInputPump(ctx context.Context, in io.Reader) *inputPump {
	p := &inputPump{
		reader: bufio.NewReader(in),
		next:   make(chan struct{}, 1),
		lines:  make(chan string),
	}

	go func() {
		defer close(p.lines)
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.next:
			}

			line, err := p.reader.ReadString('\n')
			if err == nil || line != "" {
				select {
				case p.lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					p.err = fmt.Errorf("read terminal input: %w", err)
				}
				return
			}
		}
	}()

	return p
}

func (p *inputPump) request() {
	select {
	case p.next <- struct{}{}:
	default:
	}
}
