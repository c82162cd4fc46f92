package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/nmoo-cli/internal/ports"
	"github.com/bnema/nmoo-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeTransport struct {
	mu     sync.Mutex
	sent   []string
	lines  chan string
	err    error
	closed bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{lines: make(chan string, 16)}
}

func (f *fakeTransport) Send(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("closed")
	}
	f.sent = append(f.sent, line)
	return nil
}

func (f *fakeTransport) Lines() <-chan string { return f.lines }

func (f *fakeTransport) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// drop ends the session from the server side.
func (f *fakeTransport) drop(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	close(f.lines)
}

type fakeDialer struct {
	mu        sync.Mutex
	transport *fakeTransport
	err       error
	dialed    []string
}

func (d *fakeDialer) Dial(_ context.Context, host, port string) (ports.LineTransport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialed = append(d.dialed, host+":"+port)
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}

func (d *fakeDialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dialed...)
}

type terminalHarness struct {
	term      *Terminal
	dialer    *fakeDialer
	transport *fakeTransport
	out       *syncBuffer
	input     *io.PipeWriter
	done      chan error
}

func startTerminal(t *testing.T, editor ports.Editor, wait time.Duration) *terminalHarness {
	t.Helper()

	transport := newFakeTransport()
	dialer := &fakeDialer{transport: transport}
	out := &syncBuffer{}
	term := NewTerminal(TerminalConfig{
		Dialer:      dialer,
		Editor:      editor,
		Out:         out,
		CaptureWait: wait,
	})

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- term.Run(context.Background(), pr)
	}()
	t.Cleanup(func() { _ = pw.Close() })

	return &terminalHarness{term: term, dialer: dialer, transport: transport, out: out, input: pw, done: done}
}

func (h *terminalHarness) typeLine(t *testing.T, line string) {
	t.Helper()
	_, err := io.WriteString(h.input, line+"\n")
	require.NoError(t, err)
}

func (h *terminalHarness) waitOutput(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(h.out.String(), text)
	}, time.Second, 5*time.Millisecond, "output never contained %q:\n%s", text, h.out.String())
}

func (h *terminalHarness) waitSent(t *testing.T, want ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		sent := h.transport.Sent()
		if len(sent) < len(want) {
			return false
		}
		tail := sent[len(sent)-len(want):]
		for i := range want {
			if tail[i] != want[i] {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond, "sent lines: %q", h.transport.Sent())
}

func (h *terminalHarness) waitDone(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(time.Second):
		t.Fatal("terminal did not stop")
		return nil
	}
}

func TestTerminalGreetsAndQuits(t *testing.T) {
	h := startTerminal(t, mocks.NewMockEditor(t), time.Second)

	h.waitOutput(t, "nmoo WebSocket client")
	h.waitOutput(t, "Type 'connect <host> <port>' to connect")

	h.typeLine(t, "quit")
	require.NoError(t, h.waitDone(t))
	assert.Empty(t, h.dialer.Dialed())
}

func TestTerminalCommandModeMessages(t *testing.T) {
	out := &syncBuffer{}
	term := NewTerminal(TerminalConfig{Dialer: &fakeDialer{}, Out: out})

	err := term.Run(context.Background(), strings.NewReader("disconnect\nconnect onlyhost\n"))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Not connected.")
	assert.Contains(t, out.String(), "Usage: connect <host> <port> [<name> <pass>]")
}

func TestTerminalDialFailure(t *testing.T) {
	out := &syncBuffer{}
	dialer := &fakeDialer{err: errors.New("connection refused")}
	term := NewTerminal(TerminalConfig{Dialer: dialer, Out: out})

	err := term.Run(context.Background(), strings.NewReader("connect moo.example 8888\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"moo.example:8888"}, dialer.Dialed())
	assert.Contains(t, out.String(), "Attempting to connect to ws://moo.example:8888...")
	assert.Contains(t, out.String(), "WebSocket error - Check host/port")
	assert.False(t, term.Connected())
}

func TestTerminalConnectSendsLogin(t *testing.T) {
	h := startTerminal(t, mocks.NewMockEditor(t), time.Second)

	h.typeLine(t, "connect localhost 8888 wizard secret")
	h.waitOutput(t, "Sending login credentials for wizard")
	h.waitSent(t, "connect wizard secret")

	h.typeLine(t, "/connect elsewhere 7777")
	h.waitOutput(t, "Ignoring arguments, using existing connection.")
	assert.Equal(t, []string{"localhost:8888"}, h.dialer.Dialed())

	h.typeLine(t, "/quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalRelaysLinesBothWays(t *testing.T) {
	h := startTerminal(t, mocks.NewMockEditor(t), time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)

	h.typeLine(t, "look at box")
	h.waitSent(t, "look at box")

	h.transport.lines <- "You see a box."
	h.waitOutput(t, "You see a box.")

	h.typeLine(t, "/disconnect")
	h.waitOutput(t, "Disconnected.")

	h.typeLine(t, "quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalVeditRoundTrip(t *testing.T) {
	editor := mocks.NewMockEditor(t)
	editor.EXPECT().
		Edit(mock.Anything, "look", "(say \"old\")\n").
		Return("(say \"new\")\n", nil).
		Once()

	h := startTerminal(t, editor, time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)

	h.typeLine(t, "vedit look")
	h.waitSent(t, "@list look tags")

	h.transport.lines <- "{verbcode}"
	h.transport.lines <- "(say \"old\")"
	h.transport.lines <- "{/verbcode}"

	h.waitSent(t, "@program look", "(say \"new\")", ".")
	assert.NotContains(t, h.out.String(), "{verbcode}")
	assert.NotContains(t, h.out.String(), "(say \"old\")")

	h.typeLine(t, "/quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalUnchangedBlockIsResent(t *testing.T) {
	editor := mocks.NewMockEditor(t)
	editor.EXPECT().
		Edit(mock.Anything, "look", "code\n").
		Return("code\n", nil).
		Once()

	h := startTerminal(t, editor, time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)
	h.typeLine(t, "vedit look")
	h.waitSent(t, "@list look tags")

	h.transport.lines <- "{verbcode}"
	h.transport.lines <- "code"
	h.transport.lines <- "{/verbcode}"

	h.waitSent(t, "@program look", "code", ".")
	assert.Equal(t, []string{"@list look tags", "@program look", "code", "."}, h.transport.Sent())

	h.typeLine(t, "/quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalLateBlockWaitsForEnter(t *testing.T) {
	editor := mocks.NewMockEditor(t)
	editor.EXPECT().
		Edit(mock.Anything, "look", "old\n").
		Return("new", nil).
		Once()

	h := startTerminal(t, editor, 20*time.Millisecond)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)
	h.typeLine(t, "vedit look")
	h.waitOutput(t, "No code block received.")

	h.transport.lines <- "{verbcode}"
	h.transport.lines <- "old"
	h.transport.lines <- "{/verbcode}"
	h.waitOutput(t, "press Enter to edit it")

	h.typeLine(t, "")
	h.waitSent(t, "@program look", "new", ".")

	h.typeLine(t, "/quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalBlockWithoutVerbName(t *testing.T) {
	editor := mocks.NewMockEditor(t)
	editor.EXPECT().
		Edit(mock.Anything, "verbcode", "x\n").
		Return("y", nil).
		Once()

	h := startTerminal(t, editor, time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)

	h.transport.lines <- "{verbcode}"
	h.transport.lines <- "x"
	h.transport.lines <- "{/verbcode}"
	h.waitOutput(t, "press Enter to edit it")

	h.typeLine(t, "")
	h.waitOutput(t, "No verb name for this code block")
	assert.Empty(t, h.transport.Sent())

	h.typeLine(t, "/quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalConnectionLostWithError(t *testing.T) {
	h := startTerminal(t, mocks.NewMockEditor(t), time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)

	h.transport.drop(errors.New("reset by peer"))
	h.waitOutput(t, "Connection lost.")
	assert.Contains(t, h.out.String(), "WebSocket error - Check host/port")

	h.typeLine(t, "disconnect")
	h.waitOutput(t, "Not connected.")

	h.typeLine(t, "quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalConnectionClosedCleanly(t *testing.T) {
	h := startTerminal(t, mocks.NewMockEditor(t), time.Second)

	h.typeLine(t, "connect localhost 8888")
	require.Eventually(t, func() bool { return len(h.dialer.Dialed()) == 1 }, time.Second, 5*time.Millisecond)

	h.transport.drop(nil)
	h.waitOutput(t, "Connection lost.")
	assert.NotContains(t, h.out.String(), "WebSocket error")

	h.typeLine(t, "quit")
	require.NoError(t, h.waitDone(t))
}

func TestTerminalStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	term := NewTerminal(TerminalConfig{Dialer: &fakeDialer{}})
	done := make(chan error, 1)
	go func() { done <- term.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("terminal did not stop")
	}
}
