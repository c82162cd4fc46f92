package wsconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/nmoo-cli/internal/ports"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	inboundBuffer           = 256
	closeGracePeriod        = time.Second
)

var ErrClosed = errors.New("websocket session closed")

type Dialer struct {
	HandshakeTimeout time.Duration
	Logger           *zap.Logger
}

var _ ports.Dialer = Dialer{}

// URL is the session endpoint for a world server address.
func URL(host string, port string) string {
	return (&url.URL{Scheme: "ws", Host: net.JoinHostPort(host, port)}).String()
}

func (d Dialer) Dial(ctx context.Context, host string, port string) (ports.LineTransport, error) {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(port) == "" {
		return nil, errors.New("host and port are required")
	}

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		Subprotocols:     []string{Subprotocol},
		Proxy:            http.ProxyFromEnvironment,
	}

	endpoint := URL(host, port)
	logger.Info("dialing world server", zap.String("url", endpoint))

	ws, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			logger.Warn("websocket handshake rejected",
				zap.String("status", resp.Status),
				zap.String("body", strings.TrimSpace(string(body))),
			)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	if ws.Subprotocol() != Subprotocol {
		logger.Warn("server did not confirm subprotocol", zap.String("got", ws.Subprotocol()))
	}

	conn := &Conn{
		ws:     ws,
		lines:  make(chan string, inboundBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger,
	}
	go conn.readLoop()

	return conn, nil
}

// Conn is a line session over one WebSocket.
type Conn struct {
	ws     *websocket.Conn
	lines  chan string
	logger *zap.Logger

	// done is closed once the session ends so readLoop never blocks on a
	// reader that has gone away.
	done     chan struct{}
	doneOnce sync.Once
	stopped  chan struct{}

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
	err    error
}

var _ ports.LineTransport = (*Conn)(nil)

func (c *Conn) Send(line string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	c.logger.Debug("intercepted outbound line", zap.String("line", line))

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.TextMessage, EncodeLine(line)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *Conn) Lines() <-chan string {
	return c.lines
}

func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.finish()

	c.writeMu.Lock()
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGracePeriod),
	)
	c.writeMu.Unlock()

	return c.ws.Close()
}

func (c *Conn) readLoop() {
	defer close(c.stopped)
	defer close(c.lines)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		lines, err := DecodeMessage(data)
		if err != nil {
			c.logger.Warn("dropping undecodable frame", zap.Error(err))
			continue
		}
		for _, line := range lines {
			select {
			case c.lines <- line:
			case <-c.done:
				return
			}
		}
	}
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.finish()

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Info("world server closed session")
		_ = c.ws.Close()
		return
	}

	c.err = err
	c.logger.Warn("websocket read failed", zap.Error(err))
	_ = c.ws.Close()
}

func (c *Conn) finish() {
	c.doneOnce.Do(func() { close(c.done) })
}
