package ports

import "context"

// LineTransport is a line-oriented session with the world server.
type LineTransport interface {
	Send(line string) error
	// Lines yields inbound lines and is closed when the session ends.
	Lines() <-chan string
	// Err reports why Lines was closed, nil after a local Close.
	Err() error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, host string, port string) (LineTransport, error)
}
