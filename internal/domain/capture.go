package domain

import "strings"

const (
	CaptureOpenMarker  = "{verbcode}"
	CaptureCloseMarker = "{/verbcode}"
)

type CaptureState int

const (
	CapturePassthrough CaptureState = iota
	CaptureCapturing
)

func (s CaptureState) String() string {
	switch s {
	case CapturePassthrough:
		return "passthrough"
	case CaptureCapturing:
		return "capturing"
	default:
		return "unknown"
	}
}

type CaptureEventKind int

const (
	// EventPassthrough carries a line meant for the terminal.
	EventPassthrough CaptureEventKind = iota
	// EventSwallowed means the line went into the buffer or was a marker.
	EventSwallowed
	// EventClosed carries the completed code block.
	EventClosed
)

type CaptureEvent struct {
	Kind CaptureEventKind
	Line string
	Text string
}

// Capture diverts the lines between a {verbcode} and {/verbcode} pair into
// a buffer. A block that is never closed keeps the capture open.
type Capture struct {
	state  CaptureState
	buffer strings.Builder
}

func (c *Capture) State() CaptureState {
	return c.state
}

func (c *Capture) Feed(line string) CaptureEvent {
	marker := strings.TrimSpace(line)

	if c.state == CapturePassthrough {
		if marker == CaptureOpenMarker {
			c.state = CaptureCapturing
			c.buffer.Reset()
			return CaptureEvent{Kind: EventSwallowed}
		}
		return CaptureEvent{Kind: EventPassthrough, Line: line}
	}

	if marker == CaptureCloseMarker {
		text := c.buffer.String()
		c.state = CapturePassthrough
		c.buffer.Reset()
		return CaptureEvent{Kind: EventClosed, Text: text}
	}

	c.buffer.WriteString(line)
	c.buffer.WriteByte('\n')
	return CaptureEvent{Kind: EventSwallowed}
}
