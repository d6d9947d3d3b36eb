package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/courtside/courtside/pkg/logger"
)

const (
	// Buffered so a bursty stream doesn't stall the reader while the
	// consumer is mid-publish
	frameBufferSize = 64

	maxLineSize = 1024 * 1024
)

// Transport owns at most one live event-stream connection to the agent.
// Connecting while a connection is open tears the old one down first;
// disconnecting is idempotent. Frames are delivered on the channel
// returned by Connect, which is closed when the stream ends for any
// reason.
type Transport struct {
	endpoint   string
	httpClient *http.Client

	mu     sync.Mutex
	active *conn
}

type conn struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTransport creates a Transport for the given stream endpoint URL.
// The HTTP client carries no timeout: streams are long-lived and are
// ended by cancellation or by the server.
func NewTransport(endpoint string) *Transport {
	return &Transport{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

// Connect opens a new event stream for the given request parameters. Any
// previously open connection is disconnected first, so at most one stream
// is ever live per Transport.
func (t *Transport) Connect(ctx context.Context, params Params) (<-chan Frame, error) {
	t.Disconnect(false)

	u, err := url.Parse(t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid stream endpoint: %w", err)
	}

	q := u.Query()
	q.Set("query", params.Query)
	if params.ThreadID != "" {
		q.Set("thread_id", params.ThreadID)
	}
	if params.UserID != "" {
		q.Set("user_id", params.UserID)
	}
	u.RawQuery = q.Encode()

	streamCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stream request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("stream request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	frames := make(chan Frame, frameBufferSize)
	c := &conn{cancel: cancel, done: make(chan struct{})}

	t.mu.Lock()
	t.active = c
	t.mu.Unlock()

	go t.readStream(streamCtx, resp.Body, frames, c)

	return frames, nil
}

// Disconnect closes the live connection, if any, and waits for its reader
// to finish. Repeat calls are no-ops. When final is true the closure is a
// clean end of the request rather than a caller-initiated teardown; the
// distinction only matters for logging, spurious error suppression is
// handled by cancellation either way.
func (t *Transport) Disconnect(final bool) {
	t.mu.Lock()
	c := t.active
	t.active = nil
	t.mu.Unlock()

	if c == nil {
		return
	}

	logger.Debug("disconnecting stream (final=%t)", final)
	c.cancel()
	<-c.done
}

// Connected reports whether a stream is currently open
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// readStream parses the event-stream wire format: "event:" lines name the
// next event, "data:" lines accumulate its body, a blank line dispatches
// it. Comment lines (leading colon) are server heartbeats and are dropped.
func (t *Transport) readStream(ctx context.Context, body io.ReadCloser, frames chan<- Frame, c *conn) {
	defer func() {
		body.Close()
		t.mu.Lock()
		if t.active == c {
			t.active = nil
		}
		t.mu.Unlock()
		close(frames)
		close(c.done)
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	eventName := ""
	var data []string

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if len(data) > 0 {
				frame := Frame{
					Event:     eventName,
					Data:      []byte(strings.Join(data, "\n")),
					Timestamp: time.Now(),
				}
				if frame.Event == "" {
					frame.Event = EventMessage
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
			eventName = ""
			data = nil
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			eventName = value
		case "data":
			data = append(data, value)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Warn("stream read failed: %v", err)
		select {
		case frames <- Frame{Err: fmt.Errorf("stream read error: %w", err), Timestamp: time.Now()}:
		case <-ctx.Done():
		}
	}
}
