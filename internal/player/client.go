package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultSocketPath returns the socket path used by `mpv --input-ipc-server`
// in the usual setups.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "mpvsocket")
}

// Client communicates with the player over a Unix socket.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
	nextID  int

	// keepEvents is set on event connections. The player broadcasts events
	// to every connection, so a command connection drops them.
	keepEvents bool
	pending    []Event
}

// Connect dials the player socket for commands. Events the player
// broadcasts on this connection are discarded. A zero timeout waits for the
// OS default.
func Connect(socketPath string, timeout time.Duration) (*Client, error) {
	return dial(socketPath, timeout, false)
}

// ConnectEvents dials the player socket for an event stream. Events seen
// while waiting for a command reply are queued for ReadEvent.
func ConnectEvents(socketPath string, timeout time.Duration) (*Client, error) {
	return dial(socketPath, timeout, true)
}

func dial(socketPath string, timeout time.Duration, keepEvents bool) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to player: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Client{conn: conn, scanner: scanner, keepEvents: keepEvents}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendCommand sends one command and waits for the response carrying its
// request id. Events received meanwhile are queued for ReadEvent on event
// connections and dropped otherwise.
func (c *Client) SendCommand(args ...any) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	data, err := json.Marshal(Command{Command: args, RequestID: id})
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}

	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return Response{}, fmt.Errorf("write command: %w", err)
	}

	for {
		line, err := c.readLine()
		if err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			return Response{}, fmt.Errorf("unmarshal response: %w", err)
		}
		if env.Event != "" {
			if !c.keepEvents {
				continue
			}
			var ev Event
			if err := json.Unmarshal(line, &ev); err == nil {
				c.pending = append(c.pending, ev)
			}
			continue
		}
		if env.RequestID != id {
			continue // stale reply to an earlier, abandoned request
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return Response{}, fmt.Errorf("unmarshal response: %w", err)
		}
		if !resp.OK() {
			return resp, &CommandError{Command: commandName(args), Status: resp.Error}
		}
		return resp, nil
	}
}

// ReadEvent returns the next event. Blocks until one arrives. Responses on
// the stream are skipped.
func (c *Client) ReadEvent() (Event, error) {
	c.mu.Lock()
	if len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
		return ev, nil
	}
	c.mu.Unlock()

	for {
		line, err := c.readLine()
		if err != nil {
			return Event{}, fmt.Errorf("read event: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return Event{}, fmt.Errorf("unmarshal event: %w", err)
		}
		if ev.Event == "" {
			continue
		}
		return ev, nil
	}
}

// Pending returns the number of queued events not yet returned by ReadEvent.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// GetFloat reads a numeric property.
func (c *Client) GetFloat(name string) (float64, error) {
	resp, err := c.SendCommand("get_property", name)
	if err != nil {
		return 0, err
	}
	f, ok := resp.Float()
	if !ok {
		return 0, fmt.Errorf("property %s: not a number", name)
	}
	return f, nil
}

// SetProperty writes a property.
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.SendCommand("set_property", name, value)
	return err
}

// Seek jumps to an absolute position in seconds.
func (c *Client) Seek(seconds float64) error {
	_, err := c.SendCommand("seek", seconds, "absolute")
	return err
}

// TogglePause flips the pause state.
func (c *Client) TogglePause() error {
	_, err := c.SendCommand("cycle", PropPause)
	return err
}

// SetPlaybackWindow restricts playback to [start, end] using the A-B loop
// points, so the player itself loops within the window.
func (c *Client) SetPlaybackWindow(start, end float64) error {
	if err := c.SetProperty(PropABLoopA, start); err != nil {
		return fmt.Errorf("set loop start: %w", err)
	}
	if err := c.SetProperty(PropABLoopB, end); err != nil {
		return fmt.Errorf("set loop end: %w", err)
	}
	return nil
}

// ObserveProperty asks the player to stream property-change events for name,
// tagged with id.
func (c *Client) ObserveProperty(id int, name string) error {
	_, err := c.SendCommand("observe_property", id, name)
	return err
}

func (c *Client) readLine() ([]byte, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("connection closed")
	}
	return c.scanner.Bytes(), nil
}

func commandName(args []any) string {
	if len(args) == 0 {
		return "<empty>"
	}
	return fmt.Sprint(args[0])
}
