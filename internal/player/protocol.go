// Package player provides the client and protocol types for driving an mpv
// player over its JSON IPC Unix socket (NDJSON, --input-ipc-server).
package player

import (
	"encoding/json"
	"fmt"
)

// Properties read or written by trimbar.
const (
	PropDuration = "duration"
	PropTimePos  = "time-pos"
	PropPause    = "pause"
	PropABLoopA  = "ab-loop-a"
	PropABLoopB  = "ab-loop-b"
)

// Event names streamed by the player.
const (
	EventPropertyChange = "property-change"
	EventFileLoaded     = "file-loaded"
	EventEndFile        = "end-file"
	EventShutdown       = "shutdown"
)

// Observer ids passed to observe_property; they come back in Event.ID.
const (
	ObserveDuration = iota + 1
	ObserveTimePos
	ObservePause
)

// Command is sent from a client to the player.
type Command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// Response is returned by the player after processing a command.
type Response struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
}

// OK reports whether the command succeeded.
func (r Response) OK() bool { return r.Error == "success" }

// Float decodes Data as a number.
func (r Response) Float() (float64, bool) { return decodeFloat(r.Data) }

// Event is streamed from the player to every connected client.
type Event struct {
	Event  string          `json:"event"`
	ID     int             `json:"id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

// Float decodes Data as a number. Unavailable properties arrive as null.
func (e Event) Float() (float64, bool) { return decodeFloat(e.Data) }

// Bool decodes Data as a flag.
func (e Event) Bool() (bool, bool) {
	var b bool
	if len(e.Data) == 0 || json.Unmarshal(e.Data, &b) != nil {
		return false, false
	}
	return b, true
}

// envelope tells events and responses apart on a shared stream.
type envelope struct {
	Event     string `json:"event"`
	RequestID int    `json:"request_id"`
}

// CommandError is returned when the player answers with a non-success status.
type CommandError struct {
	Command string
	Status  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("player command %s: %s", e.Command, e.Status)
}

func decodeFloat(data json.RawMessage) (float64, bool) {
	var f *float64
	if len(data) == 0 || json.Unmarshal(data, &f) != nil || f == nil {
		return 0, false
	}
	return *f, true
}
