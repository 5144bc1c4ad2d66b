package app

import "github.com/jwulff/trimbar/internal/player"

// PlayerConnectedMsg is sent when both player connections are established.
type PlayerConnectedMsg struct {
	Client   *player.Client // for commands (seek, loop points, pause)
	EvClient *player.Client // for observed-property events
}

// PlayerConnectErrorMsg is sent when the player connection fails.
type PlayerConnectErrorMsg struct {
	Err error
}

// PlayerEventMsg wraps a streamed event from the player.
type PlayerEventMsg struct {
	Event player.Event
}

// PlayerEventErrorMsg is sent when the event stream encounters an error.
type PlayerEventErrorMsg struct {
	Err error
}

// CommandErrorMsg reports a failed fire-and-forget player command.
type CommandErrorMsg struct {
	Err error
}

// FrameMsg is one animation frame.
type FrameMsg struct{}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}

// ReconnectTickMsg triggers a reconnection attempt.
type ReconnectTickMsg struct{}
