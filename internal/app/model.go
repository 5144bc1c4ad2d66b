package app

import (
	"time"

	"github.com/jwulff/trimbar/internal/player"
	"github.com/jwulff/trimbar/internal/trim"
	"github.com/rs/zerolog"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultFrameInterval = time.Second / 60

// Options configures the root model.
type Options struct {
	Socket         string
	ConnectTimeout time.Duration
	FrameInterval  time.Duration
	Trim           trim.Options
	Logger         zerolog.Logger
}

// viewState holds what the last rendered frame showed.
type viewState struct {
	rendered trim.Range
}

// Model is the root bubbletea model for the trimbar TUI.
type Model struct {
	socket         string
	connectTimeout time.Duration
	frameInterval  time.Duration
	log            zerolog.Logger

	// Connection state
	client    *player.Client // command connection
	evClient  *player.Client // observed-property event connection
	connected bool
	connError string

	// Trim machinery. Pointers, so every Model copy drives the same
	// controller.
	layout *layout
	host   *playerHost
	bus    *trim.PointerBus
	frames *frameQueue
	ctrl   *trim.Controller
	view   *viewState

	// UI state
	frameScheduled bool
	keyMode        trim.Mode
	paused         bool

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string

	// Reconnect
	reconnecting     bool
	reconnectAttempt int
}

// New creates a new Model with an attached, idle trim controller.
func New(opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	opts.Trim.Logger = opts.Logger

	l := &layout{}
	host := newPlayerHost(l)
	bus := trim.NewPointerBus()
	frames := &frameQueue{}
	ctrl := trim.New(host, bus, frames, opts.Trim)
	ctrl.Attach()

	vs := &viewState{}
	ctrl.OnChange(func(r trim.Range) { vs.rendered = r })

	return Model{
		socket:         opts.Socket,
		connectTimeout: opts.ConnectTimeout,
		frameInterval:  opts.FrameInterval,
		log:            opts.Logger,
		layout:         l,
		host:           host,
		bus:            bus,
		frames:         frames,
		ctrl:           ctrl,
		view:           vs,
		keyMode:        trim.DraggingStart,
		statusText:     "Connecting to player...",
	}
}

// Init returns the initial command: connect to the player.
func (m Model) Init() tea.Cmd {
	return connectCmd(m.socket, m.connectTimeout)
}

// connectCmd opens two connections: one for commands, one for events.
func connectCmd(sockPath string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		client, err := player.Connect(sockPath, timeout)
		if err != nil {
			return PlayerConnectErrorMsg{Err: err}
		}
		evClient, err := player.ConnectEvents(sockPath, timeout)
		if err != nil {
			client.Close()
			return PlayerConnectErrorMsg{Err: err}
		}
		return PlayerConnectedMsg{Client: client, EvClient: evClient}
	}
}

// subscribeCmd observes the properties the controller needs and starts
// reading events.
func subscribeCmd(evClient *player.Client) tea.Cmd {
	return func() tea.Msg {
		observed := []struct {
			id   int
			name string
		}{
			{player.ObserveDuration, player.PropDuration},
			{player.ObserveTimePos, player.PropTimePos},
			{player.ObservePause, player.PropPause},
		}
		for _, o := range observed {
			if err := evClient.ObserveProperty(o.id, o.name); err != nil {
				return PlayerEventErrorMsg{Err: err}
			}
		}
		return readEventCmd(evClient)()
	}
}

// readEventCmd reads the next event from the event client.
func readEventCmd(evClient *player.Client) tea.Cmd {
	return func() tea.Msg {
		ev, err := evClient.ReadEvent()
		if err != nil {
			return PlayerEventErrorMsg{Err: err}
		}
		return PlayerEventMsg{Event: ev}
	}
}

// seekCmd moves playback to an absolute position.
func seekCmd(client *player.Client, seconds float64) tea.Cmd {
	return func() tea.Msg {
		if err := client.Seek(seconds); err != nil {
			return CommandErrorMsg{Err: err}
		}
		return nil
	}
}

// windowCmd pushes the trim range to the player as its loop window.
func windowCmd(client *player.Client, r trim.Range) tea.Cmd {
	return func() tea.Msg {
		if err := client.SetPlaybackWindow(r.Start, r.End); err != nil {
			return CommandErrorMsg{Err: err}
		}
		return nil
	}
}

// togglePauseCmd flips the player's pause state.
func togglePauseCmd(client *player.Client) tea.Cmd {
	return func() tea.Msg {
		if err := client.TogglePause(); err != nil {
			return CommandErrorMsg{Err: err}
		}
		return nil
	}
}

// frameCmd fires the next animation frame.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// reconnectCmd schedules a reconnection attempt with exponential backoff.
func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second // 1s, 2s, 4s, 8s, 16s cap
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReconnectTickMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
// Player commands queued by the controller and the next frame tick are
// collected after every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next, cmd = next.settle(cmd)
	return next, cmd
}

func (m Model) settle(cmd tea.Cmd) (Model, tea.Cmd) {
	cmds := append([]tea.Cmd{cmd}, m.host.drain()...)
	if m.frames.waiting() && !m.frameScheduled {
		m.frameScheduled = true
		cmds = append(cmds, frameCmd(m.frameInterval))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.layout.width = msg.Width
		m.layout.height = msg.Height
		return m, nil

	case tea.BlurMsg:
		// the pointer-up will not reach us once focus is gone
		m.ctrl.Cancel()
		return m, nil

	case FrameMsg:
		m.frameScheduled = false
		m.frames.run()
		return m, nil

	case PlayerConnectedMsg:
		m.client = msg.Client
		m.evClient = msg.EvClient
		m.host.client = msg.Client
		m.connected = true
		m.connError = ""
		m.reconnecting = false
		m.reconnectAttempt = 0
		m.statusText = "Connected"
		m.log.Info().Str("socket", m.socket).Msg("player connected")
		return m, subscribeCmd(m.evClient)

	case PlayerConnectErrorMsg:
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		m.statusText = "Player not running. Reconnecting..."
		m.log.Debug().Err(msg.Err).Int("attempt", m.reconnectAttempt).Msg("player connect failed")
		return m, reconnectCmd(m.reconnectAttempt)

	case PlayerEventMsg:
		m.handleEvent(msg.Event)
		if m.evClient == nil {
			return m, nil
		}
		return m, readEventCmd(m.evClient)

	case PlayerEventErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("player event stream lost")
		m.ctrl.Cancel()
		m.connected = false
		m.connError = msg.Err.Error()
		m.statusText = "Disconnected. Reconnecting..."
		m.reconnecting = true
		m.closeClients()
		return m, reconnectCmd(m.reconnectAttempt)

	case CommandErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("player command failed")
		m.errorMessage = msg.Err.Error()
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case ReconnectTickMsg:
		m.reconnectAttempt++
		return m, connectCmd(m.socket, m.connectTimeout)

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleEvent processes a player event.
func (m *Model) handleEvent(ev player.Event) {
	switch ev.Event {
	case player.EventPropertyChange:
		if ev.Name == player.PropPause {
			if paused, ok := ev.Bool(); ok {
				m.paused = paused
			}
			return
		}
		m.host.handleEvent(ev)

	case player.EventFileLoaded:
		m.statusText = "Loaded"

	case player.EventEndFile:
		m.statusText = "Idle"

	case player.EventShutdown:
		m.statusText = "Player exited"
	}
}

// handleMouse feeds pointer input to the controller. Presses only count on
// the track; moves and releases are document-wide so a drag keeps tracking
// anywhere in the terminal.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	ev := trim.PointerEvent{ClientX: float64(msg.X)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onTrack(msg.Y) {
			return m, nil
		}
		if err := m.ctrl.Press(ev); err != nil {
			m.log.Debug().Err(err).Int("x", msg.X).Msg("press ignored")
			return m, nil
		}
		if mode := m.ctrl.Mode(); mode != trim.DraggingRange {
			m.keyMode = mode
		}

	case tea.MouseActionMotion:
		m.bus.Dispatch(trim.PointerMove, ev)

	case tea.MouseActionRelease:
		m.bus.Dispatch(trim.PointerUp, ev)
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		m.ctrl.Close()
		m.closeClients()
		return m, tea.Quit

	case KeySpace:
		if !m.connected {
			return m, nil
		}
		return m, togglePauseCmd(m.client)

	case KeyStart:
		m.keyMode = trim.DraggingStart
	case KeyEnd:
		m.keyMode = trim.DraggingEnd
	case KeyWindow:
		m.keyMode = trim.DraggingRange

	case KeyLeft:
		m.nudge(-nudgeStep)
	case KeyRight:
		m.nudge(nudgeStep)
	case KeyShiftLeft:
		m.nudge(-nudgeStepLarge)
	case KeyShiftRight:
		m.nudge(nudgeStepLarge)

	case KeyEnter:
		if m.ctrl.Duration() > 0 {
			m.host.SeekTo(m.ctrl.CurrentRange().Start)
		}
	}

	return m, nil
}

func (m Model) nudge(delta float64) {
	if err := m.ctrl.Nudge(m.keyMode, delta); err != nil {
		m.log.Debug().Err(err).Stringer("mode", m.keyMode).Msg("nudge ignored")
	}
}

func (m *Model) closeClients() {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	if m.evClient != nil {
		m.evClient.Close()
		m.evClient = nil
	}
	m.host.client = nil
}
