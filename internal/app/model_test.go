package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jwulff/trimbar/internal/player"
	"github.com/jwulff/trimbar/internal/trim"

	tea "github.com/charmbracelet/bubbletea"
)

// With a 104-column terminal the track spans 100 cells and maps x = t + 2
// for a 99 second clip.
const (
	testWidth    = 104
	testDuration = 99.0
)

func newSizedModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{Socket: "/tmp/test.sock"})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: testWidth, Height: 24})
	return m
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := newSizedModel(t)
	m, _ = applyUpdate(m, propertyChange(player.PropDuration, testDuration))
	return m
}

func propertyChange(name string, value any) PlayerEventMsg {
	data, _ := json.Marshal(value)
	return PlayerEventMsg{Event: player.Event{
		Event: player.EventPropertyChange,
		Name:  name,
		Data:  data,
	}}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m := New(Options{})
	if m.connected {
		t.Error("new model should not be connected")
	}
	if m.ctrl.Dragging() {
		t.Error("new model should be idle")
	}
	if m.keyMode != trim.DraggingStart {
		t.Errorf("keyMode = %v, want start", m.keyMode)
	}
	if m.frameInterval != defaultFrameInterval {
		t.Errorf("frameInterval = %v, want %v", m.frameInterval, defaultFrameInterval)
	}
	if r := m.ctrl.CurrentRange(); r != (trim.Range{}) {
		t.Errorf("range = %+v, want zero", r)
	}
}

func TestWindowSizeUpdatesTrackRect(t *testing.T) {
	m := newSizedModel(t)
	rect := m.host.TrackRect()
	if rect.Left != trackPadding {
		t.Errorf("rect.Left = %v, want %d", rect.Left, trackPadding)
	}
	if rect.Width != 99 {
		t.Errorf("rect.Width = %v, want 99", rect.Width)
	}
}

func TestDurationEventInitializesRange(t *testing.T) {
	m := loadedModel(t)

	want := trim.Range{Start: 0, End: testDuration}
	if got := m.ctrl.CurrentRange(); got != want {
		t.Errorf("range = %+v, want %+v", got, want)
	}
	if m.view.rendered != want {
		t.Errorf("rendered = %+v, want %+v (metadata renders immediately)", m.view.rendered, want)
	}
}

func TestDurationEventWithConfiguredOffsets(t *testing.T) {
	start, offset := 10.0, 9.0
	m := New(Options{Trim: trim.Options{StartTime: &start, EndOffset: &offset}})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: testWidth, Height: 24})
	m, _ = applyUpdate(m, propertyChange(player.PropDuration, testDuration))

	want := trim.Range{Start: 10, End: 90}
	if got := m.ctrl.CurrentRange(); got != want {
		t.Errorf("range = %+v, want %+v", got, want)
	}
}

func TestNullDurationIgnored(t *testing.T) {
	m := loadedModel(t)
	m, _ = applyUpdate(m, PlayerEventMsg{Event: player.Event{
		Event: player.EventPropertyChange,
		Name:  player.PropDuration,
		Data:  json.RawMessage("null"),
	}})
	if m.ctrl.Duration() != testDuration {
		t.Errorf("duration = %v, want %v", m.ctrl.Duration(), testDuration)
	}
}

func TestDragStartHandle(t *testing.T) {
	m := loadedModel(t)

	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow))
	if m.ctrl.Mode() != trim.DraggingStart {
		t.Fatalf("mode = %v, want start", m.ctrl.Mode())
	}

	m, cmd := applyUpdate(m, mouse(tea.MouseActionMotion, 22, trackRow+3))
	if cmd == nil {
		t.Fatal("move should schedule a frame")
	}
	if !m.frameScheduled {
		t.Error("frame should be scheduled")
	}
	if got := m.ctrl.CurrentRange().Start; got != 20 {
		t.Errorf("start = %v, want 20", got)
	}
	if m.view.rendered.Start != 0 {
		t.Errorf("rendered start = %v before frame, want 0", m.view.rendered.Start)
	}

	m, _ = applyUpdate(m, FrameMsg{})
	if m.frameScheduled {
		t.Error("frame flag should clear after the frame")
	}
	if m.view.rendered.Start != 20 {
		t.Errorf("rendered start = %v after frame, want 20", m.view.rendered.Start)
	}

	m, _ = applyUpdate(m, mouse(tea.MouseActionRelease, 22, 0))
	if m.ctrl.Dragging() {
		t.Error("release should end the drag")
	}
	if m.host.position != 20 {
		t.Errorf("position = %v, want 20 (seek to start on release)", m.host.position)
	}
	if n := m.bus.Len(trim.PointerMove) + m.bus.Len(trim.PointerUp); n != 0 {
		t.Errorf("%d pointer listeners left after release", n)
	}
}

func TestDragEndHandleUpdatesKeyMode(t *testing.T) {
	m := loadedModel(t)

	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 101, trackRow))
	if m.ctrl.Mode() != trim.DraggingEnd {
		t.Fatalf("mode = %v, want end", m.ctrl.Mode())
	}
	if m.keyMode != trim.DraggingEnd {
		t.Errorf("keyMode = %v, want end", m.keyMode)
	}

	m, _ = applyUpdate(m, mouse(tea.MouseActionMotion, 62, trackRow))
	if got := m.ctrl.CurrentRange().End; got != 60 {
		t.Errorf("end = %v, want 60", got)
	}
}

func TestDragRangeKeepsWidth(t *testing.T) {
	m := loadedModel(t)
	m.ctrl.Nudge(trim.DraggingStart, 10)
	m.ctrl.Nudge(trim.DraggingEnd, -49)

	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 30, trackRow))
	if m.ctrl.Mode() != trim.DraggingRange {
		t.Fatalf("mode = %v, want range", m.ctrl.Mode())
	}
	if m.keyMode != trim.DraggingStart {
		t.Errorf("range drag should not change keyMode, got %v", m.keyMode)
	}

	m, _ = applyUpdate(m, mouse(tea.MouseActionMotion, 92, trackRow))
	r := m.ctrl.CurrentRange()
	if r.Length() != 40 {
		t.Errorf("width = %v, want 40", r.Length())
	}
	if r.End != 99 {
		t.Errorf("end = %v, want 99", r.End)
	}
}

func TestPressOffTrackIgnored(t *testing.T) {
	m := loadedModel(t)
	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow+2))
	if m.ctrl.Dragging() {
		t.Error("press off the track should not start a drag")
	}

	right := tea.MouseMsg{X: 2, Y: trackRow, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	m, _ = applyUpdate(m, right)
	if m.ctrl.Dragging() {
		t.Error("right button should not start a drag")
	}
}

func TestPressBeforeDurationIgnored(t *testing.T) {
	m := newSizedModel(t)
	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow))
	if m.ctrl.Dragging() {
		t.Error("press before metadata should not start a drag")
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	m := loadedModel(t)
	m.host.position = 50

	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow))
	m, _ = applyUpdate(m, mouse(tea.MouseActionMotion, 12, trackRow))
	m, _ = applyUpdate(m, tea.BlurMsg{})

	if m.ctrl.Dragging() {
		t.Error("blur should cancel the drag")
	}
	if m.host.position != 50 {
		t.Errorf("position = %v, cancel must not seek", m.host.position)
	}
	if got := m.ctrl.CurrentRange().Start; got != 10 {
		t.Errorf("start = %v, want 10 (cancel keeps the range)", got)
	}
}

func TestTimeUpdateOutsideRangeSeeksToStart(t *testing.T) {
	m := loadedModel(t)
	m.ctrl.Nudge(trim.DraggingStart, 30)

	m, _ = applyUpdate(m, propertyChange(player.PropTimePos, 5.0))
	if m.host.position != 30 {
		t.Errorf("position = %v, want 30", m.host.position)
	}

	m, _ = applyUpdate(m, propertyChange(player.PropTimePos, 45.0))
	if m.host.position != 45 {
		t.Errorf("position = %v, want 45 (inside range)", m.host.position)
	}
}

func TestPauseEvent(t *testing.T) {
	m := loadedModel(t)
	m, _ = applyUpdate(m, propertyChange(player.PropPause, true))
	if !m.paused {
		t.Error("should be paused")
	}
	m, _ = applyUpdate(m, propertyChange(player.PropPause, false))
	if m.paused {
		t.Error("should be playing")
	}
}

func TestLifecycleEvents(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{player.EventFileLoaded, "Loaded"},
		{player.EventEndFile, "Idle"},
		{player.EventShutdown, "Player exited"},
	}
	for _, tt := range tests {
		m := New(Options{})
		m, _ = applyUpdate(m, PlayerEventMsg{Event: player.Event{Event: tt.event}})
		if m.statusText != tt.want {
			t.Errorf("%s: statusText = %q, want %q", tt.event, m.statusText, tt.want)
		}
	}
}

func TestKeyNudges(t *testing.T) {
	m := loadedModel(t)

	m, _ = applyUpdate(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.ctrl.CurrentRange().Start; got != 1 {
		t.Errorf("start = %v, want 1", got)
	}

	m, _ = applyUpdate(m, runes("]"))
	if m.keyMode != trim.DraggingEnd {
		t.Fatalf("keyMode = %v, want end", m.keyMode)
	}
	m, _ = applyUpdate(m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	if got := m.ctrl.CurrentRange().End; got != 89 {
		t.Errorf("end = %v, want 89", got)
	}

	m, _ = applyUpdate(m, runes("w"))
	m, _ = applyUpdate(m, tea.KeyMsg{Type: tea.KeyShiftRight})
	r := m.ctrl.CurrentRange()
	if r.Start != 11 || r.End != 99 {
		t.Errorf("range = %+v, want {11 99}", r)
	}

	m, _ = applyUpdate(m, FrameMsg{})
	if m.view.rendered != r {
		t.Errorf("rendered = %+v, want %+v", m.view.rendered, r)
	}
}

func TestNudgeBeforeDurationIgnored(t *testing.T) {
	m := newSizedModel(t)
	m, _ = applyUpdate(m, tea.KeyMsg{Type: tea.KeyRight})
	if r := m.ctrl.CurrentRange(); r != (trim.Range{}) {
		t.Errorf("range = %+v, want zero", r)
	}
}

func TestEnterReplaysFromStart(t *testing.T) {
	m := loadedModel(t)
	m.ctrl.Nudge(trim.DraggingStart, 25)
	m.host.position = 70

	m, _ = applyUpdate(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.host.position != 25 {
		t.Errorf("position = %v, want 25", m.host.position)
	}
}

func TestSpaceWithoutConnectionIsNoop(t *testing.T) {
	m := loadedModel(t)
	_, cmd := applyUpdate(m, tea.KeyMsg{Type: tea.KeySpace})
	if cmd != nil {
		t.Error("space without a player should not issue a command")
	}
}

func TestQuit(t *testing.T) {
	m := loadedModel(t)
	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow))

	m, cmd := applyUpdate(m, runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if m.ctrl.Dragging() {
		t.Error("quit should close the controller")
	}
	if n := m.bus.Len(trim.PointerMove); n != 0 {
		t.Errorf("%d move listeners left after quit", n)
	}
}

func TestPlayerConnectError(t *testing.T) {
	m := newSizedModel(t)

	m, cmd := applyUpdate(m, PlayerConnectErrorMsg{Err: fmt.Errorf("connection refused")})
	if m.connected {
		t.Error("should not be connected after error")
	}
	if !m.reconnecting {
		t.Error("should be reconnecting after connect error")
	}
	if cmd == nil {
		t.Error("connect error should schedule a reconnect")
	}
}

func TestEventStreamLossCancelsDrag(t *testing.T) {
	m := loadedModel(t)
	m.connected = true
	m, _ = applyUpdate(m, mouse(tea.MouseActionPress, 2, trackRow))

	m, _ = applyUpdate(m, PlayerEventErrorMsg{Err: fmt.Errorf("EOF")})
	if m.ctrl.Dragging() {
		t.Error("stream loss should cancel the drag")
	}
	if m.connected {
		t.Error("should be disconnected")
	}
	if !m.reconnecting {
		t.Error("should be reconnecting")
	}
}

func TestCommandErrorIsTransient(t *testing.T) {
	m := newSizedModel(t)

	m, cmd := applyUpdate(m, CommandErrorMsg{Err: fmt.Errorf("player command seek: error running command")})
	if m.errorMessage == "" {
		t.Fatal("error should be shown")
	}
	if cmd == nil {
		t.Error("transient error should return a clear command")
	}

	m, _ = applyUpdate(m, ClearTransientErrorMsg{})
	if m.errorMessage != "" {
		t.Errorf("errorMessage = %q after clear", m.errorMessage)
	}
}

// recordingPlayer answers every command with success and keeps what it got.
type recordingPlayer struct {
	mu       sync.Mutex
	commands [][]any
}

func (p *recordingPlayer) received() [][]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]any(nil), p.commands...)
}

func startRecordingPlayer(t *testing.T) (*recordingPlayer, string) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	p := &recordingPlayer{}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var cmd player.Command
			if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
				return
			}
			p.mu.Lock()
			p.commands = append(p.commands, cmd.Command)
			p.mu.Unlock()
			data, _ := json.Marshal(player.Response{Error: "success", RequestID: cmd.RequestID})
			conn.Write(append(data, '\n'))
		}
	}()
	return p, sockPath
}

// runCmd executes cmd and any batched children, returning their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestPlaybackWindowSentToPlayer(t *testing.T) {
	p, sockPath := startRecordingPlayer(t)
	client, err := player.Connect(sockPath, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	m := newSizedModel(t)
	m, _ = applyUpdate(m, PlayerConnectedMsg{Client: client})
	if !m.connected {
		t.Fatal("expected connected")
	}

	_, cmd := applyUpdate(m, propertyChange(player.PropDuration, testDuration))
	for _, msg := range runCmd(cmd) {
		if errMsg, ok := msg.(CommandErrorMsg); ok {
			t.Fatalf("command failed: %v", errMsg.Err)
		}
	}

	got := p.received()
	if len(got) != 2 {
		t.Fatalf("commands = %v, want 2 set_property calls", got)
	}
	if got[0][0] != "set_property" || got[0][1] != player.PropABLoopA || got[0][2] != 0.0 {
		t.Errorf("first command = %v", got[0])
	}
	if got[1][0] != "set_property" || got[1][1] != player.PropABLoopB || got[1][2] != testDuration {
		t.Errorf("second command = %v", got[1])
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m := loadedModel(t)

	view := m.View()
	if view == "Initializing..." {
		t.Fatal("view should not show initializing with size set")
	}
	for _, want := range []string{"TRIMBAR", "Trimmed duration: 1:39", "┃"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewWaitingForMedia(t *testing.T) {
	m := newSizedModel(t)
	if view := m.View(); !strings.Contains(view, "Waiting for media") {
		t.Error("view should say it is waiting for media")
	}
}

func TestViewShowsError(t *testing.T) {
	m := newSizedModel(t)
	m.errorMessage = "boom"
	if view := m.View(); !strings.Contains(view, "boom") {
		t.Error("view should show the error")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m := New(Options{})
	view := m.View()
	if view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}

func TestViewNarrowTerminal(t *testing.T) {
	m := New(Options{})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 3, Height: 10})
	m, _ = applyUpdate(m, propertyChange(player.PropDuration, testDuration))
	if view := m.View(); view == "" {
		t.Error("narrow view should still render")
	}
}
