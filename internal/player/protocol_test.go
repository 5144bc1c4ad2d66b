package player

import (
	"encoding/json"
	"testing"
)

func TestCommandMarshal(t *testing.T) {
	data, err := json.Marshal(Command{Command: []any{"seek", 12.5, "absolute"}, RequestID: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"command":["seek",12.5,"absolute"],"request_id":7}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestResponseSuccess(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(`{"data":61.2,"error":"success","request_id":3}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !resp.OK() {
		t.Error("ok = false, want true")
	}
	if resp.RequestID != 3 {
		t.Errorf("request_id = %d, want 3", resp.RequestID)
	}
	if f, ok := resp.Float(); !ok || f != 61.2 {
		t.Errorf("data = %v (%v), want 61.2", f, ok)
	}
}

func TestResponseError(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(`{"error":"property not found","request_id":4}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.OK() {
		t.Error("ok = true, want false")
	}
	if _, ok := resp.Float(); ok {
		t.Error("missing data should not decode")
	}
}

func TestEventPropertyChange(t *testing.T) {
	var ev Event
	line := `{"event":"property-change","id":2,"name":"time-pos","data":17.04}`
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ev.Event != EventPropertyChange || ev.ID != ObserveTimePos || ev.Name != PropTimePos {
		t.Errorf("event = %+v", ev)
	}
	if f, ok := ev.Float(); !ok || f != 17.04 {
		t.Errorf("data = %v (%v), want 17.04", f, ok)
	}
}

func TestEventBool(t *testing.T) {
	ev := Event{Event: EventPropertyChange, Name: PropPause, Data: json.RawMessage("true")}
	if b, ok := ev.Bool(); !ok || !b {
		t.Errorf("pause = %v (%v), want true", b, ok)
	}

	ev.Data = json.RawMessage(`"yes"`)
	if _, ok := ev.Bool(); ok {
		t.Error("string data should not decode as bool")
	}
}

func TestEventEndFile(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"event":"end-file","reason":"eof"}`), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Event != EventEndFile || ev.Reason != "eof" {
		t.Errorf("event = %+v", ev)
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Command: "seek", Status: "error running command"}
	if err.Error() != "player command seek: error running command" {
		t.Errorf("error = %q", err.Error())
	}
}
