package interp

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialInspector(t *testing.T, program string, secret string) *websocket.Conn {
	t.Helper()

	inspector := NewInspector(compileSource(t, program), secret)
	server := httptest.NewServer(inspector.Handler())
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/debug"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInspectorStepsProgram(t *testing.T) {
	conn := dialInspector(t, "val a as int: 3\nsay a", "")

	var sawOutput, sawDone bool
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		switch ev.Event {
		case "step":
			if ev.Snapshot == nil {
				t.Fatal("step event without snapshot")
			}
			if err := conn.WriteJSON(Command{Cmd: "step"}); err != nil {
				t.Fatalf("write failed: %v", err)
			}
		case "output":
			if !strings.Contains(ev.Text, "3") {
				t.Errorf("output event wrong. got=%q", ev.Text)
			}
			sawOutput = true
		case "done":
			sawDone = true
		case "error":
			t.Fatalf("unexpected error event: %s", ev.Text)
		}
		if sawDone {
			break
		}
	}

	if !sawOutput {
		t.Error("program output never reached the client")
	}
}

func TestInspectorVarsCommand(t *testing.T) {
	conn := dialInspector(t, "val a as int: 3\nval b as int: 4", "")

	steps := 0
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if ev.Event == "done" {
			t.Fatal("program finished before vars were inspected")
		}
		if ev.Event != "step" {
			continue
		}

		steps++
		if steps == 3 {
			// Past Alloc a / Store a: ask for the frames.
			if err := conn.WriteJSON(Command{Cmd: "vars"}); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			var vars Event
			if err := conn.ReadJSON(&vars); err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if vars.Event != "vars" {
				t.Fatalf("expected vars event, got %q", vars.Event)
			}
			if len(vars.Frames) != 1 || vars.Frames[0].Vars["a"] != 3 {
				t.Fatalf("frames wrong. got=%v", vars.Frames)
			}
			if err := conn.WriteJSON(Command{Cmd: "quit"}); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			return
		}

		if err := conn.WriteJSON(Command{Cmd: "step"}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

func TestInspectorQuit(t *testing.T) {
	conn := dialInspector(t, `
loop 0 to 1000000 {
    val t as int: 1
}
`, "")

	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if ev.Event != "step" {
		t.Fatalf("expected step event, got %q", ev.Event)
	}
	if err := conn.WriteJSON(Command{Cmd: "quit"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	for {
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if ev.Event == "done" {
			return
		}
	}
}

func TestInspectorRejectsBadToken(t *testing.T) {
	conn := dialInspector(t, "say 1", "topsecret")

	if err := conn.WriteJSON(Command{Token: "not-a-token"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if ev.Event != "error" || ev.Text != "unauthorized" {
		t.Fatalf("expected unauthorized error, got %+v", ev)
	}
}

func TestInspectorAcceptsSignedToken(t *testing.T) {
	token, err := SignToken("test", "topsecret", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}

	conn := dialInspector(t, "say 1", "topsecret")
	if err := conn.WriteJSON(Command{Token: token}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if ev.Event != "step" {
		t.Fatalf("authenticated session should start stepping, got %+v", ev)
	}
}
