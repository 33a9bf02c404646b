package interp

import (
	"errors"
	"fmt"
	"net/http"
	"quarter/pkg/ir"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The inspector is a local debugging tool; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inspector serves the step debugger over a websocket: one connection
// drives execution with step/vars/quit commands and receives snapshot
// frames and program output. Execution is as synchronous as the CLI
// debugger: each instruction blocks until the client commands a step.
type Inspector struct {
	program *ir.Program
	secret  string
}

// NewInspector wraps a program. With a non-empty secret, the first
// client message must carry a token signed with it.
func NewInspector(program *ir.Program, secret string) *Inspector {
	return &Inspector{program: program, secret: secret}
}

// Command is one client request.
type Command struct {
	Cmd   string `json:"cmd"` // "step" | "vars" | "quit"
	Token string `json:"token,omitempty"`
}

// Event is one server message.
type Event struct {
	Event    string       `json:"event"` // "step" | "vars" | "output" | "done" | "error"
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
	Frames   []FrameState `json:"frames,omitempty"`
	Text     string       `json:"text,omitempty"`
}

// Handler exposes the inspector endpoint.
func (i *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug", i.handle)
	return mux
}

// ListenAndServe blocks serving the inspector on addr.
func (i *Inspector) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, i.Handler())
}

func (i *Inspector) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if i.secret != "" {
		var hello Command
		if err := conn.ReadJSON(&hello); err != nil {
			return
		}
		if _, err := VerifyToken(hello.Token, i.secret); err != nil {
			conn.WriteJSON(Event{Event: "error", Text: "unauthorized"})
			return
		}
	}

	m := New(i.program,
		WithOutput(&socketWriter{conn: conn}),
		WithStepper(i.gate(conn)),
	)

	err = m.Execute()
	switch {
	case errors.Is(err, ErrStopped):
		conn.WriteJSON(Event{Event: "done", Text: "stopped"})
	case err != nil:
		conn.WriteJSON(Event{Event: "error", Text: err.Error()})
	default:
		conn.WriteJSON(Event{Event: "done"})
	}
}

func (i *Inspector) gate(conn *websocket.Conn) StepFunc {
	return func(snap *Snapshot) error {
		if err := conn.WriteJSON(Event{Event: "step", Snapshot: snap}); err != nil {
			return ErrStopped
		}
		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return ErrStopped
			}
			switch cmd.Cmd {
			case "step":
				return nil
			case "vars":
				if err := conn.WriteJSON(Event{Event: "vars", Frames: snap.Frames}); err != nil {
					return ErrStopped
				}
			case "quit":
				return ErrStopped
			default:
				conn.WriteJSON(Event{Event: "error", Text: fmt.Sprintf("unknown command %q", cmd.Cmd)})
			}
		}
	}
}

// socketWriter forwards interpreter output to the client as events.
type socketWriter struct {
	conn *websocket.Conn
}

func (s *socketWriter) Write(p []byte) (int, error) {
	if err := s.conn.WriteJSON(Event{Event: "output", Text: string(p)}); err != nil {
		return 0, err
	}
	return len(p), nil
}
