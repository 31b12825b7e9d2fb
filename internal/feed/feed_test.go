package feed

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/twistycube"
)

func newTestHub(t *testing.T) (*twistycube.Controller, *websocket.Conn) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	ctrl, err := twistycube.New(twistycube.WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewHub(ctrl, log))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ctrl, conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestHubBroadcastsMovesAndSolve(t *testing.T) {
	ctrl, conn := newTestHub(t)

	hello := read(t, conn)
	if hello.Type != TypeHello || hello.Session != ctrl.Session() || hello.Size != 3 || !hello.Solved {
		t.Fatalf("hello = %+v", hello)
	}

	if err := ctrl.ApplyNotation("R R'"); err != nil {
		t.Fatal(err)
	}

	var types []string
	for i := 0; i < 3; i++ {
		msg := read(t, conn)
		types = append(types, msg.Type)
		if msg.Type == TypeMove && (msg.Event == nil || msg.Event.Source != twistycube.SourceNotation) {
			t.Errorf("move message = %+v", msg)
		}
	}
	want := []string{TypeMove, TypeMove, TypeSolved}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("message types = %v, want %v", types, want)
		}
	}
}

func TestHubAppliesNotationFromClients(t *testing.T) {
	ctrl, conn := newTestHub(t)
	read(t, conn)

	if err := conn.WriteJSON(Message{Type: TypeNotation, Notation: "U"}); err != nil {
		t.Fatal(err)
	}
	msg := read(t, conn)
	if msg.Type != TypeMove || msg.Event.Source != twistycube.SourceNotation {
		t.Fatalf("got %+v, want a notation move", msg)
	}
	if msg.Event.Move.Notation(ctrl.Geometry()) != "U" {
		t.Errorf("move = %s", msg.Event.Move)
	}

	if err := conn.WriteJSON(Message{Type: TypeNotation, Notation: "Q"}); err != nil {
		t.Fatal(err)
	}
	if msg := read(t, conn); msg.Type != TypeError || msg.Error == "" {
		t.Errorf("got %+v, want an error", msg)
	}
	if ctrl.Moves() != 1 {
		t.Errorf("Moves = %d, want 1", ctrl.Moves())
	}
}
