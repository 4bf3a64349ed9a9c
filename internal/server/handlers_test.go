package server

import (
	"path/filepath"
	"testing"
	"time"

	"hexisle/internal/auth"
	"hexisle/internal/database"
	"hexisle/internal/protocol"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// Helper to stand up a server wired for direct handler calls, without
// listening on anything.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	issuer, err := auth.New(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	srv := &Server{db: db, auth: issuer}
	srv.hub = NewHub(srv)
	srv.rooms = NewRegistry(db, srv.hub)
	return srv
}

// Helper to make an authenticated client for a fresh account.
func newAuthedClient(t *testing.T, srv *Server, name string) *Client {
	t.Helper()
	p, err := srv.db.CreatePlayer(name, "pw")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	c := NewClient(srv.hub, nil)
	srv.hub.SetClientPlayer(c, p.ID)
	c.Name = p.Name
	return c
}

// Helper to pull the next queued message of one type, consuming
// everything queued before it. Handlers run synchronously here, so
// whatever was sent is already in the channel.
func nextMessage(t *testing.T, c *Client, want protocol.MessageType) *protocol.Message {
	t.Helper()
	for {
		select {
		case m := <-c.send:
			if m.Type == want {
				return m
			}
		default:
			t.Fatalf("no %s message queued", want)
			return nil
		}
	}
}

// Helper to build a command message.
func command(t *testing.T, msgType protocol.MessageType, payload interface{}) *protocol.Message {
	t.Helper()
	m, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return m
}

func TestHandleAuthenticate(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandlers(srv.hub)

	p, _ := srv.db.CreatePlayer("ada", "pw")
	token, _ := srv.auth.Issue(p.ID, p.Name)

	client := NewClient(srv.hub, nil)
	h.Handle(client, command(t, protocol.TypeAuthenticate, protocol.AuthenticatePayload{Token: token}))

	var result protocol.AuthResultPayload
	nextMessage(t, client, protocol.TypeAuthResult).ParsePayload(&result)
	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if result.PlayerID != p.ID || client.PlayerID != p.ID {
		t.Errorf("Expected the connection bound to %s", p.ID)
	}
}

func TestHandleAuthenticate_BadToken(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandlers(srv.hub)

	client := NewClient(srv.hub, nil)
	h.Handle(client, command(t, protocol.TypeAuthenticate, protocol.AuthenticatePayload{Token: "garbage"}))

	var result protocol.AuthResultPayload
	nextMessage(t, client, protocol.TypeAuthResult).ParsePayload(&result)
	if result.Success {
		t.Error("Expected authentication to fail")
	}
	if client.PlayerID != "" {
		t.Error("Expected the connection to stay anonymous")
	}
}

func TestHandleAction_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandlers(srv.hub)

	client := NewClient(srv.hub, nil)
	h.Handle(client, command(t, protocol.TypeRollDice, nil))

	var errPayload protocol.ErrorPayload
	nextMessage(t, client, protocol.TypeError).ParsePayload(&errPayload)
	if errPayload.Code != protocol.ErrCodeNotAuthenticated {
		t.Errorf("Expected not_authenticated, got %s", errPayload.Code)
	}
}

func TestLobbyFlow_CreateJoinStartPlay(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandlers(srv.hub)

	hostC := newAuthedClient(t, srv, "host")
	guestC := newAuthedClient(t, srv, "guest")

	h.Handle(hostC, command(t, protocol.TypeCreateGame, protocol.CreateGamePayload{
		Name:     "friday night",
		IsPublic: true,
		Settings: protocol.GameSettings{MaxPlayers: 2, TargetVP: 10},
	}))

	var created protocol.GameCreatedPayload
	nextMessage(t, hostC, protocol.TypeGameCreated).ParsePayload(&created)
	if created.JoinCode == "" {
		t.Fatal("Expected a join code")
	}

	h.Handle(guestC, command(t, protocol.TypeJoinByCode, protocol.JoinByCodePayload{JoinCode: created.JoinCode}))
	nextMessage(t, guestC, protocol.TypeJoinedGame)

	// The host hears about the new player.
	var joined protocol.PlayerJoinedPayload
	nextMessage(t, hostC, protocol.TypePlayerJoined).ParsePayload(&joined)
	if joined.Name != "guest" {
		t.Errorf("Expected guest in the join notice, got %q", joined.Name)
	}

	// Only the host may start.
	h.Handle(guestC, command(t, protocol.TypeStartGame, nil))
	var errPayload protocol.ErrorPayload
	nextMessage(t, guestC, protocol.TypeError).ParsePayload(&errPayload)
	if errPayload.Code != protocol.ErrCodeInvalidAction {
		t.Errorf("Expected invalid_action for a guest start, got %s", errPayload.Code)
	}

	h.Handle(hostC, command(t, protocol.TypeStartGame, nil))
	nextMessage(t, hostC, protocol.TypeGameStarted)

	var statePayload protocol.GameStatePayload
	nextMessage(t, hostC, protocol.TypeGameState).ParsePayload(&statePayload)
	state := statePayload.State
	if state.Phase != "setup_settlement" {
		t.Fatalf("Expected the setup phase, got %s", state.Phase)
	}
	if state.CurrentPlayer != hostC.PlayerID {
		t.Fatal("Expected the host to place first")
	}

	// Out of turn placement comes back as a failed result, not a
	// transport error.
	h.Handle(guestC, command(t, protocol.TypeBuildSettlement, protocol.BuildSettlementPayload{VertexID: 0}))
	var result protocol.ActionResultPayload
	nextMessage(t, guestC, protocol.TypeActionResult).ParsePayload(&result)
	if result.Success {
		t.Fatal("Expected an out of turn placement to fail")
	}
	if result.Code != protocol.ErrCodeNotYourTurn {
		t.Errorf("Expected not_your_turn, got %s", result.Code)
	}

	// The host's placement lands and both players get fresh state.
	h.Handle(hostC, command(t, protocol.TypeBuildSettlement, protocol.BuildSettlementPayload{VertexID: 0}))
	nextMessage(t, hostC, protocol.TypeActionResult).ParsePayload(&result)
	if !result.Success {
		t.Fatalf("Expected the placement to land, got %s: %s", result.Code, result.Error)
	}
	nextMessage(t, guestC, protocol.TypeGameState)
}

func TestHandlePing(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandlers(srv.hub)

	client := NewClient(srv.hub, nil)
	ping := command(t, protocol.TypePing, nil)
	h.Handle(client, ping)

	pong := nextMessage(t, client, protocol.TypePong)
	if pong.ID != ping.ID {
		t.Errorf("Expected the pong to echo ID %s, got %s", ping.ID, pong.ID)
	}
}
