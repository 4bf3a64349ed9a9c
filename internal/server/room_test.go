package server

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hexisle/internal/database"
	"hexisle/internal/game"
)

// Helper to build a registry backed by a throwaway database. The hub
// has no connected clients, so broadcasts go nowhere.
func newTestRegistry(t *testing.T) (*Registry, *database.DB) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := &Server{db: db}
	srv.hub = NewHub(srv)
	reg := NewRegistry(db, srv.hub)
	srv.rooms = reg
	return reg, db
}

// Helper to register an account.
func newTestPlayer(t *testing.T, db *database.DB, name string) *database.Player {
	t.Helper()
	p, err := db.CreatePlayer(name, "pw")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p
}

func TestRoom_LobbyJoinAndCapacity(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")
	guest := newTestPlayer(t, db, "guest")
	third := newTestPlayer(t, db, "third")

	room, err := reg.Create(host.ID, host.Name, "friday night", 2, 10, true)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if err := room.Join(guest.ID, guest.Name); err != nil {
		t.Fatalf("guest join: %v", err)
	}
	if err := room.Join(third.ID, third.Name); !errors.Is(err, ErrRoomFull) {
		t.Errorf("Expected ErrRoomFull, got %v", err)
	}

	// Rejoining an occupied seat is not a second join.
	if err := room.Join(guest.ID, guest.Name); err != nil {
		t.Errorf("Expected rejoin to succeed, got %v", err)
	}
	players, _ := db.GetGamePlayers(room.ID)
	if len(players) != 2 {
		t.Errorf("Expected 2 players on record, got %d", len(players))
	}
}

func TestRoom_StartGame(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")
	guest := newTestPlayer(t, db, "guest")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)
	room.Join(guest.ID, guest.Name)

	if err := room.Start(guest.ID); !errors.Is(err, ErrNotHost) {
		t.Errorf("Expected ErrNotHost, got %v", err)
	}
	if err := room.Start(host.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := room.Start(host.ID); !errors.Is(err, ErrRoomStarted) {
		t.Errorf("Expected ErrRoomStarted, got %v", err)
	}

	rec, _ := db.GetGame(room.ID)
	if rec.Status != database.GameStatusStarted {
		t.Errorf("Expected started status on record, got %s", rec.Status)
	}

	// Started rooms accept no new seats.
	late := newTestPlayer(t, db, "late")
	if err := room.Join(late.ID, late.Name); !errors.Is(err, ErrRoomStarted) {
		t.Errorf("Expected ErrRoomStarted for a late join, got %v", err)
	}
}

func TestRoom_ApplyGuards(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")
	guest := newTestPlayer(t, db, "guest")
	outsider := newTestPlayer(t, db, "outsider")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)
	room.Join(guest.ID, guest.Name)

	noop := func(g *game.GameState) error { return nil }
	if err := room.Apply(host.ID, noop); !errors.Is(err, ErrRoomNotStarted) {
		t.Errorf("Expected ErrRoomNotStarted, got %v", err)
	}

	room.Start(host.ID)

	if err := room.Apply(outsider.ID, noop); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("Expected ErrNotInRoom, got %v", err)
	}

	// Engine errors pass through unchanged.
	err := room.Apply(host.ID, func(g *game.GameState) error {
		_, _, err := g.RollDice(host.ID)
		return err
	})
	if !errors.Is(err, game.ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction during setup, got %v", err)
	}

	// The host places first; any free vertex works on an empty board.
	err = room.Apply(host.ID, func(g *game.GameState) error {
		return g.PlaceSetupSettlement(host.ID, 0)
	})
	if err != nil {
		t.Fatalf("setup placement: %v", err)
	}
}

func TestRoom_HostSeatPassesDown(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")
	guest := newTestPlayer(t, db, "guest")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)
	room.Join(guest.ID, guest.Name)

	if err := room.Leave(host.ID); err != nil {
		t.Fatalf("host leave: %v", err)
	}

	// The guest inherits the host seat. Starting alone still fails,
	// but on player count, not on permission.
	err := room.Start(guest.ID)
	if errors.Is(err, ErrNotHost) {
		t.Error("Expected the guest to be host after the handoff")
	}
	if err == nil {
		t.Error("Expected a solo start to fail")
	}

	// The last player leaving dissolves the lobby and its record.
	if err := room.Leave(guest.ID); err != nil {
		t.Fatalf("guest leave: %v", err)
	}
	if _, err := db.GetGame(room.ID); !errors.Is(err, database.ErrGameNotFound) {
		t.Errorf("Expected the record gone, got %v", err)
	}
	if reap, _ := room.reapable(time.Now()); !reap {
		t.Error("Expected the emptied room to be reapable")
	}
}

func TestRoom_FinishRecordsOutcome(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")
	guest := newTestPlayer(t, db, "guest")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)
	room.Join(guest.ID, guest.Name)
	room.Start(host.ID)

	// Force the end of the game through a state mutation.
	err := room.Apply(host.ID, func(g *game.GameState) error {
		g.WinnerID = host.ID
		g.Phase = game.PhaseEnded
		return nil
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, err := db.GetGame(room.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if rec.Status != database.GameStatusFinished {
		t.Errorf("Expected finished status, got %s", rec.Status)
	}
	if rec.WinnerID != host.ID {
		t.Errorf("Expected winner %s, got %s", host.ID, rec.WinnerID)
	}

	events, _ := db.GetGameHistory(room.ID)
	if len(events) == 0 {
		t.Error("Expected the event log persisted")
	}

	// Finished rooms linger for a grace period, then go.
	if reap, _ := room.reapable(time.Now()); reap {
		t.Error("Expected the room to linger right after the game ended")
	}
	reap, dropRecord := room.reapable(time.Now().Add(endedGrace + time.Minute))
	if !reap {
		t.Error("Expected the room reapable after the grace period")
	}
	if dropRecord {
		t.Error("Expected the finished game record to be kept")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)

	if reg.Get(room.ID) != room {
		t.Error("Expected lookup by ID")
	}
	if reg.Get("nope") != nil {
		t.Error("Expected nil for an unknown ID")
	}
	if reg.GetByCode(strings.ToLower(room.JoinCode)) != room {
		t.Error("Expected join codes to match case insensitively")
	}
}

func TestRegistry_ReapsAbandonedRooms(t *testing.T) {
	reg, db := newTestRegistry(t)
	host := newTestPlayer(t, db, "host")

	room, _ := reg.Create(host.ID, host.Name, "friday night", 4, 10, true)
	room.SetConnected(host.ID, false)

	// Not yet: the abandonment clock has barely started.
	reg.reap(time.Now())
	if reg.Get(room.ID) == nil {
		t.Fatal("Expected the room to survive an early sweep")
	}

	reg.reap(time.Now().Add(abandonAfter + time.Minute))
	if reg.Get(room.ID) != nil {
		t.Error("Expected the abandoned room removed")
	}
	if _, err := db.GetGame(room.ID); !errors.Is(err, database.ErrGameNotFound) {
		t.Errorf("Expected the abandoned record deleted, got %v", err)
	}
	if err := room.Join(host.ID, host.Name); !errors.Is(err, ErrRoomClosed) {
		t.Errorf("Expected ErrRoomClosed after the reap, got %v", err)
	}
}
