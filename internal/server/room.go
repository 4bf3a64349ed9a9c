package server

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"hexisle/internal/database"
	"hexisle/internal/game"
	"hexisle/internal/protocol"
)

// Room lifecycle errors.
var (
	ErrRoomClosed     = errors.New("game room is closed")
	ErrRoomFull       = errors.New("game is full")
	ErrRoomStarted    = errors.New("game already started")
	ErrRoomNotStarted = errors.New("game has not started")
	ErrNotInRoom      = errors.New("player is not in this game")
	ErrNotHost        = errors.New("only the host can do that")
)

const (
	// Finished rooms linger so clients can fetch the final state.
	endedGrace = 5 * time.Minute
	// Rooms with no connected players are torn down after this long.
	abandonAfter = 30 * time.Minute
	reapInterval = time.Minute
)

// Seat is one player's membership in a room, held from lobby join until
// the room is reaped. A dropped connection keeps the seat.
type Seat struct {
	PlayerID  string
	Name      string
	Connected bool
}

// Room is one live game: lobby seats before the start, the rules engine
// after. Every mutation runs on the room's own goroutine, so the engine
// needs no locking and actions apply strictly one at a time.
type Room struct {
	ID         string
	Name       string
	JoinCode   string
	IsPublic   bool
	MaxPlayers int
	TargetVP   int

	hub *Hub
	db  *database.DB

	ops    chan func()
	closed chan struct{}
	once   sync.Once

	// Owned by the run goroutine. Reach it through do.
	hostID    string
	seats     []*Seat
	game      *game.GameState
	done      bool
	doneAt    time.Time
	idleSince time.Time
}

func newRoom(rec *database.Game, hostName string, hub *Hub, db *database.DB) *Room {
	r := &Room{
		ID:         rec.ID,
		Name:       rec.Name,
		JoinCode:   rec.JoinCode,
		IsPublic:   rec.IsPublic,
		MaxPlayers: rec.MaxPlayers,
		TargetVP:   rec.TargetVP,
		hub:        hub,
		db:         db,
		ops:        make(chan func()),
		closed:     make(chan struct{}),
		hostID:     rec.HostPlayerID,
		seats:      []*Seat{{PlayerID: rec.HostPlayerID, Name: hostName, Connected: true}},
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case fn := <-r.ops:
			fn()
		case <-r.closed:
			// Serve anything that won the race against the close.
			for {
				select {
				case fn := <-r.ops:
					fn()
				default:
					return
				}
			}
		}
	}
}

// do runs fn on the room goroutine and returns its error. The ops
// channel is unbuffered, so a completed send means fn will run.
func (r *Room) do(fn func() error) error {
	errc := make(chan error, 1)
	select {
	case r.ops <- func() { errc <- fn() }:
		return <-errc
	case <-r.closed:
		return ErrRoomClosed
	}
}

// Close stops the room goroutine.
func (r *Room) Close() {
	r.once.Do(func() { close(r.closed) })
}

// Join seats a player, or reconnects one who already holds a seat.
func (r *Room) Join(playerID, name string) error {
	return r.do(func() error { return r.join(playerID, name) })
}

// Leave vacates a lobby seat. In a started game the seat is kept and
// the player just goes offline.
func (r *Room) Leave(playerID string) error {
	return r.do(func() error { return r.leave(playerID) })
}

// Start builds the game from the seated players. Host only.
func (r *Room) Start(playerID string) error {
	return r.do(func() error { return r.start(playerID) })
}

// Apply runs one rules engine call for a seated player. On success
// every seat receives its own redacted view of the new state.
func (r *Room) Apply(playerID string, act func(*game.GameState) error) error {
	return r.do(func() error { return r.apply(playerID, act) })
}

// SendState sends the lobby or game state to one player.
func (r *Room) SendState(playerID string) {
	r.do(func() error {
		if r.game == nil {
			r.hub.sendToPlayer(playerID, protocol.TypeLobbyState, r.lobbyPayload())
		} else {
			r.sendState(playerID)
		}
		return nil
	})
}

// SetConnected flips a seat's connection flag. Asynchronous so the hub
// loop never waits on room work.
func (r *Room) SetConnected(playerID string, connected bool) {
	select {
	case r.ops <- func() { r.setConnected(playerID, connected) }:
	case <-r.closed:
	}
}

// reapable reports whether the room should be torn down and whether its
// database record goes with it.
func (r *Room) reapable(now time.Time) (reap, dropRecord bool) {
	err := r.do(func() error {
		switch {
		case r.done:
			// Finished game, or a lobby that emptied out. Emptied
			// lobbies already deleted their record.
			reap = r.game == nil || now.Sub(r.doneAt) > endedGrace
		case !r.idleSince.IsZero() && now.Sub(r.idleSince) > abandonAfter:
			// Every seat has been dark for a long time. Abandoned
			// games leave no record behind.
			reap, dropRecord = true, true
		}
		return nil
	})
	if err != nil {
		return true, false
	}
	return reap, dropRecord
}

func (r *Room) seat(playerID string) *Seat {
	for _, s := range r.seats {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

func (r *Room) join(playerID, name string) error {
	if s := r.seat(playerID); s != nil {
		// Rejoining, usually after a dropped connection.
		s.Connected = true
		r.idleSince = time.Time{}
		if r.game != nil {
			if p := r.game.PlayerByID(playerID); p != nil {
				p.IsOnline = true
			}
			r.broadcastState()
		} else {
			r.broadcastLobby()
		}
		return nil
	}

	if r.done {
		return ErrRoomClosed
	}
	if r.game != nil {
		return ErrRoomStarted
	}
	if len(r.seats) >= r.MaxPlayers {
		return ErrRoomFull
	}
	if err := r.db.JoinGame(r.ID, playerID); err != nil {
		return err
	}

	r.seats = append(r.seats, &Seat{PlayerID: playerID, Name: name, Connected: true})
	r.idleSince = time.Time{}
	r.notifySeats(protocol.TypePlayerJoined, protocol.PlayerJoinedPayload{
		PlayerID: playerID,
		Name:     name,
	})
	r.broadcastLobby()
	return nil
}

func (r *Room) leave(playerID string) error {
	s := r.seat(playerID)
	if s == nil {
		return ErrNotInRoom
	}

	if r.game != nil {
		// Started games keep the seat; leaving is going offline.
		s.Connected = false
		if p := r.game.PlayerByID(playerID); p != nil {
			p.IsOnline = false
		}
		r.touchIdle()
		r.broadcastState()
		return nil
	}

	if err := r.db.LeaveGame(r.ID, playerID); err != nil {
		return err
	}
	for i, q := range r.seats {
		if q == s {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			break
		}
	}

	if len(r.seats) == 0 {
		if err := r.db.DeleteGame(r.ID); err != nil {
			log.Printf("Failed to delete emptied lobby %s: %v", r.ID, err)
		}
		r.done = true
		r.doneAt = time.Now()
		return nil
	}

	// The host's seat passes down the table.
	if r.hostID == playerID {
		r.hostID = r.seats[0].PlayerID
	}
	r.notifySeats(protocol.TypePlayerLeft, protocol.PlayerLeftPayload{PlayerID: playerID})
	r.broadcastLobby()
	return nil
}

func (r *Room) start(playerID string) error {
	if r.game != nil {
		return ErrRoomStarted
	}
	if playerID != r.hostID {
		return ErrNotHost
	}
	if len(r.seats) < game.MinPlayers {
		return fmt.Errorf("need at least %d players", game.MinPlayers)
	}

	roster := make([]game.PlayerInfo, len(r.seats))
	for i, s := range r.seats {
		roster[i] = game.PlayerInfo{ID: s.PlayerID, Name: s.Name}
	}
	settings := game.DefaultSettings(len(roster))
	if r.TargetVP > 0 {
		settings.TargetVP = r.TargetVP
	}

	g, err := game.NewGame(roster, settings, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	if err := r.db.StartGame(r.ID); err != nil {
		return err
	}

	r.game = g
	for _, s := range r.seats {
		if p := g.PlayerByID(s.PlayerID); p != nil {
			p.IsOnline = s.Connected
		}
	}

	r.notifySeats(protocol.TypeGameStarted, protocol.GameStartedPayload{GameID: r.ID})
	r.broadcastState()
	return nil
}

func (r *Room) apply(playerID string, act func(*game.GameState) error) error {
	if r.game == nil {
		return ErrRoomNotStarted
	}
	if r.seat(playerID) == nil {
		return ErrNotInRoom
	}

	if err := act(r.game); err != nil {
		return err
	}

	r.broadcastState()
	if r.game.Ended() && !r.done {
		r.finish()
	}
	return nil
}

// finish records the outcome and the event log, then announces the
// winner. The reaper removes the room after a grace period.
func (r *Room) finish() {
	r.done = true
	r.doneAt = time.Now()

	winnerID, winnerName := "", ""
	if w := r.game.Winner(); w != nil {
		winnerID, winnerName = w.ID, w.Name
	}

	if err := r.db.FinishGame(r.ID, winnerID); err != nil {
		log.Printf("Failed to record finished game %s: %v", r.ID, err)
	}
	events := make([]database.HistoryEvent, len(r.game.Events))
	for i, ev := range r.game.Events {
		events[i] = database.HistoryEvent{
			EventType:  string(ev.Type),
			PlayerID:   ev.PlayerID,
			Message:    ev.Message,
			OccurredAt: ev.Timestamp,
		}
	}
	if err := r.db.SaveHistory(r.ID, events); err != nil {
		log.Printf("Failed to save history for game %s: %v", r.ID, err)
	}

	r.notifySeats(protocol.TypeGameEnded, protocol.GameEndedPayload{
		WinnerID:   winnerID,
		WinnerName: winnerName,
	})
}

func (r *Room) setConnected(playerID string, connected bool) {
	s := r.seat(playerID)
	if s == nil || s.Connected == connected {
		return
	}
	s.Connected = connected
	if connected {
		r.idleSince = time.Time{}
	} else {
		r.touchIdle()
	}

	if r.game != nil {
		if p := r.game.PlayerByID(playerID); p != nil {
			p.IsOnline = connected
		}
		if !connected {
			r.notifySeats(protocol.TypeDisconnect, protocol.DisconnectPayload{
				PlayerID: playerID,
				Reason:   "connection lost",
			})
		}
		r.broadcastState()
	} else {
		r.broadcastLobby()
	}
}

// touchIdle starts the abandonment clock once no seat is connected.
func (r *Room) touchIdle() {
	for _, s := range r.seats {
		if s.Connected {
			r.idleSince = time.Time{}
			return
		}
	}
	if r.idleSince.IsZero() {
		r.idleSince = time.Now()
	}
}

// broadcastState sends each seat its own view. Hidden hands stay
// hidden because every player gets a view built for them alone.
func (r *Room) broadcastState() {
	for _, s := range r.seats {
		r.sendState(s.PlayerID)
	}
}

func (r *Room) sendState(playerID string) {
	view := protocol.BuildStateView(r.game, playerID)
	r.hub.sendToPlayer(playerID, protocol.TypeGameState, protocol.GameStatePayload{State: view})
}

func (r *Room) lobbyPayload() protocol.LobbyStatePayload {
	players := make([]protocol.LobbyPlayer, len(r.seats))
	for i, s := range r.seats {
		players[i] = protocol.LobbyPlayer{
			ID:          s.PlayerID,
			Name:        s.Name,
			IsConnected: s.Connected,
		}
	}
	return protocol.LobbyStatePayload{
		GameID:   r.ID,
		GameName: r.Name,
		JoinCode: r.JoinCode,
		HostID:   r.hostID,
		IsPublic: r.IsPublic,
		Settings: protocol.GameSettings{
			MaxPlayers: r.MaxPlayers,
			TargetVP:   r.TargetVP,
		},
		Players: players,
	}
}

func (r *Room) broadcastLobby() {
	r.notifySeats(protocol.TypeLobbyState, r.lobbyPayload())
}

func (r *Room) notifySeats(msgType protocol.MessageType, payload interface{}) {
	for _, s := range r.seats {
		r.hub.sendToPlayer(s.PlayerID, msgType, payload)
	}
}

// Registry tracks the live rooms. The database keeps the catalog of
// games; the registry holds the ones actually running in memory.
type Registry struct {
	db  *database.DB
	hub *Hub

	mu     sync.RWMutex
	rooms  map[string]*Room
	byCode map[string]*Room
}

// NewRegistry creates an empty room registry.
func NewRegistry(db *database.DB, hub *Hub) *Registry {
	return &Registry{
		db:     db,
		hub:    hub,
		rooms:  make(map[string]*Room),
		byCode: make(map[string]*Room),
	}
}

// Create opens a new room with the host already seated.
func (reg *Registry) Create(hostID, hostName, name string, maxPlayers, targetVP int, isPublic bool) (*Room, error) {
	rec, err := reg.db.CreateGame(name, hostID, maxPlayers, targetVP, isPublic)
	if err != nil {
		return nil, err
	}
	if err := reg.db.JoinGame(rec.ID, hostID); err != nil {
		return nil, err
	}

	r := newRoom(rec, hostName, reg.hub, reg.db)
	reg.mu.Lock()
	reg.rooms[r.ID] = r
	reg.byCode[r.JoinCode] = r
	reg.mu.Unlock()
	return r, nil
}

// Get returns the room with the given game ID, or nil.
func (reg *Registry) Get(id string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[id]
}

// GetByCode returns the room with the given join code, or nil.
func (reg *Registry) GetByCode(code string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.byCode[strings.ToUpper(strings.TrimSpace(code))]
}

// Run reaps dead rooms until stop closes.
func (reg *Registry) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			reg.reap(now)
		case <-stop:
			return
		}
	}
}

func (reg *Registry) reap(now time.Time) {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	for _, r := range rooms {
		reap, dropRecord := r.reapable(now)
		if !reap {
			continue
		}
		r.Close()
		reg.mu.Lock()
		delete(reg.rooms, r.ID)
		delete(reg.byCode, r.JoinCode)
		reg.mu.Unlock()
		if dropRecord {
			if err := reg.db.DeleteGame(r.ID); err != nil {
				log.Printf("Failed to delete abandoned game %s: %v", r.ID, err)
			}
		}
		log.Printf("Reaped room %s (%s)", r.ID, r.Name)
	}
}

// CloseAll stops every room goroutine. Used at shutdown.
func (reg *Registry) CloseAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range reg.rooms {
		r.Close()
	}
}
