package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GameStatus represents the current status of a game.
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // In lobby, waiting for players
	GameStatusStarted  GameStatus = "started"  // Game in progress
	GameStatusFinished GameStatus = "finished" // Game completed
)

// GameInfo contains basic game information for listings.
type GameInfo struct {
	ID           string
	Name         string
	JoinCode     string
	IsPublic     bool
	Status       GameStatus
	HostPlayerID string
	HostName     string
	PlayerCount  int
	MaxPlayers   int
	TargetVP     int
	WinnerID     string
	CreatedAt    time.Time
}

// Game contains full game data.
type Game struct {
	GameInfo
	StartedAt *time.Time
	EndedAt   *time.Time
}

// GamePlayer links a player to a game. Seat is seating order.
type GamePlayer struct {
	GameID     string
	PlayerID   string
	PlayerName string
	Seat       int
	JoinedAt   time.Time
}

// ErrGameNotFound is returned when a game is not found.
var ErrGameNotFound = errors.New("game not found")

// ErrJoinCodeNotFound is returned when a join code is invalid.
var ErrJoinCodeNotFound = errors.New("invalid join code")

// ErrGameFull is returned when a game has reached max players.
var ErrGameFull = errors.New("game is full")

// ErrAlreadyInGame is returned when player is already in the game.
var ErrAlreadyInGame = errors.New("already in game")

// CreateGame creates a new game record in the waiting state.
func (db *DB) CreateGame(name, hostPlayerID string, maxPlayers, targetVP int, isPublic bool) (*Game, error) {
	id := uuid.New().String()
	joinCode := generateJoinCode()

	now := time.Now()
	_, err := db.conn.Exec(`
		INSERT INTO games (id, name, join_code, is_public, status, host_player_id, max_players, target_vp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, joinCode, isPublic, GameStatusWaiting, hostPlayerID, maxPlayers, targetVP, now)
	if err != nil {
		return nil, err
	}

	return &Game{
		GameInfo: GameInfo{
			ID:           id,
			Name:         name,
			JoinCode:     joinCode,
			IsPublic:     isPublic,
			Status:       GameStatusWaiting,
			HostPlayerID: hostPlayerID,
			MaxPlayers:   maxPlayers,
			TargetVP:     targetVP,
			CreatedAt:    now,
		},
	}, nil
}

// GetGame retrieves a game by ID.
func (db *DB) GetGame(id string) (*Game, error) {
	var g Game
	var joinCode, winnerID sql.NullString
	var startedAt, endedAt sql.NullTime

	err := db.conn.QueryRow(`
		SELECT id, name, join_code, is_public, status, host_player_id,
		       max_players, target_vp, winner_id, created_at, started_at, ended_at
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.Name, &joinCode, &g.IsPublic, &g.Status, &g.HostPlayerID,
		&g.MaxPlayers, &g.TargetVP, &winnerID, &g.CreatedAt, &startedAt, &endedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	if joinCode.Valid {
		g.JoinCode = joinCode.String
	}
	if winnerID.Valid {
		g.WinnerID = winnerID.String
	}
	if startedAt.Valid {
		g.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		g.EndedAt = &endedAt.Time
	}

	// Get player count
	db.conn.QueryRow(`SELECT COUNT(*) FROM game_players WHERE game_id = ?`, id).Scan(&g.PlayerCount)

	return &g, nil
}

// GetGameByJoinCode retrieves a game by its join code.
func (db *DB) GetGameByJoinCode(code string) (*Game, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM games WHERE join_code = ?`, strings.ToUpper(code)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJoinCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return db.GetGame(id)
}

// ListPublicGames returns all public games that are waiting for players.
func (db *DB) ListPublicGames() ([]*GameInfo, error) {
	rows, err := db.conn.Query(`
		SELECT g.id, g.name, g.join_code, g.is_public, g.status,
		       g.host_player_id, p.name, g.max_players, g.target_vp, g.created_at,
		       (SELECT COUNT(*) FROM game_players WHERE game_id = g.id) as player_count
		FROM games g
		JOIN players p ON p.id = g.host_player_id
		WHERE g.is_public = TRUE AND g.status = ?
		ORDER BY g.created_at DESC
	`, GameStatusWaiting)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*GameInfo
	for rows.Next() {
		var g GameInfo
		var joinCode sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &joinCode, &g.IsPublic, &g.Status,
			&g.HostPlayerID, &g.HostName, &g.MaxPlayers, &g.TargetVP, &g.CreatedAt, &g.PlayerCount); err != nil {
			return nil, err
		}
		if joinCode.Valid {
			g.JoinCode = joinCode.String
		}

		games = append(games, &g)
	}
	return games, rows.Err()
}

// JoinGame adds a player to a game.
func (db *DB) JoinGame(gameID, playerID string) error {
	// Get game to check status and capacity
	game, err := db.GetGame(gameID)
	if err != nil {
		return err
	}

	if game.Status != GameStatusWaiting {
		return errors.New("game already started")
	}

	// Check if player already in game
	var exists int
	db.conn.QueryRow(`SELECT COUNT(*) FROM game_players WHERE game_id = ? AND player_id = ?`,
		gameID, playerID).Scan(&exists)
	if exists > 0 {
		return ErrAlreadyInGame
	}

	// Check capacity
	if game.PlayerCount >= game.MaxPlayers {
		return ErrGameFull
	}

	// Get next seat
	var maxSeat sql.NullInt64
	db.conn.QueryRow(`SELECT MAX(seat) FROM game_players WHERE game_id = ?`, gameID).Scan(&maxSeat)
	seat := 0
	if maxSeat.Valid {
		seat = int(maxSeat.Int64) + 1
	}

	_, err = db.conn.Exec(`
		INSERT INTO game_players (game_id, player_id, seat, joined_at)
		VALUES (?, ?, ?, ?)
	`, gameID, playerID, seat, time.Now())
	return err
}

// LeaveGame removes a player from a game.
func (db *DB) LeaveGame(gameID, playerID string) error {
	result, err := db.conn.Exec(`
		DELETE FROM game_players WHERE game_id = ? AND player_id = ?
	`, gameID, playerID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.New("player not in game")
	}
	return nil
}

// GetGamePlayers returns all players in a game in seating order.
func (db *DB) GetGamePlayers(gameID string) ([]*GamePlayer, error) {
	rows, err := db.conn.Query(`
		SELECT gp.game_id, gp.player_id, p.name, gp.seat, gp.joined_at
		FROM game_players gp
		JOIN players p ON gp.player_id = p.id
		WHERE gp.game_id = ?
		ORDER BY gp.seat
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*GamePlayer
	for rows.Next() {
		var gp GamePlayer
		if err := rows.Scan(&gp.GameID, &gp.PlayerID, &gp.PlayerName, &gp.Seat, &gp.JoinedAt); err != nil {
			return nil, err
		}
		players = append(players, &gp)
	}
	return players, rows.Err()
}

// StartGame marks a game as started.
func (db *DB) StartGame(gameID string) error {
	now := time.Now()
	_, err := db.conn.Exec(`
		UPDATE games SET status = ?, started_at = ? WHERE id = ?
	`, GameStatusStarted, now, gameID)
	return err
}

// FinishGame marks a game as finished and records the winner.
func (db *DB) FinishGame(gameID, winnerID string) error {
	now := time.Now()
	_, err := db.conn.Exec(`
		UPDATE games SET status = ?, winner_id = ?, ended_at = ? WHERE id = ?
	`, GameStatusFinished, winnerID, now, gameID)
	return err
}

// DeleteGame permanently deletes a game and all associated data.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Delete in order of dependencies
	if _, err := tx.Exec(`DELETE FROM game_history WHERE game_id = ?`, gameID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM game_players WHERE game_id = ?`, gameID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM games WHERE id = ?`, gameID); err != nil {
		return err
	}

	return tx.Commit()
}

// PurgeUnfinished deletes every game that never finished. Live state is
// held in memory only, so games from a previous process cannot resume.
func (db *DB) PurgeUnfinished() (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM game_history WHERE game_id IN (SELECT id FROM games WHERE status != ?)
	`, GameStatusFinished); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`
		DELETE FROM game_players WHERE game_id IN (SELECT id FROM games WHERE status != ?)
	`, GameStatusFinished); err != nil {
		return 0, err
	}
	res, err := tx.Exec(`DELETE FROM games WHERE status != ?`, GameStatusFinished)
	if err != nil {
		return 0, err
	}

	n, _ := res.RowsAffected()
	return int(n), tx.Commit()
}

// GetPlayerGames retrieves the unfinished games a player is part of.
func (db *DB) GetPlayerGames(playerID string) ([]*GameInfo, error) {
	rows, err := db.conn.Query(`
		SELECT g.id, g.name, g.join_code, g.is_public, g.status,
		       g.host_player_id, g.max_players, g.target_vp, g.created_at,
		       (SELECT COUNT(*) FROM game_players WHERE game_id = g.id) as player_count
		FROM games g
		JOIN game_players gp ON gp.game_id = g.id
		WHERE gp.player_id = ? AND g.status != ?
		ORDER BY g.created_at DESC
	`, playerID, GameStatusFinished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*GameInfo
	for rows.Next() {
		var g GameInfo
		var joinCode sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &joinCode, &g.IsPublic, &g.Status,
			&g.HostPlayerID, &g.MaxPlayers, &g.TargetVP, &g.CreatedAt, &g.PlayerCount); err != nil {
			return nil, err
		}
		if joinCode.Valid {
			g.JoinCode = joinCode.String
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

// generateJoinCode creates a human-readable join code.
func generateJoinCode() string {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Removed ambiguous chars (0,O,1,I)
	bytes := make([]byte, 8)
	rand.Read(bytes)

	code := make([]byte, 8)
	for i := range code {
		code[i] = chars[bytes[i]%byte(len(chars))]
	}
	// Format as XXXX-XXXX
	return string(code[:4]) + "-" + string(code[4:])
}
