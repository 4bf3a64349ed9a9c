package database

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player represents a player account. Password material never leaves
// this package.
type Player struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// ErrPlayerNotFound is returned when a player is not found.
var ErrPlayerNotFound = errors.New("player not found")

// ErrNameTaken is returned when registering an existing name.
var ErrNameTaken = errors.New("name already taken")

// ErrBadCredentials is returned when a login fails.
var ErrBadCredentials = errors.New("wrong name or password")

// CreatePlayer registers a new account.
func (db *DB) CreatePlayer(name, password string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, errors.New("name and password are required")
	}

	var exists int
	db.conn.QueryRow(`SELECT COUNT(*) FROM players WHERE name = ?`, name).Scan(&exists)
	if exists > 0 {
		return nil, ErrNameTaken
	}

	id := uuid.New().String()
	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO players (id, name, password_hash, salt, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, hashPassword(password, salt), salt, now, now)
	if err != nil {
		return nil, err
	}

	return &Player{
		ID:         id,
		Name:       name,
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

// Authenticate checks a name and password and returns the account.
func (db *DB) Authenticate(name, password string) (*Player, error) {
	var p Player
	var hash, salt string
	err := db.conn.QueryRow(`
		SELECT id, name, password_hash, salt, created_at, last_seen_at
		FROM players WHERE name = ?
	`, strings.TrimSpace(name)).Scan(&p.ID, &p.Name, &hash, &salt, &p.CreatedAt, &p.LastSeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	want := hashPassword(password, salt)
	if subtle.ConstantTimeCompare([]byte(want), []byte(hash)) != 1 {
		return nil, ErrBadCredentials
	}

	db.UpdatePlayerLastSeen(p.ID)
	return &p, nil
}

// GetPlayerByID retrieves a player by their ID.
func (db *DB) GetPlayerByID(id string) (*Player, error) {
	var p Player
	err := db.conn.QueryRow(`
		SELECT id, name, created_at, last_seen_at
		FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.LastSeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlayerLastSeen updates the last seen timestamp.
func (db *DB) UpdatePlayerLastSeen(id string) error {
	_, err := db.conn.Exec(`
		UPDATE players SET last_seen_at = ? WHERE id = ?
	`, time.Now(), id)
	return err
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// generateSalt creates a random per-account salt.
func generateSalt() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
