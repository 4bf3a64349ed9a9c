package database

// HistoryEvent is one entry of a finished game's log.
type HistoryEvent struct {
	ID         int64
	GameID     string
	EventType  string
	PlayerID   string
	Message    string
	OccurredAt int64 // unix milliseconds, from the engine's log
}

// SaveHistory writes a finished game's event log in one transaction.
func (db *DB) SaveHistory(gameID string, events []HistoryEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO game_history (game_id, event_type, player_id, message, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(gameID, e.EventType, e.PlayerID, e.Message, e.OccurredAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetGameHistory retrieves all history events for a game, ordered chronologically.
func (db *DB) GetGameHistory(gameID string) ([]*HistoryEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_id, event_type, player_id, message, occurred_at
		FROM game_history
		WHERE game_id = ?
		ORDER BY id ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*HistoryEvent
	for rows.Next() {
		e := &HistoryEvent{}
		if err := rows.Scan(&e.ID, &e.GameID, &e.EventType, &e.PlayerID, &e.Message, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
