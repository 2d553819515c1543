// Package storage provides SQLite-based persistence for bowling games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Every accepted roll is appended to a roll log, so any game, finished or not,
// can be rebuilt with bowling.Replay.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-bowling/internal/bowling"
	"github.com/vovakirdan/tui-bowling/internal/config"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
)

// ErrGameNotFound is returned when a game ID has no record.
var ErrGameNotFound = errors.New("storage: game not found")

// Store manages the SQLite database connection for game persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single player's final score in a finished game.
type ScoreEntry struct {
	GameID     string
	PlayerName string
	Score      int
	FinishedAt time.Time
}

// GameSummary describes one recorded game.
type GameSummary struct {
	GameID     string
	Players    []string
	Rolls      int
	CreatedAt  time.Time
	FinishedAt time.Time // Zero while the game is in progress
}

// PlayerStats contains aggregated statistics for a player name. Games counts
// distinct games; a name seated twice in one game adds both seats to the
// high score, average and strikes.
type PlayerStats struct {
	Name       string
	Games      int
	HighScore  int
	AvgScore   float64
	Strikes    int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer; the lanes may write from many sessions
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS game_players (
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			total INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, player_id)
		);
		CREATE INDEX IF NOT EXISTS idx_game_players_name ON game_players(name);

		CREATE TABLE IF NOT EXISTS rolls (
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			frame INTEGER NOT NULL,
			pins INTEGER NOT NULL,
			PRIMARY KEY (game_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame records a new game and its players in registration order.
func (s *Store) SaveGame(gameID string, players []bowling.PlayerCard) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("INSERT INTO games (id) VALUES (?)", gameID); err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	for i, p := range players {
		if _, err := tx.Exec(
			"INSERT INTO game_players (game_id, player_id, name, position) VALUES (?, ?, ?, ?)",
			gameID, string(p.ID), p.Name, i,
		); err != nil {
			return fmt.Errorf("storage: cannot save player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit game: %w", err)
	}
	return nil
}

// SaveRoll appends one accepted roll to the game's roll log.
// seq is the 0-based position of the roll in the game history.
func (s *Store) SaveRoll(gameID string, seq int, roll bowling.Roll) error {
	_, err := s.db.Exec(
		"INSERT INTO rolls (game_id, seq, player_id, frame, pins) VALUES (?, ?, ?, ?, ?)",
		gameID, seq, string(roll.Player), roll.Frame, roll.Pins,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save roll: %w", err)
	}
	return nil
}

// FinishGame stores the final totals and marks the game finished.
func (s *Store) FinishGame(gameID string, board bowling.Scoreboard) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec("UPDATE games SET finished_at = CURRENT_TIMESTAMP WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot finish game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	for _, p := range board.Players {
		if _, err := tx.Exec(
			"UPDATE game_players SET total = ? WHERE game_id = ? AND player_id = ?",
			p.Total, gameID, string(p.ID),
		); err != nil {
			return fmt.Errorf("storage: cannot save total for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit totals: %w", err)
	}
	return nil
}

// Rolls returns the game's roll log in order.
func (s *Store) Rolls(gameID string) ([]bowling.Roll, error) {
	rows, err := s.db.Query(
		"SELECT player_id, frame, pins FROM rolls WHERE game_id = ? ORDER BY seq",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rolls: %w", err)
	}
	defer rows.Close()

	var rolls []bowling.Roll
	for rows.Next() {
		var r bowling.Roll
		var player string
		if err := rows.Scan(&player, &r.Frame, &r.Pins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Player = bowling.PlayerID(player)
		rolls = append(rolls, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return rolls, nil
}

// PlayerNames returns the game's player names in registration order.
func (s *Store) PlayerNames(gameID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT name FROM game_players WHERE game_id = ? ORDER BY position",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return names, nil
}

// LoadGame rebuilds a recorded game by replaying its roll log.
func (s *Store) LoadGame(gameID string) (*bowling.Game, error) {
	names, err := s.PlayerNames(gameID)
	if err != nil {
		return nil, err
	}
	rolls, err := s.Rolls(gameID)
	if err != nil {
		return nil, err
	}
	g, err := bowling.Replay(names, rolls)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot replay game %s: %w", gameID, err)
	}
	return g, nil
}

// TruncateRolls drops every roll at or after seq. Used to persist an undo.
func (s *Store) TruncateRolls(gameID string, seq int) error {
	if _, err := s.db.Exec("DELETE FROM rolls WHERE game_id = ? AND seq >= ?", gameID, seq); err != nil {
		return fmt.Errorf("storage: cannot truncate rolls: %w", err)
	}
	return nil
}

// TopScores retrieves the top N final scores across finished games.
// Results are ordered by score descending.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT p.game_id, p.name, p.total, g.finished_at
		 FROM game_players p
		 JOIN games g ON g.id = p.game_id
		 WHERE g.finished_at IS NOT NULL
		 ORDER BY p.total DESC, g.finished_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var finishedAt any
		if err := rows.Scan(&e.GameID, &e.PlayerName, &e.Score, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.FinishedAt = parseTime(finishedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest final score across finished games.
// Returns 0 if no games have finished.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(p.total) FROM game_players p
		 JOIN games g ON g.id = p.game_id
		 WHERE g.finished_at IS NOT NULL`,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// PlayerStats aggregates finished games for the given player name.
func (s *Store) PlayerStats(name string) (*PlayerStats, error) {
	stats := &PlayerStats{Name: name}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT p.game_id), COALESCE(MAX(p.total), 0), COALESCE(AVG(p.total), 0), MAX(g.finished_at)
		 FROM game_players p
		 JOIN games g ON g.id = p.game_id
		 WHERE p.name = ? AND g.finished_at IS NOT NULL`,
		name,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	strikes, err := s.countStrikes(name)
	if err != nil {
		return nil, err
	}
	stats.Strikes = strikes

	return stats, nil
}

// countStrikes walks the player's finished roll logs frame by frame. Seats
// sharing the name in one game are walked separately.
func (s *Store) countStrikes(name string) (int, error) {
	rows, err := s.db.Query(
		`SELECT r.game_id, r.player_id, r.frame, r.pins
		 FROM rolls r
		 JOIN game_players p ON p.game_id = r.game_id AND p.player_id = r.player_id
		 JOIN games g ON g.id = r.game_id
		 WHERE p.name = ? AND g.finished_at IS NOT NULL
		 ORDER BY r.game_id, r.player_id, r.seq`,
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query rolls: %w", err)
	}
	defer rows.Close()

	strikes := 0
	var current bowling.Frame
	var currentGame, currentPlayer string
	for rows.Next() {
		var gameID, playerID string
		var frame, pins int
		if err := rows.Scan(&gameID, &playerID, &frame, &pins); err != nil {
			return 0, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if gameID != currentGame || playerID != currentPlayer || frame != current.Index {
			strikes += current.Strikes()
			current = bowling.Frame{Index: frame}
			currentGame, currentPlayer = gameID, playerID
		}
		current.Rolls = append(current.Rolls, pins)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return strikes + current.Strikes(), nil
}

// RecentGames lists the most recently created games.
func (s *Store) RecentGames(limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT g.id, g.created_at, g.finished_at,
		        (SELECT COUNT(*) FROM rolls r WHERE r.game_id = g.id)
		 FROM games g
		 ORDER BY g.created_at DESC, g.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		var createdAt, finishedAt any
		if err := rows.Scan(&g.GameID, &createdAt, &finishedAt, &g.Rolls); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		g.FinishedAt = parseTime(finishedAt)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	// Single connection: player names are loaded once the games cursor is closed
	for i := range games {
		names, err := s.PlayerNames(games[i].GameID)
		if err != nil {
			return nil, err
		}
		games[i].Players = names
	}
	return games, nil
}

// parseTime handles SQLite datetimes scanned as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// GameCreated implements lanes.Recorder.
func (s *Store) GameCreated(gameID string, board bowling.Scoreboard) error {
	return s.SaveGame(gameID, board.Players)
}

// RollRecorded implements lanes.Recorder.
func (s *Store) RollRecorded(gameID string, seq int, roll bowling.Roll) error {
	return s.SaveRoll(gameID, seq, roll)
}

// RollUndone implements lanes.Recorder.
func (s *Store) RollUndone(gameID string, seq int) error {
	return s.TruncateRolls(gameID, seq)
}

// GameFinished implements lanes.Recorder.
func (s *Store) GameFinished(gameID string, board bowling.Scoreboard) error {
	return s.FinishGame(gameID, board)
}

// Ensure Store implements Recorder
var _ lanes.Recorder = (*Store)(nil)
