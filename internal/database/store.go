// Package database provides the storage layer for Tempo.
//
// It implements the Store interface using SQLite with WAL mode. Decks
// (ordered step lists in their source language) are imported once and
// read by the player; the preferences table keeps the chosen display
// language across runs. The DBService struct is the primary entry point
// for all database operations.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when a deck or preference does not exist.
var ErrNotFound = errors.New("not found")

// PrefLanguage is the preference key holding the display language.
const PrefLanguage = "language"

// Store defines the interface for deck and preference persistence.
// This abstraction allows for mocking in tests.
type Store interface {
	// UpsertDeck replaces a deck and all of its steps.
	UpsertDeck(deck *Deck) error
	// GetDeck returns a deck with its steps in order.
	GetDeck(deckID string) (*Deck, error)
	// ListDecks returns deck summaries ordered by name.
	ListDecks() ([]*DeckSummary, error)
	// DeleteDeck removes a deck and its steps.
	DeleteDeck(deckID string) error

	// SetPreference stores a single preference value.
	SetPreference(key, value string) error
	// GetPreference returns a preference value or ErrNotFound.
	GetPreference(key string) (string, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// Deck is an ordered, fixed-size list of steps in its source language.
type Deck struct {
	DeckID     string        `json:"deck_id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	SourceLang string        `json:"source_lang" yaml:"lang"`
	Interval   time.Duration `json:"interval,omitempty" yaml:"interval"`
	Steps      []DeckStep    `json:"steps" yaml:"steps"`
	UpdatedAt  int64         `json:"updated_at" yaml:"-"` // Unix nanoseconds
}

// DeckStep is one step of a deck. Key is stable across languages and
// is used to look up translations.
type DeckStep struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// DeckSummary is a deck without its steps.
type DeckSummary struct {
	DeckID     string        `json:"deck_id"`
	Name       string        `json:"name"`
	SourceLang string        `json:"source_lang"`
	Interval   time.Duration `json:"interval,omitempty"`
	StepCount  int           `json:"step_count"`
	UpdatedAt  int64         `json:"updated_at"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
// It ensures thread-safe access through a read-write mutex.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtInsertStep *sql.Stmt
	stmtSetPref    *sql.Stmt
}

// NewDBService creates a new database service, initializes the schema,
// and prepares frequently-used statements.
//
// Use ":memory:" for in-memory databases (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

// initSchema executes the embedded schema.sql.
func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtInsertStep, err = s.db.Prepare(`
		INSERT INTO deck_steps (deck_id, position, step_key, title, body)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertStep: %w", err)
	}

	s.stmtSetPref, err = s.db.Prepare(`
		INSERT INTO preferences (pref_key, pref_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(pref_key) DO UPDATE SET
			pref_value = excluded.pref_value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing SetPreference: %w", err)
	}

	return nil
}

// UpsertDeck writes the deck row and replaces its steps within a single
// transaction, so readers never observe a partially imported deck.
func (s *DBService) UpsertDeck(deck *Deck) error {
	if deck.DeckID == "" {
		return fmt.Errorf("upserting deck: empty deck id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning deck transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	now := time.Now().UnixNano()
	lang := deck.SourceLang
	if lang == "" {
		lang = "en"
	}

	_, err = tx.Exec(`
		INSERT INTO decks (deck_id, name, source_lang, interval_ms, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(deck_id) DO UPDATE SET
			name = excluded.name,
			source_lang = excluded.source_lang,
			interval_ms = excluded.interval_ms,
			updated_at = excluded.updated_at
	`, deck.DeckID, deck.Name, lang, deck.Interval.Milliseconds(), now)
	if err != nil {
		return fmt.Errorf("upserting deck %s: %w", deck.DeckID, err)
	}

	if _, err := tx.Exec(`DELETE FROM deck_steps WHERE deck_id = ?`, deck.DeckID); err != nil {
		return fmt.Errorf("clearing steps of deck %s: %w", deck.DeckID, err)
	}

	stmt := tx.Stmt(s.stmtInsertStep)
	for i, step := range deck.Steps {
		if _, err := stmt.Exec(deck.DeckID, i, step.Key, step.Title, step.Body); err != nil {
			return fmt.Errorf("inserting step %q of deck %s: %w", step.Key, deck.DeckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deck %s: %w", deck.DeckID, err)
	}

	deck.SourceLang = lang
	deck.UpdatedAt = now
	return nil
}

// GetDeck returns the deck with its steps ordered by position.
func (s *DBService) GetDeck(deckID string) (*Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &Deck{}
	var intervalMs int64
	err := s.db.QueryRow(`
		SELECT deck_id, name, source_lang, interval_ms, updated_at
		FROM decks WHERE deck_id = ?
	`, deckID).Scan(&d.DeckID, &d.Name, &d.SourceLang, &intervalMs, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %s: %w", deckID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying deck %s: %w", deckID, err)
	}
	d.Interval = time.Duration(intervalMs) * time.Millisecond

	rows, err := s.db.Query(`
		SELECT step_key, title, body
		FROM deck_steps
		WHERE deck_id = ?
		ORDER BY position ASC
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("querying steps of deck %s: %w", deckID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var st DeckStep
		if err := rows.Scan(&st.Key, &st.Title, &st.Body); err != nil {
			return nil, fmt.Errorf("scanning step row: %w", err)
		}
		d.Steps = append(d.Steps, st)
	}
	return d, rows.Err()
}

// ListDecks returns every stored deck with its step count.
func (s *DBService) ListDecks() ([]*DeckSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT d.deck_id, d.name, d.source_lang, d.interval_ms, d.updated_at,
			(SELECT COUNT(*) FROM deck_steps st WHERE st.deck_id = d.deck_id)
		FROM decks d
		ORDER BY d.name ASC, d.deck_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	var decks []*DeckSummary
	for rows.Next() {
		ds := &DeckSummary{}
		var intervalMs int64
		if err := rows.Scan(&ds.DeckID, &ds.Name, &ds.SourceLang, &intervalMs, &ds.UpdatedAt, &ds.StepCount); err != nil {
			return nil, fmt.Errorf("scanning deck row: %w", err)
		}
		ds.Interval = time.Duration(intervalMs) * time.Millisecond
		decks = append(decks, ds)
	}
	return decks, rows.Err()
}

// DeleteDeck removes a deck; its steps go with it via ON DELETE CASCADE.
func (s *DBService) DeleteDeck(deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM decks WHERE deck_id = ?`, deckID)
	if err != nil {
		return fmt.Errorf("deleting deck %s: %w", deckID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deck %s: %w", deckID, ErrNotFound)
	}
	return nil
}

// SetPreference stores or replaces a preference value.
func (s *DBService) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmtSetPref.Exec(key, value, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("setting preference %s: %w", key, err)
	}
	return nil
}

// GetPreference returns the stored value for key.
func (s *DBService) GetPreference(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT pref_value FROM preferences WHERE pref_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("preference %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("querying preference %s: %w", key, err)
	}
	return value, nil
}

// Close closes the prepared statements and the underlying connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtInsertStep, s.stmtSetPref} {
		if stmt != nil {
			stmt.Close()
		}
	}

	return s.db.Close()
}
