package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"secondmind/internal/note"
)

//go:embed schema.sql
var schema string

// Store handles database operations. Every method takes the owning user
// explicitly; there is no ambient current-user state.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a note for user unless an identical one already exists.
// It returns false when the note was skipped as a duplicate. Two notes
// are duplicates when user, body, joined tag string and due date are all
// equal; a NULL tag string or due date matches only NULL ("IS ?" is
// SQLite's NULL-safe comparison).
func (s *Store) Insert(user string, n note.Note) (bool, error) {
	tags := nullable(note.JoinTags(n.Tags))
	due := nullable(n.Due)

	var exists int
	err := s.db.QueryRow(
		"SELECT 1 FROM notes WHERE user = ? AND body = ? AND tags IS ? AND due_date IS ?",
		user, n.Body, tags, due,
	).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("check duplicate: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO notes (id, user, body, tags, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), user, n.Body, tags, due, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("insert note: %w", err)
	}
	return true, nil
}

// Get retrieves a single note by ID for user.
func (s *Store) Get(user, id string) (*note.Record, error) {
	row := s.db.QueryRow(
		"SELECT id, body, tags, due_date FROM notes WHERE user = ? AND id = ?",
		user, id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return rec, nil
}

// All returns every note belonging to user, oldest first.
func (s *Store) All(user string) ([]note.Record, error) {
	return s.query(
		"SELECT id, body, tags, due_date FROM notes WHERE user = ? ORDER BY rowid",
		user,
	)
}

// SearchKeyword returns user's notes whose body contains keyword,
// case-insensitively.
func (s *Store) SearchKeyword(user, keyword string) ([]note.Record, error) {
	return s.query(
		"SELECT id, body, tags, due_date FROM notes WHERE user = ? AND LOWER(body) LIKE LOWER(?) ORDER BY rowid",
		user, "%"+keyword+"%",
	)
}

// FilterTag returns user's notes whose joined tag string contains fragment.
func (s *Store) FilterTag(user, fragment string) ([]note.Record, error) {
	return s.query(
		"SELECT id, body, tags, due_date FROM notes WHERE user = ? AND tags LIKE ? ORDER BY rowid",
		user, "%"+fragment+"%",
	)
}

// Exists reports whether user owns a note with the given ID.
func (s *Store) Exists(user, id string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM notes WHERE user = ? AND id = ?",
		user, id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check note: %w", err)
	}
	return true, nil
}

// Update replaces body, tags and due date of an existing note.
func (s *Store) Update(user, id string, n note.Note) error {
	res, err := s.db.Exec(
		"UPDATE notes SET body = ?, tags = ?, due_date = ? WHERE user = ? AND id = ?",
		n.Body, nullable(note.JoinTags(n.Tags)), nullable(n.Due), user, id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// Delete removes a note by ID for user.
func (s *Store) Delete(user, id string) error {
	_, err := s.db.Exec("DELETE FROM notes WHERE user = ? AND id = ?", user, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ResolveID expands a unique ID prefix into a full note ID for user.
func (s *Store) ResolveID(user, prefix string) (string, error) {
	rows, err := s.db.Query(
		"SELECT id FROM notes WHERE user = ? AND id LIKE ?",
		user, prefix+"%",
	)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("note not found: %s", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("ambiguous note id: %s matches %d notes", prefix, len(ids))
	}
}

func (s *Store) query(q string, args ...any) ([]note.Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var recs []note.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return recs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*note.Record, error) {
	var rec note.Record
	var tags, due sql.NullString
	if err := row.Scan(&rec.ID, &rec.Body, &tags, &due); err != nil {
		return nil, err
	}
	rec.Tags = note.SplitTags(tags.String)
	rec.Due = due.String
	return &rec, nil
}

// nullable maps the empty string onto NULL so absent tags and due dates
// are stored as NULL, matching the duplicate predicate.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
