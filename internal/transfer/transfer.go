package transfer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"secondmind/internal/note"
	"secondmind/internal/store"
)

// ImportText reads legacy plain-text notes, one per line, and inserts
// them for user. Blank lines are skipped; each line is parsed and
// inserted independently, so lines imported before a failure stay
// imported. Returns the number of lines processed.
func ImportText(s *store.Store, user string, r io.Reader) (int, error) {
	imported := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := s.Insert(user, note.Parse(line)); err != nil {
			return imported, fmt.Errorf("import line %q: %w", line, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("read import file: %w", err)
	}
	return imported, nil
}

// entry is the JSON interchange shape: tags carry their '#' prefix as
// captured from the source text, due_date is null when absent.
type entry struct {
	Note string   `json:"note"`
	Tags []string `json:"tags"`
	Due  *string  `json:"due_date"`
}

// ImportJSON reads an exported JSON array and inserts its notes for
// user. Invalid JSON aborts the import before any insert. Entries with
// an empty note are skipped. Returns the number of notes inserted or
// skipped as duplicates.
func ImportJSON(s *store.Store, user string, r io.Reader) (int, error) {
	var entries []entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("invalid JSON format: %w", err)
	}

	imported := 0
	for _, e := range entries {
		if e.Note == "" {
			continue
		}
		n := note.Note{Body: e.Note, Tags: e.Tags}
		if e.Due != nil {
			n.Due = *e.Due
		}
		if _, err := s.Insert(user, n); err != nil {
			return imported, fmt.Errorf("import note %q: %w", e.Note, err)
		}
		imported++
	}
	return imported, nil
}

// ExportJSON writes all of user's notes as an indented JSON array in the
// interchange shape, splitting the persisted comma-joined tag string
// back into a list.
func ExportJSON(s *store.Store, user string, w io.Writer) (int, error) {
	recs, err := s.All(user)
	if err != nil {
		return 0, err
	}

	entries := make([]entry, 0, len(recs))
	for _, rec := range recs {
		e := entry{Note: rec.Body, Tags: rec.Tags}
		if e.Tags == nil {
			e.Tags = []string{}
		}
		if rec.Due != "" {
			due := rec.Due
			e.Due = &due
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(entries), nil
}
