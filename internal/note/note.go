package note

import "strings"

// dueMarker introduces an inline due date in free text: "[due:2025-07-25]".
const dueMarker = "[due:"

// Note is the structured form of a single note. Due is the raw marker
// value as written; it is only validated as a calendar date at
// classification time, never by the parser.
type Note struct {
	Body string   `json:"note"`
	Tags []string `json:"tags"`
	Due  string   `json:"due_date,omitempty"`
}

// Parse splits raw free text into body, tags and due date.
//
// The due date is everything after the last "[due:" marker, with one
// trailing "]" stripped and surrounding whitespace trimmed. The remainder
// is tokenized on whitespace; tokens starting with '#' become tags in
// order of appearance (duplicates kept), the rest are rejoined with
// single spaces to form the body. Parse accepts any input, including the
// empty string.
func Parse(raw string) Note {
	head := raw
	var due string

	if i := strings.LastIndex(raw, dueMarker); i >= 0 {
		head = raw[:i]
		tail := raw[i+len(dueMarker):]
		tail = strings.TrimSuffix(tail, "]")
		due = strings.TrimSpace(tail)
	}

	var tags []string
	var words []string
	for _, tok := range strings.Fields(head) {
		if strings.HasPrefix(tok, "#") {
			tags = append(tags, tok)
		} else {
			words = append(words, tok)
		}
	}

	return Note{
		Body: strings.Join(words, " "),
		Tags: tags,
		Due:  due,
	}
}

// Compose rebuilds the free-text line form of a note: body, space-joined
// tags, then the due marker. Feeding the result back through Parse yields
// the same note as long as the body contains no '#'-prefixed words.
func Compose(n Note) string {
	parts := []string{n.Body}
	if len(n.Tags) > 0 {
		parts = append(parts, strings.Join(n.Tags, " "))
	}
	if n.Due != "" {
		parts = append(parts, dueMarker+n.Due+"]")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Flatten renders the persisted-field form of a note: body, comma-joined
// tags, then the due marker. This matches the joined tag column written
// by the store and read back by the JSON exporter.
func Flatten(n Note) string {
	parts := []string{n.Body}
	if len(n.Tags) > 0 {
		parts = append(parts, JoinTags(n.Tags))
	}
	if n.Due != "" {
		parts = append(parts, dueMarker+n.Due+"]")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// JoinTags flattens tags into the comma-joined column form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags is the inverse of JoinTags. An empty string yields no tags.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
