package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"secondmind/internal/note"
)

// renderTable prints notes as an aligned table, short IDs first.
func renderTable(recs []note.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOTE\tTAGS\tDUE")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ID[:8],
			truncate(rec.Body, 60),
			orDash(note.JoinTags(rec.Tags)),
			orDash(rec.Due),
		)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
