package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"secondmind/internal/auth"
	"secondmind/internal/config"
	"secondmind/internal/note"
	"secondmind/internal/store"
	"secondmind/internal/transfer"
)

// maxNoteLen bounds a single note body, matching the legacy limit.
const maxNoteLen = 500

var (
	configPath string
	dbPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "secondmind",
		Short: "Personal notes with tags and due dates",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(dueCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("locate config: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func getStore(cfg config.Config) (*store.Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.DBPath)
}

// session opens the store and resolves the logged-in user for a note
// operation. The user is threaded through every call explicitly.
func session() (*store.Store, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	user, err := auth.CurrentUser(cfg.SessionFile)
	if err != nil {
		return nil, "", err
	}
	s, err := getStore(cfg)
	if err != nil {
		return nil, "", err
	}
	return s, user, nil
}

func addCmd() *cobra.Command {
	var tagFlags []string
	var dueFlag string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new note",
		Long: "Add a new note. Inline '#tag' words and a trailing '[due:YYYY-MM-DD]'\n" +
			"marker are recognized; --tag and --due add to or override them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("note can't be empty")
			}
			if len(raw) > maxNoteLen {
				return fmt.Errorf("note too long (max %d characters)", maxNoteLen)
			}

			n := note.Parse(raw)
			for _, t := range tagFlags {
				for _, part := range strings.Split(t, ",") {
					part = strings.TrimSpace(part)
					if part == "" {
						continue
					}
					if !strings.HasPrefix(part, "#") {
						part = "#" + part
					}
					n.Tags = append(n.Tags, part)
				}
			}
			if dueFlag != "" {
				if _, err := time.Parse("2006-01-02", dueFlag); err != nil {
					fmt.Println("Invalid date format. Skipping due date.")
				} else {
					n.Due = dueFlag
				}
			}

			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.Insert(user, n)
			if err != nil {
				return err
			}
			if !added {
				fmt.Println("Note already exists with same content, tags, and due date. Skipping save.")
				return nil
			}
			fmt.Println("Note added successfully.")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tagFlags, "tag", "t", nil, "tags to attach (comma-separated, '#' optional)")
	cmd.Flags().StringVar(&dueFlag, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all saved notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.All(user)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No notes found.")
				return nil
			}
			renderTable(recs)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show note details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ResolveID(user, args[0])
			if err != nil {
				return err
			}
			rec, err := s.Get(user, id)
			if err != nil {
				return err
			}

			fmt.Printf("ID:   %s\n", rec.ID)
			fmt.Printf("Note: %s\n", rec.Body)
			fmt.Printf("Tags: %s\n", orDash(note.JoinTags(rec.Tags)))
			fmt.Printf("Due:  %s\n", orDash(rec.Due))
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	var newBody, newTags, newDue string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a note's text, tags, or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ResolveID(user, args[0])
			if err != nil {
				return err
			}
			rec, err := s.Get(user, id)
			if err != nil {
				return err
			}

			next := rec.Note
			if cmd.Flags().Changed("note") {
				next.Body = newBody
			}
			if cmd.Flags().Changed("tags") {
				var tags []string
				for _, t := range strings.Split(newTags, ",") {
					t = strings.TrimSpace(t)
					if t == "" {
						continue
					}
					if !strings.HasPrefix(t, "#") {
						t = "#" + t
					}
					tags = append(tags, t)
				}
				next.Tags = tags
			}
			if cmd.Flags().Changed("due") {
				next.Due = strings.TrimSpace(newDue)
			}

			if err := s.Update(user, id, next); err != nil {
				return err
			}
			fmt.Println("Note updated successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&newBody, "note", "", "replacement note text")
	cmd.Flags().StringVar(&newTags, "tags", "", "replacement tags (comma-separated)")
	cmd.Flags().StringVar(&newDue, "due", "", "replacement due date (YYYY-MM-DD, empty clears)")
	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ResolveID(user, args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(user, id); err != nil {
				return err
			}
			fmt.Printf("Deleted note %s\n", id[:8])
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search notes by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.SearchKeyword(user, args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Printf("No notes found containing: %s\n", args[0])
				return nil
			}
			renderTable(recs)
			return nil
		},
	}
}

func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [fragment]",
		Short: "Filter notes by tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.FilterTag(user, args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Printf("No notes found with tag: %s\n", args[0])
				return nil
			}
			renderTable(recs)
			return nil
		},
	}
}

func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "due [today|overdue|week]",
		Short:     "Show notes by due date bucket",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"today", "overdue", "week"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := note.ModeToday
			if len(args) == 1 {
				switch args[0] {
				case "today":
					mode = note.ModeToday
				case "overdue":
					mode = note.ModeOverdue
				case "week":
					mode = note.ModeWeek
				default:
					return fmt.Errorf("unknown mode: %s", args[0])
				}
			}

			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.All(user)
			if err != nil {
				return err
			}
			matched := note.Filter(recs, time.Now(), mode)
			if len(matched) == 0 {
				fmt.Printf("No notes found for: %s\n", strings.ToUpper(string(mode)))
				return nil
			}
			renderTable(matched)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import notes from a text or JSON file",
		Long: "Import notes. Plain text files hold one note per line, with inline\n" +
			"'#tag' words and '[due:YYYY-MM-DD]' markers. With --json the file is\n" +
			"a previously exported JSON array.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			var imported int
			if asJSON {
				imported, err = transfer.ImportJSON(s, user, f)
			} else {
				imported, err = transfer.ImportText(s, user, f)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d notes from %s\n", imported, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "treat the file as an exported JSON array")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all notes to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, user, err := session()
			if err != nil {
				return err
			}
			defer s.Close()

			path := fmt.Sprintf("%s_notes_export.json", user)
			if len(args) == 1 {
				path = args[0]
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()

			count, err := transfer.ExportJSON(s, user, f)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d notes to %s\n", count, path)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
