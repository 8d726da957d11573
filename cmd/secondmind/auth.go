package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"secondmind/internal/auth"
	"secondmind/internal/config"
	"secondmind/internal/note"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := strings.TrimSpace(args[0])
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			password, err := promptPassword("Choose a password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			if err := auth.Register(cfg.AuthFile, user, password); err != nil {
				return err
			}
			if err := auth.SaveSession(cfg.SessionFile, user); err != nil {
				return err
			}
			fmt.Printf("User %q registered successfully!\n", user)
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in as a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := strings.TrimSpace(args[0])
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			if err := auth.Login(cfg.AuthFile, user, password); err != nil {
				return errors.New("login failed, try again")
			}
			if err := auth.SaveSession(cfg.SessionFile, user); err != nil {
				return err
			}
			fmt.Printf("%q logged in successfully!\n", user)

			showReminders(cfg, user)
			return nil
		},
	}
}

// showReminders prints the overdue / due-today summary after login.
// Failures here never block a successful login.
func showReminders(cfg config.Config, user string) {
	s, err := getStore(cfg)
	if err != nil {
		return
	}
	defer s.Close()

	recs, err := s.All(user)
	if err != nil {
		return
	}
	overdue, dueToday := note.Summarize(recs, time.Now())
	if overdue == 0 && dueToday == 0 {
		fmt.Println("No due tasks today. All clear!")
		return
	}
	fmt.Printf("Reminders: %d overdue | %d due today\n", overdue, dueToday)
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := auth.ClearSession(cfg.SessionFile); err != nil {
				return err
			}
			fmt.Println("Goodbye!")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, err := auth.CurrentUser(cfg.SessionFile)
			if err != nil {
				return err
			}
			fmt.Println(user)
			return nil
		},
	}
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}
