package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the sync backend",
	Long: `Stores a session for background sync.

Tracklight never handles your password. Sign in on the companion site,
copy the refresh token it shows, and paste it here. Without --token the
command prompts for it; the prompt hides the input when run from a
terminal.

Examples:
  tracklight login
  tracklight login --token <refresh-token>`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and return to local-only tracking",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Refresh token from the companion site")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	token := loginToken
	if token == "" {
		var err error
		token, err = promptRefreshToken(cmd)
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("refresh token is required")
	}

	ctx := context.Background()

	session, err := sessionService.Login(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			return errors.New("token was rejected; copy a fresh one from the companion site")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	account := session.Email
	if account == "" {
		account = session.UserID
	}
	cmd.Printf("Signed in as %s\n", account)

	// Pull remote progress right away so the first list after login is
	// current. A failed pull is not a failed login; background sync
	// catches up.
	if progressService != nil {
		if err := progressService.Initialize(ctx, session.UserID); err != nil {
			logger.Warn("Initial sync after login failed: %v", err)
			cmd.Println("Could not sync yet; changes will sync in the background.")
			return nil
		}
		cmd.Println("Progress synced.")
	}

	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Signed out. Progress stays on this device.")
	return nil
}

// promptRefreshToken reads the token from the user, masking the input when
// stdin is a terminal. Tokens grant account access and must not land in
// scrollback.
func promptRefreshToken(cmd *cobra.Command) (string, error) {
	cmd.Print("Refresh token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
