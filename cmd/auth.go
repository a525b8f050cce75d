package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in against the vault service and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := strings.TrimSpace(cmd.String("username"))
	password := cmd.String("password")

	if username == "" {
		return fmt.Errorf("%w: --username is required", shared.ErrMissingArgument)
	}
	if password == "" {
		var err error
		if password, err = promptSecret("Password: "); err != nil {
			return err
		}
	}

	r.logger.Info("signing in", "username", username)

	if err := r.session.Login(ctx, username, password); err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", username)
}

// AuthRegister creates an account and signs in with the new credentials.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := strings.TrimSpace(cmd.String("username"))
	email := strings.TrimSpace(cmd.String("email"))
	password := cmd.String("password")

	if username == "" || email == "" {
		return fmt.Errorf("%w: --username and --email are required", shared.ErrMissingArgument)
	}
	if password == "" {
		var err error
		if password, err = promptSecret("Password: "); err != nil {
			return err
		}
	}

	r.logger.Info("registering account", "username", username)

	if err := r.session.Register(ctx, username, email, password); err != nil {
		return err
	}

	return r.writePlain("✓ Account created, signed in as %s\n", username)
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the current session state and token claims.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	state := r.session.State()
	r.writePlain("Session: %s\n", state)

	identity, ok := r.session.Identity()
	if !ok {
		return nil
	}
	r.writePlain("Username: %s\n", identity.Username)

	claims, err := r.session.Claims()
	if err != nil {
		r.logger.Warn("failed to decode token claims", "error", err)
		return nil
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if time.Now().After(exp.Time) {
			r.writePlain("Token: %s\n", "expired "+exp.Format(time.RFC3339))
		} else {
			r.writePlain("Token: valid until %s\n", exp.Format(time.RFC3339))
		}
	}

	return nil
}

// promptSecret reads a line from stdin without flag plumbing.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
