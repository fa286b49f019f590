package cli

import (
	"context"
	"strings"

	"travel-tracker/internal/domain"
)

// SessionCommand handles sign-in, sign-up and sign-out
type SessionCommand struct {
	app *App
}

// NewSessionCommand creates a new session command handler
func NewSessionCommand(app *App) *SessionCommand {
	return &SessionCommand{app: app}
}

// Login signs in a user, prompting for the password when it was not given
func (c *SessionCommand) Login(ctx context.Context, username, password string) error {
	if password == "" {
		var err error
		if password, err = c.app.prompt("Password: "); err != nil {
			return c.app.errorHandler.Handle("read password", err)
		}
	}

	auth, err := c.app.businessAPI.Login(ctx, username, password)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.welcome(auth)
	return nil
}

// LoginAs signs in with a saved account
func (c *SessionCommand) LoginAs(ctx context.Context, email string) error {
	auth, err := c.app.businessAPI.LoginAs(ctx, email)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.welcome(auth)
	return nil
}

// ListAccounts prints the saved accounts
func (c *SessionCommand) ListAccounts() {
	c.app.println("Saved accounts:")
	for _, acct := range c.app.businessAPI.QuickAccounts() {
		c.app.printf("  %-26s %s\n", acct.Email, acct.Name)
	}
	c.app.println("Sign in with: trips login --account <email>")
}

// AdminLogin signs in an admin with password and verification code
func (c *SessionCommand) AdminLogin(ctx context.Context, username, password, code string) error {
	var err error
	if password == "" {
		if password, err = c.app.prompt("Password: "); err != nil {
			return c.app.errorHandler.Handle("read password", err)
		}
	}
	if code == "" {
		if code, err = c.app.prompt("Verification code: "); err != nil {
			return c.app.errorHandler.Handle("read verification code", err)
		}
	}

	auth, err := c.app.businessAPI.AdminLogin(ctx, username, password, code)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.welcome(auth)
	return nil
}

// SignUp starts a session for a new account
func (c *SessionCommand) SignUp(ctx context.Context, name, email string) error {
	auth, err := c.app.businessAPI.SignUp(ctx, name, email)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.welcome(auth)
	return nil
}

func (c *SessionCommand) welcome(auth *domain.AuthContext) {
	c.app.printf("Signed in as %s (%s)\n", auth.Username, auth.Role)
}

// Logout ends the session
func (c *SessionCommand) Logout(ctx context.Context) error {
	if err := c.app.businessAPI.Logout(ctx); err != nil {
		return c.app.errorHandler.Handle("sign out", err)
	}
	c.app.println("Signed out")
	return nil
}

// WhoAmI prints the signed-in account
func (c *SessionCommand) WhoAmI(ctx context.Context) error {
	auth, err := c.app.businessAPI.WhoAmI(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("read session", err)
	}
	if auth == nil {
		c.app.println("Not signed in")
		return nil
	}

	line := auth.Username + " (" + string(auth.Role) + ")"
	if strings.TrimSpace(auth.Email) != "" {
		line += " <" + auth.Email + ">"
	}
	c.app.println(line)
	return nil
}
