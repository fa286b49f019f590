package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

// AdminCommand handles the admin views
type AdminCommand struct {
	app *App
}

// NewAdminCommand creates a new admin command handler
func NewAdminCommand(app *App) *AdminCommand {
	return &AdminCommand{app: app}
}

// Users lists every user with their trip count
func (c *AdminCommand) Users(ctx context.Context) error {
	users, err := c.app.businessAPI.ListUsers(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	if len(users) == 0 {
		c.app.println("No users found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTRIPS")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", u.ID, u.Name, u.Email, len(u.Trips))
	}
	return w.Flush()
}

// User shows one user and their trips
func (c *AdminCommand) User(ctx context.Context, id string) error {
	user, err := c.app.businessAPI.GetUser(ctx, id)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	c.app.printf("%s <%s>\n", user.Name, user.Email)
	if len(user.Trips) == 0 {
		c.app.println("No trips recorded")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tFROM\tTO\tDISTANCE\tMODE\tPURPOSE")
	for _, t := range user.Trips {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date, t.Time, t.Origin, t.Destination, t.Distance, t.Mode, t.Purpose)
	}
	return w.Flush()
}

// Download exports one user's trips
func (c *AdminCommand) Download(ctx context.Context, id, format, out string) error {
	result, err := c.app.businessAPI.DownloadUser(ctx, id, format, out)
	if err != nil {
		if c.app.errorHandler.IsSessionError(err) || c.app.errorHandler.IsNotFoundError(err) {
			return c.app.errorHandler.HandleSimple(err)
		}
		return c.app.errorHandler.Handle("download user trips", err)
	}
	printExport(c.app, result)
	return nil
}

// Analytics prints the featured destinations
func (c *AdminCommand) Analytics(ctx context.Context) error {
	destinations, err := c.app.businessAPI.GetAnalytics(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	for i, d := range destinations {
		if i > 0 {
			c.app.println()
		}
		c.app.printf("%s (%s)\n", d.Name, d.Location)
		c.app.printf("  %s\n", d.Description)
		c.app.printf("  %s\n", d.MapLink())
	}
	return nil
}

// Health prints the transport system report
func (c *AdminCommand) Health(ctx context.Context) error {
	issues, err := c.app.businessAPI.GetSystemHealth(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	for i, issue := range issues {
		if i > 0 {
			c.app.println()
		}
		c.app.printf("%s [%s]\n", issue.Area, strings.ToUpper(string(issue.Status)))
		c.app.println("  Problems:")
		for _, p := range issue.Problems {
			c.app.printf("    - %s\n", p)
		}
		c.app.println("  Recommendations:")
		for _, r := range issue.Recommendations {
			c.app.printf("    - %s\n", r)
		}
	}
	return nil
}
