package cli

import (
	"context"
	"io"
	"strings"
	"sync"

	"travel-tracker/internal/api"
	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/services"
)

const dashboardHelp = `Commands:
  start     start tracking a trip
  stop      end the trip in progress
  confirm   save the ended trip
  status    show the trip state
  add       fill in and submit the manual trip form
  clear     clear the manual trip form
  history   show your trips
  quit      leave the dashboard`

// DashboardCommand runs the interactive trip dashboard. The live trip state
// lives only as long as the dashboard.
type DashboardCommand struct {
	app  *App
	form domain.ManualTripInput

	mu      sync.Mutex
	elapsed string
}

// NewDashboardCommand creates a new dashboard command handler
func NewDashboardCommand(app *App) *DashboardCommand {
	return &DashboardCommand{app: app}
}

// Execute reads commands until quit or end of input
func (c *DashboardCommand) Execute(ctx context.Context) error {
	auth, err := c.app.businessAPI.WhoAmI(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("read session", err)
	}
	if auth == nil {
		return c.app.errorHandler.HandleSimple(errors.NewAuthenticationError(services.NotSignedInMessage))
	}

	timer := c.app.businessAPI.NewElapsedTimer(c.setElapsed)
	timer.Start(ctx)
	defer timer.Stop()

	c.app.printf("Welcome, %s\n", auth.Username)
	c.app.println(dashboardHelp)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := c.app.prompt(c.promptLabel(ctx))
		if err == io.EOF {
			c.app.println()
			return nil
		}
		if err != nil {
			return c.app.errorHandler.Handle("read command", err)
		}

		quit, err := c.dispatch(ctx, strings.ToLower(strings.TrimSpace(line)))
		if err != nil {
			c.app.printf("Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (c *DashboardCommand) setElapsed(elapsed string) {
	c.mu.Lock()
	c.elapsed = elapsed
	c.mu.Unlock()
}

func (c *DashboardCommand) promptLabel(ctx context.Context) string {
	status, err := c.app.businessAPI.GetTripStatus(ctx)
	if err != nil || status.State != domain.InProgress.String() {
		return "trips> "
	}
	c.mu.Lock()
	elapsed := c.elapsed
	c.mu.Unlock()
	if elapsed == "" {
		elapsed = status.Elapsed
	}
	return "trips [" + elapsed + "]> "
}

func (c *DashboardCommand) dispatch(ctx context.Context, command string) (bool, error) {
	switch command {
	case "":
		return false, nil
	case "start":
		return false, c.start(ctx)
	case "stop":
		return false, c.stop(ctx)
	case "confirm":
		return false, c.confirmTrip(ctx)
	case "status":
		return false, c.status(ctx)
	case "add":
		return false, c.add(ctx)
	case "clear":
		c.form.Clear()
		c.app.println("Form cleared")
		return false, nil
	case "history":
		return false, NewTripCommand(c.app).History(ctx)
	case "help", "?":
		c.app.println(dashboardHelp)
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	}
	c.app.printf("Unknown command %q. Type help for the list.\n", command)
	return false, nil
}

func (c *DashboardCommand) start(ctx context.Context) error {
	status, err := c.app.businessAPI.StartTrip(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.setElapsed("")
	c.app.printf("Trip started at %s from %s\n", status.StartedAt.Format(c.app.config.Display.TimeFormat), status.Origin)
	return nil
}

func (c *DashboardCommand) stop(ctx context.Context) error {
	if _, err := c.app.businessAPI.RequestStop(ctx); err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	end, err := c.app.confirm("End this trip?")
	if err != nil && err != io.EOF {
		return c.app.errorHandler.Handle("read answer", err)
	}
	if !end {
		if _, err := c.app.businessAPI.CancelStop(ctx); err != nil {
			return c.app.errorHandler.HandleSimple(err)
		}
		c.app.println("Trip continues")
		return nil
	}

	status, err := c.app.businessAPI.ConfirmStop(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.app.printf("Trip %s ended: %s to %s, %s in %s\n", status.Number, status.Origin, status.Destination, status.Distance, status.Elapsed)
	c.app.println("Type confirm to save it")
	return nil
}

func (c *DashboardCommand) confirmTrip(ctx context.Context) error {
	rec, err := c.app.businessAPI.ConfirmTrip(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.app.printf("Trip %s saved\n", rec.TripNumber)
	return nil
}

func (c *DashboardCommand) status(ctx context.Context) error {
	status, err := c.app.businessAPI.GetTripStatus(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	printStatus(c.app, status)
	return nil
}

func printStatus(app *App, status *api.TripStatus) {
	app.printf("State:    %s\n", status.State)
	if status.StartedAt == nil {
		return
	}
	if status.Number != "" {
		app.printf("Trip:     %s\n", status.Number)
	}
	app.printf("From:     %s\n", status.Origin)
	if status.Destination != "" {
		app.printf("To:       %s\n", status.Destination)
		app.printf("Distance: %s\n", status.Distance)
	}
	app.printf("Mode:     %s\n", status.Mode)
	app.printf("Elapsed:  %s\n", status.Elapsed)
	if status.StopPending {
		app.println("Waiting for you to confirm the stop")
	}
	if status.NeedsConfirmation {
		app.println("Waiting to be saved")
	}
}

// add walks through the form. Blank answers keep the current value so a
// rejected form can be corrected without retyping it.
func (c *DashboardCommand) add(ctx context.Context) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Date", &c.form.Date},
		{"Mode (" + joinModes() + ")", &c.form.Mode},
		{"Distance", &c.form.Distance},
		{"Purpose (" + joinPurposes() + ")", &c.form.Purpose},
		{"Notes", &c.form.Notes},
	}
	for _, f := range fields {
		answer, err := c.app.promptDefault(f.label, *f.value)
		if err != nil && err != io.EOF {
			return c.app.errorHandler.Handle("read form", err)
		}
		*f.value = answer
		if err == io.EOF {
			break
		}
	}

	return NewTripCommand(c.app).Add(ctx, &c.form)
}

func joinModes() string {
	names := make([]string, 0, len(domain.AllTransportModes()))
	for _, m := range domain.AllTransportModes() {
		names = append(names, string(m))
	}
	return strings.Join(names, "/")
}

func joinPurposes() string {
	names := make([]string, 0, len(domain.AllTripPurposes()))
	for _, p := range domain.AllTripPurposes() {
		names = append(names, string(p))
	}
	return strings.Join(names, "/")
}
