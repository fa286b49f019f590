package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"travel-tracker/internal/api"
	"travel-tracker/internal/domain"
)

// TripCommand handles manual entry, history and export
type TripCommand struct {
	app *App
}

// NewTripCommand creates a new trip command handler
func NewTripCommand(app *App) *TripCommand {
	return &TripCommand{app: app}
}

// Add records a manual trip
func (c *TripCommand) Add(ctx context.Context, input *domain.ManualTripInput) error {
	rec, err := c.app.businessAPI.AddManualTrip(ctx, input)
	if err != nil {
		if c.app.errorHandler.IsValidationError(err) || c.app.errorHandler.IsSessionError(err) {
			return c.app.errorHandler.HandleSimple(err)
		}
		return c.app.errorHandler.Handle("add trip", err)
	}
	c.app.printf("Added trip %s\n", rec.TripNumber)
	return nil
}

// History prints the trip history as a table
func (c *TripCommand) History(ctx context.Context) error {
	records, err := c.app.businessAPI.GetHistory(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	return printHistory(c.app.out, records)
}

// Export writes the history in the requested format
func (c *TripCommand) Export(ctx context.Context, format, out string) error {
	result, err := c.app.businessAPI.ExportHistory(ctx, format, out)
	if err != nil {
		return c.app.errorHandler.Handle("export trips", err)
	}
	printExport(c.app, result)
	return nil
}

func printExport(app *App, result *api.ExportResult) {
	app.printf("Exported %d bytes of %s to %s\n", result.Bytes, result.Format, result.Path)
}

func printHistory(out io.Writer, records []domain.TripRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No trips recorded yet")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIP\tDATE\tTIME\tFROM\tTO\tDISTANCE\tMODE\tPURPOSE\tSTART\tEND")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.TripNumber, r.Date, r.Time, r.Origin, r.Destination,
			r.Distance, r.Mode, r.Purpose, r.StartTime, r.EndTime)
	}
	return w.Flush()
}
