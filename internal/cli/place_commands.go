package cli

import (
	"context"
	"strconv"
	"strings"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
)

// PlaceCommand handles place search and reverse lookup
type PlaceCommand struct {
	app *App
}

// NewPlaceCommand creates a new place command handler
func NewPlaceCommand(app *App) *PlaceCommand {
	return &PlaceCommand{app: app}
}

// Search finds a place by name
func (c *PlaceCommand) Search(ctx context.Context, args []string) error {
	place, err := c.app.businessAPI.SearchPlace(ctx, strings.Join(args, " "))
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.printPlace(place)
	return nil
}

// ReverseCenter names the place at the configured map centre
func (c *PlaceCommand) ReverseCenter(ctx context.Context) error {
	center := c.app.config.MapCenter()
	return c.reverse(ctx, center.Lat, center.Lng)
}

// Reverse names the place at the given coordinates
func (c *PlaceCommand) Reverse(ctx context.Context, latArg, lngArg string) error {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latArg), 64)
	if err != nil {
		return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("lat", latArg, "must be a number"))
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngArg), 64)
	if err != nil {
		return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("lng", lngArg, "must be a number"))
	}
	return c.reverse(ctx, lat, lng)
}

func (c *PlaceCommand) reverse(ctx context.Context, lat, lng float64) error {
	place, err := c.app.businessAPI.ReversePlace(ctx, lat, lng)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	c.printPlace(place)
	return nil
}

func (c *PlaceCommand) printPlace(place *domain.Place) {
	c.app.println(place.Name)
	if place.Type != "" {
		c.app.printf("Type:     %s\n", place.Type)
	}
	c.app.printf("Position: %s\n", place.Location)
	c.app.printf("Map:      %s\n", place.Location.MapLinkZoom(c.app.config.Location.Zoom))
}
