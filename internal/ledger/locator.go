package ledger

import (
	"context"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
)

// FixedLocator always reports the same position.
type FixedLocator struct {
	Location domain.Location
}

// CurrentPosition implements Locator.
func (f FixedLocator) CurrentPosition(ctx context.Context) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, errors.NewTimeoutError("read position", err.Error())
	}
	return f.Location, nil
}

// UnavailableLocator is used when location access has not been granted.
type UnavailableLocator struct{}

// CurrentPosition implements Locator and always fails with a permission error.
func (UnavailableLocator) CurrentPosition(context.Context) (domain.Location, error) {
	return domain.Location{}, errors.NewPermissionError("read position", "location")
}
