package validation

import (
	"fmt"
	"strings"

	"travel-tracker/internal/domain"
)

// MissingManualFieldsMessage is shown when any required manual trip field is blank.
const MissingManualFieldsMessage = "Please fill in all required fields (Date, Mode, Distance, Purpose)"

// TripValidator provides validation for trip entry
type TripValidator struct {
	validator *Validator
}

// NewTripValidator creates a new trip validator
func NewTripValidator() *TripValidator {
	return &TripValidator{
		validator: NewValidator(),
	}
}

// ValidateManualTrip checks the manual entry form. Every blank required field
// is reported, not just the first one. Mode and purpose must come from the
// fixed option lists; distance and date are free text.
func (tv *TripValidator) ValidateManualTrip(input domain.ManualTripInput) error {
	validationError := NewValidationError()

	required := []struct {
		field string
		value string
	}{
		{"date", input.Date},
		{"mode", input.Mode},
		{"distance", input.Distance},
		{"purpose", input.Purpose},
	}
	for _, r := range required {
		if !tv.validator.IsNonEmptyString(r.value) {
			validationError.AddRequiredError(r.field)
		}
	}
	if validationError.HasErrors() {
		validationError.Summary = MissingManualFieldsMessage
		return validationError
	}

	if _, ok := domain.ParseTransportMode(input.Mode); !ok {
		validationError.AddInvalidValueError("mode", input.Mode,
			fmt.Sprintf("must be one of %s", joinModes(domain.AllTransportModes())))
	}
	if _, ok := domain.ParseTripPurpose(input.Purpose); !ok {
		validationError.AddInvalidValueError("purpose", input.Purpose,
			fmt.Sprintf("must be one of %s", joinPurposes(domain.AllTripPurposes())))
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateCoordinates validates a latitude/longitude pair
func (tv *TripValidator) ValidateCoordinates(lat, lng float64) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidLatitude(lat) {
		validationError.AddInvalidRangeError("lat", lat, "must be between -90 and 90")
	}
	if !tv.validator.IsValidLongitude(lng) {
		validationError.AddInvalidRangeError("lng", lng, "must be between -180 and 180")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateSearchQuery rejects blank place searches
func (tv *TripValidator) ValidateSearchQuery(query string) error {
	if tv.validator.IsNonEmptyString(query) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddRequiredError("query")
	return validationError
}

func joinModes(modes []domain.TransportMode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func joinPurposes(purposes []domain.TripPurpose) string {
	names := make([]string, len(purposes))
	for i, p := range purposes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
