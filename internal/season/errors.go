package season

import (
	"errors"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

var (
	// ErrMissingCity is returned for an empty or whitespace-only city.
	ErrMissingCity = errors.New("city is required")

	// ErrUnsupportedCity is returned when the city resolves to no known region.
	ErrUnsupportedCity = errors.New("unsupported city")

	// ErrInvalidDate is returned when a date parameter cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrLoadInProgress is returned when a table load is triggered while
	// another is still running.
	ErrLoadInProgress = errors.New("season table load in progress")
)

// LoadError reports a failed fetch or decode of the season table.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string { return "load season table: " + e.Cause.Error() }

func (e *LoadError) Unwrap() error { return e.Cause }

// Messages shown to users for each outcome.
const (
	MessageMissingCity = "Please enter a city name"
	MessageUnsupported = "Sorry, we don't have data for that city yet. Try one of our supported UK cities."
	MessageEmpty       = "No seasonal produce found for this location. Try another city!"
	MessageLoadFailed  = "Error loading produce data. Please try again later."
	MessageLoading     = "Loading produce data..."
	MessageInvalidDate = "Please enter a date as YYYY-MM-DD"
)

// Describe maps a query error to a short code, the user-facing message, and
// optional details. Unknown errors are reported as load failures.
func Describe(err error) (code, message, details string) {
	var loadErr *LoadError
	switch {
	case errors.Is(err, ErrMissingCity):
		return "missing_city", MessageMissingCity, ""
	case errors.Is(err, ErrInvalidDate):
		return "bad_date", MessageInvalidDate, err.Error()
	case errors.Is(err, ErrUnsupportedCity):
		return "unsupported_city", MessageUnsupported, ""
	case errors.Is(err, ErrLoadInProgress):
		return "loading", MessageLoading, ""
	case errors.As(err, &loadErr):
		return "load_error", MessageLoadFailed, loadErr.Cause.Error()
	case errors.Is(err, domain.ErrMalformedTable):
		return "malformed", MessageLoadFailed, err.Error()
	default:
		return "load_error", MessageLoadFailed, err.Error()
	}
}
