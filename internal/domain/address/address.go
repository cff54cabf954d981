package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/wastenot/service-pickup/internal/platform/domain"
)

// Address is an immutable postal address with its resolved geographic
// position. A constructed Address always has non-empty required fields, a
// registered state code and resolved coordinates; construction fails
// atomically otherwise.
type Address struct {
	street1     string
	street2     string
	city        string
	state       State
	zip         int
	coordinates Coordinates
}

// New validates the raw fields, resolves coordinates through the geocoder
// and returns a fully-populated Address. street2 is optional; every other
// field is required. No Address is observable if any step fails.
func New(ctx context.Context, geocoder Geocoder, street1, street2, city, state string, zip int) (*Address, error) {
	if street1 == "" {
		return nil, domain.NewValidationError("street1 cannot be empty")
	}
	if city == "" {
		return nil, domain.NewValidationError("city cannot be empty")
	}
	if state == "" {
		return nil, domain.NewValidationError("state cannot be empty")
	}
	if zip == 0 {
		return nil, domain.NewValidationError("zip cannot be empty")
	}
	if !State(state).IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("%s is not a valid state", state))
	}

	a := &Address{
		street1: street1,
		street2: street2,
		city:    city,
		state:   State(state),
		zip:     zip,
	}

	query := fmt.Sprintf("%s, %s, %s %d", street1, city, state, zip)
	coords, err := geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, domain.NewResolutionError(fmt.Sprintf("could not get coordinates for %s", a))
	}
	a.coordinates = coords

	return a, nil
}

// Reconstruct rebuilds an Address from trusted, previously validated data.
// It performs no validation and no geocoding; it must never be fed raw user
// input.
func Reconstruct(street1, street2, city, state string, zip int, coordinates Coordinates) *Address {
	return &Address{
		street1:     street1,
		street2:     street2,
		city:        city,
		state:       State(state),
		zip:         zip,
		coordinates: coordinates,
	}
}

// Street1 returns the first street line.
func (a *Address) Street1() string { return a.street1 }

// Street2 returns the optional second street line, empty if absent.
func (a *Address) Street2() string { return a.street2 }

// City returns the city.
func (a *Address) City() string { return a.city }

// State returns the state code.
func (a *Address) State() State { return a.state }

// Zip returns the postal code.
func (a *Address) Zip() int { return a.zip }

// Coordinates returns the resolved geographic position.
func (a *Address) Coordinates() Coordinates { return a.coordinates }

// String formats the address for display, including the second street line
// only when present.
func (a *Address) String() string {
	var b strings.Builder
	b.WriteString(a.street1)
	if a.street2 != "" {
		b.WriteString(", ")
		b.WriteString(a.street2)
	}
	fmt.Fprintf(&b, ", %s, %s %d.", a.city, a.state, a.zip)
	return b.String()
}

// Equal reports field-for-field equality, coordinates included.
func (a *Address) Equal(other *Address) bool {
	if other == nil {
		return false
	}
	return *a == *other
}
