package address

import (
	"fmt"

	"github.com/wastenot/service-pickup/internal/platform/domain"
)

// State is a jurisdiction code from the closed registry of supported states.
type State string

const StateNewYork State = "NY"

// stateNames is the registry of supported states. Adding a state is a data
// change here, not a code change anywhere else.
var stateNames = map[State]string{
	StateNewYork: "New York",
}

// IsValid reports whether the code is a member of the registry.
func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// DisplayName returns the canonical human-readable name for the state.
// A lookup failure after validation is an invariant violation.
func (s State) DisplayName() (string, error) {
	name, ok := stateNames[s]
	if !ok {
		return "", domain.NewLookupError(fmt.Sprintf("no display name registered for state %s", s))
	}
	return name, nil
}

// String returns the state code.
func (s State) String() string {
	return string(s)
}
