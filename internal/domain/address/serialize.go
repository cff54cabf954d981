package address

import (
	"encoding/json"
	"fmt"

	"github.com/wastenot/service-pickup/internal/platform/domain"
)

// record is the wire representation of an Address. Keys match the attribute
// names exactly; coordinates encode as a [latitude, longitude] pair.
type record struct {
	Street1     string      `json:"street1"`
	Street2     string      `json:"street2"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Zip         int         `json:"zip"`
	Coordinates Coordinates `json:"coordinates"`
}

// MarshalJSON encodes the coordinates as a two-element [lat, lng] array.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Latitude, c.Longitude})
}

// UnmarshalJSON decodes coordinates from a two-element [lat, lng] array.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinates must be a [latitude, longitude] pair: %w", err)
	}
	c.Latitude = pair[0]
	c.Longitude = pair[1]
	return nil
}

// Serialize produces the lossless JSON encoding of the address, resolved
// coordinates included. Parse(Serialize(a)) reconstructs an equal address.
func (a *Address) Serialize() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to serialize address: %w", err)
	}
	return string(data), nil
}

// MarshalJSON encodes the address in its wire format.
func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Street1:     a.street1,
		Street2:     a.street2,
		City:        a.city,
		State:       string(a.state),
		Zip:         a.zip,
		Coordinates: a.coordinates,
	})
}

// Parse is the trusted deserialization path: it rebuilds an Address from a
// previously serialized encoding in one step, skipping validation and
// geocoding. It shares no code with New, so raw user input must never be
// routed through it. Malformed input or missing required keys fail with a
// format error.
func Parse(text string) (*Address, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, domain.NewFormatError("address payload is not a valid JSON object")
	}

	for _, key := range []string{"street1", "city", "state", "zip", "coordinates"} {
		if _, ok := raw[key]; !ok {
			return nil, domain.NewFormatError(fmt.Sprintf("address payload is missing required key %q", key))
		}
	}

	var rec record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, domain.NewFormatError(fmt.Sprintf("address payload has malformed fields: %v", err))
	}

	return Reconstruct(rec.Street1, rec.Street2, rec.City, rec.State, rec.Zip, rec.Coordinates), nil
}
