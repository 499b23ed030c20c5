package velolog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is a post's tag set, stored as a JSON array in a text column.
//
// A nil or empty Tags is an empty set everywhere: it marshals to [] on the
// wire and never matches a tag filter.
type Tags []string

func (t Tags) Contains(tag string) bool {
	for _, have := range t {
		if have == tag {
			return true
		}
	}
	return false
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("error marshaling tags: %w", err)
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var b []byte
	switch src := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		b = []byte(src)
	case []byte:
		b = src
	default:
		return fmt.Errorf("cannot scan %T into tags", src)
	}

	if len(b) == 0 {
		*t = Tags{}
		return nil
	}
	if err := json.Unmarshal(b, t); err != nil {
		return fmt.Errorf("error unmarshaling tags: %w", err)
	}
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
