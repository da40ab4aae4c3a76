package common

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID is a backend identifier. The backend may send IDs as JSON numbers or as strings; both are accepted.
// Numeric IDs are sent back as JSON numbers so that submitted DTOs keep their original shape.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "ID no válido")
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "ID no válido")
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs as JSON numbers and anything else as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}

	if id.IsNumeric() {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

// IsNumeric reports whether the ID is a base-10 integer.
func (id ID) IsNumeric() bool {
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

func (id ID) String() string {
	return string(id)
}
