package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NumericText keeps a form value that clients send either as a JSON number
// or as a string, so the planner can apply its own parsing rules.
type NumericText string

func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
	default:
		*n = NumericText(data)
	}
	return nil
}

func (n NumericText) String() string {
	return string(n)
}

// Headcount is a party size sent as a number or a numeric string.
// Missing, null and zero decode to 0. Anything that is not a whole number
// decodes to -1 so it fails the party size check instead of the presence check.
type Headcount int

func (h *Headcount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			*h = -1
			return nil
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*h = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		*h = -1
		return nil
	}
	*h = Headcount(n)
	return nil
}
