package handlers

import (
	"bytes"
	"encoding/json"
)

// scalarValue accepts a JSON string or number and keeps its text, so numeric
// fields sent as "60" or 60 reach validation unchanged. null reads as empty.
type scalarValue string

func (v *scalarValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = scalarValue(text)
	default:
		*v = scalarValue(data)
	}
	return nil
}
