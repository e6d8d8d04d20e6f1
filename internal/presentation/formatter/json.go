package formatter

import (
	"encoding/json"
	"io"
)

// WriteJSON renders any value as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
