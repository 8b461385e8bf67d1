package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pkordes/stepsync/internal/domain"
)

// ReadObject decodes a single JSON object from r. Numbers are kept as
// json.Number so large identifiers and epoch fractions are not rounded early.
// Anything but whitespace after the object is a parse error.
func ReadObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse.ReadObject: %w: %w", domain.ErrParse, err)
	}
	if m == nil {
		return nil, fmt.Errorf("parse.ReadObject: %w: top-level value is not an object", domain.ErrParse)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse.ReadObject: %w: trailing data after object", domain.ErrParse)
	}
	return m, nil
}
