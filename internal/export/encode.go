package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// WriteJSON encodes v as JSON followed by a newline.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(v), "encode json")
}

func WriteYAML(w io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "write yaml")
}
