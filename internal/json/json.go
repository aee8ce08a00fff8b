// Package json routes JSON encoding through goccy/go-json.
package json

import (
	"io"

	"github.com/goccy/go-json"
)

type Encoder = json.Encoder

func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func NewEncoder(w io.Writer) *Encoder {
	return json.NewEncoder(w)
}
