package field

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/lyra-render/lyra/log"
	"github.com/lyra-render/lyra/types"
)

var logger = log.New("field")

// gridPayload is the on-disk representation of a baked grid field.
type gridPayload struct {
	Res      int
	Min, Max types.Vec3
	RGB      []float32
	Density  []float32
}

// LoadGridField reads a baked grid field from a local path or http(s)
// URL.
func LoadGridField(path string) (*GridField, error) {
	res, err := NewResource(path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	logger.Infof("loading baked grid field from %s", res.Path())
	return ReadGridField(res)
}

// ReadGridField decodes a baked grid field payload from a stream.
func ReadGridField(r io.Reader) (*GridField, error) {
	var payload gridPayload
	if err := gob.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("field: could not decode grid payload: %s", err)
	}
	return NewGridField(payload.Res, payload.Min, payload.Max, payload.RGB, payload.Density)
}

// WriteGridField encodes a baked grid field so it can be loaded back
// with ReadGridField.
func WriteGridField(w io.Writer, f *GridField) error {
	payload := gridPayload{
		Res:     f.res,
		Min:     f.min,
		Max:     f.max,
		RGB:     f.rgb,
		Density: f.density,
	}
	if err := gob.NewEncoder(w).Encode(&payload); err != nil {
		return fmt.Errorf("field: could not encode grid payload: %s", err)
	}
	return nil
}
