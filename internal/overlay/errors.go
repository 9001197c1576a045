package overlay

import (
	"errors"
	"fmt"
)

// ErrMissingFeatures reports a document without a features sequence.
var ErrMissingFeatures = errors.New("document has no \"features\" array")

// DecodeError reports input text that is not valid JSON. Parsing does not
// start when it is returned.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode geojson: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShapeError reports a decoded value that does not have the expected
// feature-collection shape.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return "geojson shape: " + e.Msg
}

// UnknownKindError reports a geometry type tag outside the seven known
// kinds. There is no safe default behavior for a new kind, so the whole
// parse call is aborted.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown geometry kind %q", e.Kind)
}
