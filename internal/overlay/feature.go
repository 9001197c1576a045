package overlay

import "github.com/woozymasta/geolayers/internal/geo"

// Feature is the per-record view handed to filters and factories: the
// normalized geometry kind, the raw decoded coordinate tree, and the open
// properties mapping. Factories may rely on arbitrary property keys.
type Feature struct {
	Kind        string
	Coordinates interface{}
	Properties  map[string]interface{}
}

// StringProp returns the named property if it is a string, else "".
func (f *Feature) StringProp(key string) string {
	s, _ := f.Properties[key].(string)
	return s
}

// NumberProp returns the named property coerced to float64, else 0.
// The source documents carry radius values as either int or float.
func (f *Feature) NumberProp(key string) float64 {
	n, err := geo.Number(f.Properties[key])
	if err != nil {
		return 0
	}
	return n
}

// With returns a feature whose properties are a copy of f's with extra
// overlaid on top. The original map is never touched: metadata fan-out hands
// factories this augmented view instead of mutating caller-owned data.
func (f *Feature) With(extra map[string]interface{}) *Feature {
	props := make(map[string]interface{}, len(f.Properties)+len(extra))
	for k, v := range f.Properties {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}

	return &Feature{
		Kind:        f.Kind,
		Coordinates: f.Coordinates,
		Properties:  props,
	}
}
