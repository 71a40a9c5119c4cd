package engine

import (
	"fmt"
	"net/url"
	"strconv"
)

// FilterField declares one recognized query parameter and the column it
// filters on. Coerce, when set, converts the raw string value (e.g. into an
// id); a coercion failure fails the whole request.
type FilterField struct {
	Param  string
	Column string
	Coerce func(string) (any, error)
}

// CoerceInt parses an integer identifier query value.
func CoerceInt(raw string) (any, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	return n, nil
}

// BuildFilter picks the declared fields out of the supplied query parameters.
// Unrecognized parameters are ignored, absent ones omitted.
func BuildFilter(fields []FilterField, params url.Values) (map[string]any, error) {
	filter := make(map[string]any)
	for _, f := range fields {
		raw := params.Get(f.Param)
		if raw == "" {
			continue
		}
		if f.Coerce == nil {
			filter[f.Column] = raw
			continue
		}
		v, err := f.Coerce(raw)
		if err != nil {
			return nil, err
		}
		filter[f.Column] = v
	}
	return filter, nil
}
