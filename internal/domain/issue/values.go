package issue

import (
	"net/url"
	"strconv"
	"strings"
)

// Values holds request input keyed by external field name. Values decoded
// from JSON keep their JSON types; query and form values are strings.
type Values map[string]any

// FromURLValues keeps the first value of every key.
func FromURLValues(in url.Values) Values {
	out := make(Values, len(in))
	for key, list := range in {
		if len(list) == 0 {
			continue
		}
		out[key] = list[0]
	}
	return out
}

func (v Values) lookup(field Field) (any, bool) {
	if v == nil {
		return nil, false
	}
	raw, ok := v[string(field)]
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// ID returns the _id value when it is a non-empty string.
func (v Values) ID() (string, bool) {
	raw, ok := v.lookup(FieldID)
	if !ok {
		return "", false
	}
	id, isString := raw.(string)
	id = strings.TrimSpace(id)
	if !isString || id == "" {
		return "", false
	}
	return id, true
}

func (v Values) text(field Field) (string, bool) {
	raw, ok := v.lookup(field)
	if !ok {
		return "", false
	}
	s, isString := raw.(string)
	if !isString || s == "" {
		return "", false
	}
	return s, true
}

func (v Values) optionalText(field Field) *string {
	s, ok := v.text(field)
	if !ok {
		return nil
	}
	return &s
}

func parseBool(raw any) (any, bool) {
	switch b := raw.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, false
		}
		return parsed, true
	}
	return nil, false
}
