package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/roomstock/inventory/pkg/errors"
)

// Text is a string field that tolerates hand-edited JSON: numbers and
// booleans are read as their literal text and null reads as empty.
// It is always written back as a JSON string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '{' || b[0] == '[':
		return errors.NewValidationError("", string(b), "expected a text value")
	default:
		// numbers and booleans
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// List is a list of text values. A single string is read as a one-element
// list, null reads as empty, and blank entries are dropped.
type List []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = List{}
		return nil
	}
	if b[0] != '[' {
		var one Text
		if err := one.UnmarshalJSON(b); err != nil {
			return err
		}
		*l = List{}
		if s := strings.TrimSpace(string(one)); s != "" {
			*l = List{s}
		}
		return nil
	}
	var items []Text
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(List, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(string(it)); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// MarshalJSON writes nil lists as [] so exported patches stay uniform.
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Loose holds a canonical value whose JSON type varies across the dataset
// (number, string or null). The raw JSON is kept so it round-trips unchanged.
type Loose json.RawMessage

// LooseString returns a Loose holding s as a JSON string.
func LooseString(s string) Loose {
	b, _ := json.Marshal(s)
	return Loose(b)
}

// MarshalJSON implements json.Marshaler.
func (l Loose) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("null"), nil
	}
	return l, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Loose) UnmarshalJSON(b []byte) error {
	*l = append((*l)[:0], b...)
	return nil
}

// MarshalYAML renders the decoded value so YAML output shows 12, not bytes.
func (l Loose) MarshalYAML() (any, error) {
	if len(l) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(l, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// String renders the value for display; null is empty.
func (l Loose) String() string {
	b := bytes.TrimSpace(l)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	if b[0] == '"' {
		var s string
		if json.Unmarshal(b, &s) == nil {
			return s
		}
	}
	return string(b)
}

// Float returns the numeric value, if there is one.
func (l Loose) Float() (float64, bool) {
	s := strings.TrimSpace(l.String())
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
