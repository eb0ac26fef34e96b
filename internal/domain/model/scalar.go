package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is an optional platform number. The platform sends numbers,
// numeric strings, or null for the same field depending on its version.
type Number struct {
	Value float64
	Set   bool
}

// Num builds a set Number.
func Num(v float64) Number { return Number{Value: v, Set: true} }

// UnmarshalJSON accepts a number, a numeric string (comma or dot decimal),
// a boolean, or null. Anything unreadable leaves the value unset.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if s == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Num(v)
		}
		return nil
	case 't', 'f', '{', '[':
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return nil
	}
	*n = Num(v)
	return nil
}

// MarshalJSON writes null when unset.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Or returns the value, or def when unset.
func (n Number) Or(def float64) float64 {
	if !n.Set {
		return def
	}
	return n.Value
}

// Int truncates the value; unset is zero.
func (n Number) Int() int { return int(n.Value) }

// NonZero reports a set, non-zero value.
func (n Number) NonZero() bool { return n.Set && n.Value != 0 }

// ID is a platform scalar read as text. Numeric ids keep their decimal form.
type ID string

// UnmarshalJSON accepts a string, a number, a boolean or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
	case '{', '[':
		return nil
	default:
		s := string(b)
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
			s = strconv.FormatInt(int64(f), 10)
		}
		*id = ID(s)
	}
	return nil
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Flag is a platform boolean that may arrive as true/false, 0/1 or "O"/"N".
type Flag bool

// UnmarshalJSON reads the accepted encodings; anything else is false.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var id ID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(string(id)) {
	case "true", "1", "o", "oui", "y", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
