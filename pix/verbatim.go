package pix

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Verbatim holds a JSON scalar exactly as the backend sent it, so amounts and counts are shown
// without being re-computed or re-formatted. Strings are kept unquoted.
type Verbatim struct {
	text   string
	quoted bool
	set    bool
}

// VerbatimOf wraps a Go value; numbers keep their literal form.
func VerbatimOf(v any) Verbatim {
	switch v := v.(type) {
	case string:
		return Verbatim{text: v, quoted: true, set: true}
	case fmt.Stringer:
		return Verbatim{text: v.String(), set: true}
	default:
		return Verbatim{text: fmt.Sprint(v), set: true}
	}
}

func (v Verbatim) IsSet() bool    { return v.set }
func (v Verbatim) IsZero() bool   { return !v.set }
func (v Verbatim) String() string { return v.text }

// Int parses the value as an integer.
func (v Verbatim) Int() (int64, bool) {
	n, err := strconv.ParseInt(v.text, 10, 64)
	return n, err == nil
}

func (v *Verbatim) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Verbatim{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Verbatim{text: s, quoted: true, set: true}
		return nil
	}
	*v = Verbatim{text: string(b), set: true}
	return nil
}

func (v Verbatim) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if v.quoted {
		return json.Marshal(v.text)
	}
	return []byte(v.text), nil
}
