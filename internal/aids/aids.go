package aids

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Iif is "inline if"
func Iif[T any](expression bool, trueVal, falseVal T) T {
	if expression {
		return trueVal
	}
	return falseVal
}

// IsError returns true if err is not nil
func IsError(err error) bool { return err != nil }

// Assert panics if condition is false
func Assert(condition bool, v any) {
	if condition {
		return
	}
	if err, ok := v.(error); ok {
		panic(err)
	}
	panic(fmt.Errorf("%#v", v))
}

// Must returns val if err is nil, otherwise panics with err
func Must[T any](val T, err error) T {
	Assert(!IsError(err), err)
	return val
}

// MarshalIndent renders v as 2-space indented JSON without escaping HTML characters,
// so names like "João" and "<" survive untouched in operator-facing output.
func MarshalIndent(v any) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); IsError(err) {
		return "", err
	}
	return string(bytes.TrimRight(b.Bytes(), "\n")), nil
}

// IndentJSON re-indents raw JSON; it returns raw unchanged if it isn't valid JSON.
func IndentJSON(raw []byte) string {
	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", "  "); IsError(err) {
		return string(raw)
	}
	return b.String()
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
