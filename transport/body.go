package transport

import (
	"bytes"
	"encoding/json"
	"mime"
	"strings"

	"github.com/JeffreyRichter/pixtester/internal/aids"
)

// Body is a decoded response body: either JSONBody or TextBody.
type Body interface {
	String() string
	isBody()
}

// JSONBody is a body whose content-type announced JSON and which parsed as JSON.
type JSONBody struct {
	Value any // numbers are json.Number
	Raw   []byte
}

func (JSONBody) isBody()          {}
func (b JSONBody) String() string { return aids.IndentJSON(b.Raw) }

// TextBody is any body that isn't JSON.
type TextBody string

func (TextBody) isBody()          {}
func (b TextBody) String() string { return string(b) }

// Decode picks the body variant from contentType. A JSON content-type with a body that fails to
// parse degrades to TextBody.
func Decode(raw []byte, contentType string) Body {
	if !IsJSONContentType(contentType) {
		return TextBody(raw)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); aids.IsError(err) {
		return TextBody(raw)
	}
	return JSONBody{Value: v, Raw: raw}
}

// IsJSONContentType reports whether a Content-Type header value denotes JSON.
func IsJSONContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if aids.IsError(err) {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
