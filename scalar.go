package answerkey

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Scalar is a JSON scalar kept exactly as it appeared in the input. Answer
// fields like blankIndex and precision arrive as numbers, strings, or null
// depending on who wrote the question, and they are echoed back verbatim in
// results.
type Scalar struct {
	raw json.RawMessage
}

// RawScalar creates a Scalar from JSON text. It does not validate its input.
func RawScalar(text string) Scalar {
	if text == "" {
		return Scalar{}
	}
	return Scalar{raw: json.RawMessage(text)}
}

// StringScalar creates a Scalar holding a JSON string.
func StringScalar(s string) Scalar {
	b, _ := json.Marshal(s)
	return Scalar{raw: b}
}

// NumberScalar creates a Scalar holding a JSON number.
func NumberScalar(v float64) Scalar {
	return Scalar{raw: json.RawMessage(strconv.FormatFloat(v, 'g', -1, 64))}
}

// IsNull reports whether the scalar is null or was absent.
func (s Scalar) IsNull() bool {
	return len(s.raw) == 0 || string(s.raw) == "null"
}

// Raw returns the JSON text of the scalar.
func (s Scalar) Raw() string {
	if len(s.raw) == 0 {
		return "null"
	}
	return string(s.raw)
}

// String returns the scalar as text: strings unquoted, everything else as its
// JSON text.
func (s Scalar) String() string {
	if str, ok := s.str(); ok {
		return str
	}
	return s.Raw()
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return []byte(s.Raw()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	s.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}

// MarshalYAML implements yaml.Marshaler by decoding the JSON value.
func (s Scalar) MarshalYAML() (interface{}, error) {
	if s.IsNull() {
		return nil, nil
	}
	if str, ok := s.str(); ok {
		return str, nil
	}
	switch string(s.raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	v, err := strconv.ParseFloat(string(s.raw), 64)
	if err != nil {
		// Not a scalar. Hand the structure to the encoder as is.
		var x interface{}
		if err := json.Unmarshal(s.raw, &x); err != nil {
			return nil, err
		}
		return x, nil
	}
	return v, nil
}

// str returns the value of a JSON string.
func (s Scalar) str() (string, bool) {
	if len(s.raw) == 0 || s.raw[0] != '"' {
		return "", false
	}
	var r string
	if err := json.Unmarshal(s.raw, &r); err != nil {
		return "", false
	}
	return r, true
}

// Float interprets the scalar as a number. JSON numbers and strings holding
// decimal numbers are numeric, and so are booleans, as 1 and 0. Null, absent,
// and anything else are not.
func (s Scalar) Float() (float64, bool) {
	switch string(s.raw) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	return s.number()
}

// number interprets the scalar the way its text form would be parsed as a
// decimal number, so booleans are not numeric.
func (s Scalar) number() (float64, bool) {
	if s.IsNull() {
		return 0, false
	}
	text, ok := s.str()
	if !ok {
		text = string(s.raw)
	}
	return parseDecimal(text)
}

// parseDecimal parses a decimal floating-point number, allowing surrounding
// whitespace and the spellings inf, infinity, and nan. Out of range values are
// infinite.
func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	t := strings.TrimLeft(text, "+-")
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") || strings.ContainsRune(t, '_') {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// DisplayIndex returns the label for the blank at the 1-based position pos.
// If the scalar is an integral number or a string spelling one, the label is
// that integer in decimal. Otherwise it is pos.
func (s Scalar) DisplayIndex(pos int) string {
	v, ok := s.number()
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) {
		return strconv.Itoa(pos)
	}
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
