package answerkey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// VarMap is an ordered mapping from variable names to values. Setting a name
// that is already present replaces its value but keeps its position. The zero
// value is an empty map ready to use.
type VarMap struct {
	names []string
	vals  map[string]float64
}

// NewVarMap creates a VarMap from alternating names and values, mostly for
// tests.
func NewVarMap(kv ...interface{}) *VarMap {
	if len(kv)%2 != 0 {
		panic("answerkey: odd number of arguments to NewVarMap")
	}
	m := new(VarMap)
	for i := 0; i < len(kv); i += 2 {
		name := kv[i].(string)
		switch v := kv[i+1].(type) {
		case float64:
			m.Set(name, v)
		case int:
			m.Set(name, float64(v))
		default:
			panic(fmt.Sprintf("answerkey: bad value type %T for %q", v, name))
		}
	}
	return m
}

// Set sets the value of name.
func (m *VarMap) Set(name string, v float64) {
	if m.vals == nil {
		m.vals = make(map[string]float64)
	}
	if _, ok := m.vals[name]; !ok {
		m.names = append(m.names, name)
	}
	m.vals[name] = v
}

// Get returns the value of name and whether it is present.
func (m *VarMap) Get(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.vals[name]
	return v, ok
}

// Len returns the number of variables.
func (m *VarMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the variable names in order.
func (m *VarMap) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// MarshalJSON encodes the map as a JSON object with keys in order.
func (m *VarMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range m.Names() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(m.vals[name])
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", k, err)
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of numbers, keeping the key order.
func (m *VarMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("answerkey: variables must be an object, not %v", tok)
	}
	*m = VarMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("answerkey: variable %q: %w", name, err)
		}
		m.Set(name, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the map as a YAML mapping with keys in order.
func (m *VarMap) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.Names() {
		var k, v yaml.Node
		k.SetString(name)
		if err := v.Encode(m.vals[name]); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &k, &v)
	}
	return n, nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler so that variable dumps
// keep their order in logs.
func (m *VarMap) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, name := range m.Names() {
		enc.AddFloat64(name, m.vals[name])
	}
	return nil
}

// lookupText is a lookup function for expressions.Substitute. Negative values
// are bracketed so that the rewritten formula still means what was evaluated:
// x^2 with x = -2 reads (-2)^2, not -2^2.
func (m *VarMap) lookupText(name string) (string, bool) {
	v, ok := m.Get(name)
	if !ok {
		return "", false
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if math.Signbit(v) {
		s = "(" + s + ")"
	}
	return s, true
}
