// Package batch reads question batches and writes their results.
package batch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/answerkey"
)

var (
	// ErrNotFound is wrapped by errors for missing input files.
	ErrNotFound = errors.New("input file not found")
	// ErrMalformed is wrapped by errors for input that is not valid JSON or
	// does not have the shape of a question batch.
	ErrMalformed = errors.New("malformed input")
)

//go:embed schema.json
var schemaText string

var schema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaText))
	if err != nil {
		panic(err)
	}
	return s
}()

// document is the input file layout.
type document struct {
	Result []answerkey.Question `json:"result"`
}

// Load reads the questions in the file at path.
func Load(path string) ([]answerkey.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrNotFound, path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	qs, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return qs, nil
}

// Decode validates and decodes a question batch. A document without a result
// field holds no questions.
func Decode(data []byte) ([]answerkey.Question, error) {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.Wrap(ErrMalformed, strings.Join(msgs, "; "))
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return doc.Result, nil
}

// Encode writes results to w in the given format, json or yaml. JSON output
// is indented by two spaces and leaves non-ASCII text unescaped.
func Encode(w io.Writer, format string, results []answerkey.QuestionResult) error {
	if results == nil {
		results = []answerkey.QuestionResult{}
	}
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding results")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return errors.Wrap(err, "encoding results")
		}
		return errors.Wrap(enc.Close(), "encoding results")
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// Write writes results to the file at path. Nothing is written if encoding
// fails.
func Write(path, format string, results []answerkey.QuestionResult) error {
	var b bytes.Buffer
	if err := Encode(&b, format, results); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, b.Bytes(), 0o644), "writing %s", path)
}
