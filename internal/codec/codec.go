// Package codec reads and writes the JSON shapes exchanged at the edges:
// chapter lists going in, paginated chapter lists coming out.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidInputShape is returned when the chapter list is not an array of
// {chapterName, text} records.
var ErrInvalidInputShape = errors.New("invalid input shape")

const sectionsSchemaURL = "https://bookpager.local/schemas/sections.json"

const sectionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["chapterName"],
    "properties": {
      "chapterName": {"type": "string"},
      "text": {"type": ["string", "null"]}
    }
  }
}`

var sectionsValidator = mustCompile(sectionsSchemaURL, sectionsSchema)

func mustCompile(url, schema string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		panic(fmt.Sprintf("codec: parse schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("codec: add schema: %v", err))
	}
	return compiler.MustCompile(url)
}

// DecodeSections reads a chapter list. Any shape violation is reported as
// ErrInvalidInputShape with the offending location; nothing is returned.
func DecodeSections(r io.Reader) ([]doctree.Section, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrInvalidInputShape, err)
	}
	if err := sectionsValidator.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInputShape, describe(err))
	}

	var sections []doctree.Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputShape, err)
	}
	return sections, nil
}

// describe flattens a schema violation into "at $/0/text: ..." form using
// the innermost causes, which name the offending value.
func describe(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	printer := message.NewPrinter(language.English)
	leaves := leafErrors(verr)
	parts := make([]string, 0, len(leaves))
	for _, l := range leaves {
		loc := "$"
		if len(l.InstanceLocation) > 0 {
			loc = "$/" + strings.Join(l.InstanceLocation, "/")
		}
		parts = append(parts, fmt.Sprintf("at %s: %s", loc, l.ErrorKind.LocalizedString(printer)))
	}
	return strings.Join(parts, "; ")
}

func leafErrors(verr *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(verr.Causes) == 0 {
		return []*jsonschema.ValidationError{verr}
	}
	var out []*jsonschema.ValidationError
	for _, c := range verr.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}

// Encode writes v as two-space indented JSON.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
