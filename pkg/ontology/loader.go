package ontology

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// SchemaFormatError is returned when a schema document cannot be parsed or
// is missing a required key.
type SchemaFormatError struct {
	Source string
	Path   string // location inside the document, e.g. object_types[2].name
	Err    error
}

func (e *SchemaFormatError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid schema")
	if e.Source != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Source)
	}
	if e.Path != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *SchemaFormatError) Unwrap() error { return e.Err }

var errMissingName = errors.New("name is required")

// Load reads and parses the schema document at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, &SchemaFormatError{Source: path, Err: err}
	}
	return parse(data, path)
}

// Default returns the embedded toll-road schema.
func Default() (*Schema, error) {
	return parse(defaultSchema, "<embedded>")
}

// Parse parses a schema document.
func Parse(data []byte) (*Schema, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaFormatError{Source: source, Err: errors.New("document is empty")}
		}
		return nil, &SchemaFormatError{Source: source, Err: err}
	}

	for i := range s.ObjectTypes {
		ot := &s.ObjectTypes[i]
		if strings.TrimSpace(ot.Name) == "" {
			return nil, &SchemaFormatError{Source: source, Path: fmt.Sprintf("object_types[%d].name", i), Err: errMissingName}
		}
		if ot.DisplayName == "" {
			ot.DisplayName = ot.Name
		}
		if err := normalizeProperties(ot.Properties, source, "object_types["+ot.Name+"]"); err != nil {
			return nil, err
		}
	}

	for i := range s.LinkTypes {
		lt := &s.LinkTypes[i]
		if strings.TrimSpace(lt.Name) == "" {
			return nil, &SchemaFormatError{Source: source, Path: fmt.Sprintf("link_types[%d].name", i), Err: errMissingName}
		}
		if lt.DisplayName == "" {
			lt.DisplayName = lt.Name
		}
		if err := normalizeProperties(lt.Properties, source, "link_types["+lt.Name+"]"); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func normalizeProperties(props []Property, source, owner string) error {
	for j := range props {
		p := &props[j]
		if strings.TrimSpace(p.Name) == "" {
			return &SchemaFormatError{Source: source, Path: fmt.Sprintf("%s.properties[%d].name", owner, j), Err: errMissingName}
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		p.DataType = strings.ToLower(strings.TrimSpace(p.DataType))
		if p.DataType == "" {
			p.DataType = DataTypeString
		}
	}
	return nil
}
