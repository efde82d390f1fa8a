// Package ontology loads the declarative object-type/link-type schema that
// drives table compilation and record generation.
//
// A schema document is YAML with two top-level lists, object_types and
// link_types. Unknown keys are ignored so that newer documents can be read
// by older binaries.
package ontology

// Data types understood by the type mapper. Anything else falls back to
// DataTypeString.
const (
	DataTypeString     = "string"
	DataTypeInteger    = "integer"
	DataTypeLong       = "long"
	DataTypeDate       = "date"
	DataTypeDateTime   = "datetime"
	DataTypeDouble     = "double"
	DataTypeBigDecimal = "bigdecimal"
)

// Schema is the parsed document.
type Schema struct {
	Version     string       `yaml:"version"`
	Namespace   string       `yaml:"namespace,omitempty"`
	ObjectTypes []ObjectType `yaml:"object_types"`
	LinkTypes   []LinkType   `yaml:"link_types"`
}

// ObjectType describes one entity kind, and therefore one table.
type ObjectType struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name"`
	Description string     `yaml:"description,omitempty"`
	Properties  []Property `yaml:"properties"`
}

// Property describes one column of an ObjectType.
type Property struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	DataType    string `yaml:"data_type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description,omitempty"`
}

// LinkType declares a relationship between two object types. The core never
// consumes link types; they are kept so the document round-trips.
type LinkType struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name"`
	Description string     `yaml:"description,omitempty"`
	SourceType  string     `yaml:"source_type"`
	TargetType  string     `yaml:"target_type"`
	Cardinality string     `yaml:"cardinality"`
	Direction   string     `yaml:"direction"`
	Properties  []Property `yaml:"properties,omitempty"`
}

// ObjectType returns the object type with the given name.
func (s *Schema) ObjectType(name string) (*ObjectType, bool) {
	for i := range s.ObjectTypes {
		if s.ObjectTypes[i].Name == name {
			return &s.ObjectTypes[i], true
		}
	}
	return nil, false
}

// TableNames returns object type names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.ObjectTypes))
	for i, ot := range s.ObjectTypes {
		names[i] = ot.Name
	}
	return names
}

// Property returns the property with the given name.
func (o *ObjectType) Property(name string) (*Property, bool) {
	for i := range o.Properties {
		if o.Properties[i].Name == name {
			return &o.Properties[i], true
		}
	}
	return nil, false
}

// Label returns the display name, or the name when none is set.
func (o *ObjectType) Label() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.Name
}

// Label returns the display name, or the name when none is set.
func (p *Property) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
