// Package schema holds the static field descriptors that path resolution
// operates on. Descriptors are registered once at startup; nothing in this
// package inspects live Go types at runtime.
package schema

// FieldKind is a closed tagged variant over the translatable field kinds.
// Every switch over FieldKind must handle all of these.
type FieldKind int

const (
	// FieldText is a plain text field.
	FieldText FieldKind = iota
	// FieldRichText is a rich text field whose extraction yields one string
	// segment per paragraph.
	FieldRichText
	// FieldStream is a composite block-tree field. Content paths under it
	// address individual block instances by id.
	FieldStream
	// FieldChildRelation is a one-to-many ownership relation whose related
	// records are themselves locale-variant records.
	FieldChildRelation
	// FieldReference points at another record (page, document, image). Such
	// fields are synchronised rather than translated.
	FieldReference
	// FieldSynchronized is any other non-text field copied per locale.
	FieldSynchronized
)

// ReferenceCapability describes what a reference field's related schema can
// hold, used for widget inference on overridable segments.
type ReferenceCapability int

const (
	ReferenceNone ReferenceCapability = iota
	ReferencePage
	ReferenceDocument
	ReferenceImage
)

// Field describes one field on a model or one child field inside a struct
// block.
type Field struct {
	Name     string
	Label    string
	HelpText string
	Kind     FieldKind

	// Related is set for FieldChildRelation and FieldReference fields.
	Related *Model
	// Capability is set for FieldReference fields.
	Capability ReferenceCapability
	// Blocks lists the block types a FieldStream field accepts, keyed by
	// block type name.
	Blocks map[string]BlockType
}

// BlockType describes one block type accepted by a stream field. Struct
// blocks nest named child fields; non-struct blocks hold a single value.
type BlockType struct {
	Name     string
	Label    string
	IsStruct bool
	Children []Field
}

// Child returns the named child field of a struct block.
func (b BlockType) Child(name string) (Field, bool) {
	for _, field := range b.Children {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Tab names a group of fields in the editing UI's tab layout.
type Tab struct {
	Name   string
	Fields []string
}

// Model describes a translatable model: its fields and the editing UI tab
// layout used for location display.
type Model struct {
	Name        string
	VerboseName string
	Fields      []Field
	Tabs        []Tab
}

// Field returns the named top level field.
func (m *Model) Field(name string) (Field, bool) {
	if m == nil {
		return Field{}, false
	}
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// TabFor resolves the tab a field is shown on. Fields absent from the layout
// default to the first declared tab.
func (m *Model) TabFor(field string) string {
	if m == nil || len(m.Tabs) == 0 {
		return ""
	}
	for _, tab := range m.Tabs {
		for _, name := range tab.Fields {
			if name == field {
				return tab.Name
			}
		}
	}
	return m.Tabs[0].Name
}

// BlockInstance is one live block inside a stream field value, carrying the
// per-instance id assigned at authoring time and the block type name.
type BlockInstance struct {
	ID   string
	Type string
}

// SourceValues exposes the live field values of one source snapshot. Block
// ids may be reused when content changed since extraction, so resolvers must
// read instances through this interface on every request instead of caching.
type SourceValues interface {
	// StreamBlocks returns the current block instances of a stream field in
	// document order.
	StreamBlocks(field string) []BlockInstance
}
