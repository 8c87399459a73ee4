// Package segments models the translatable units extracted from one source
// snapshot: the dotted content paths that address them, the string and
// overridable segment values, and the ordered catalog that joins them.
package segments

import (
	"strings"

	"github.com/google/uuid"
)

// Namespaces for deterministic identities. These match the values used by
// existing PO tooling so identities survive export/import across systems.
var (
	stringNamespace = uuid.MustParse("59ed7d1c-7eb5-45fa-9c8b-7a7057ed56d7")
	pathNamespace   = uuid.MustParse("fcab004a-2b50-11ea-978f-2e728ce88125")
)

// ContentPath is a dotted address of a translatable unit within a source
// object's schema. Component 0 names a schema field; for stream fields
// component 1 is a block instance id and component 2 an optional nested field
// name; for child relations component 1 is the child record id and component
// 2 a field on the child's schema.
//
// A path is only meaningful against the schema snapshot it was extracted
// from; resolution against newer content can fail.
type ContentPath string

// Components splits the path on ".".
func (p ContentPath) Components() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Field returns the top level schema field the path addresses.
func (p ContentPath) Field() string {
	if idx := strings.IndexByte(string(p), '.'); idx >= 0 {
		return string(p)[:idx]
	}
	return string(p)
}

// BlockID returns component 1: the block instance id or child record id, or
// "" for plain field paths.
func (p ContentPath) BlockID() string {
	comps := p.Components()
	if len(comps) < 2 {
		return ""
	}
	return comps[1]
}

// SubField returns component 2: the nested field name, or "".
func (p ContentPath) SubField() string {
	comps := p.Components()
	if len(comps) < 3 {
		return ""
	}
	return comps[2]
}

// ID derives the deterministic identity of the path.
func (p ContentPath) ID() uuid.UUID {
	return uuid.NewSHA1(pathNamespace, []byte(p))
}

// StringID derives the deterministic identity of a source string. Equal
// texts share an identity; the source locale is tracked separately on the
// records that reference it.
func StringID(text string) uuid.UUID {
	return uuid.NewSHA1(stringNamespace, []byte(text))
}
