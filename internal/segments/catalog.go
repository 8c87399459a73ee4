package segments

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrEmptyPath indicates a segment with no content path.
	ErrEmptyPath = errors.New("segments: segment requires a content path")
	// ErrDuplicateSegment indicates two string segments sharing both path and
	// text, or two overridable segments sharing a path.
	ErrDuplicateSegment = errors.New("segments: duplicate segment")
)

// Catalog is the ordered set of segments extracted for one source snapshot.
// It is read-only from the reconciliation engine's perspective: records are
// mutated per (segment, locale), never the catalog itself.
type Catalog struct {
	// ObjectID identifies the translatable object the snapshot belongs to.
	ObjectID uuid.UUID
	// SourceLocale is the locale the snapshot was authored in.
	SourceLocale string

	strings      []StringSegment
	overridables []OverridableSegment
}

// NewCatalog builds a catalog, ordering segments by their Order field and
// rejecting duplicates. A rich text field legitimately yields several string
// segments at the same path, so string uniqueness is on (path, text);
// overridable uniqueness is on path alone.
func NewCatalog(objectID uuid.UUID, sourceLocale string, strs []StringSegment, overridables []OverridableSegment) (*Catalog, error) {
	catalog := &Catalog{
		ObjectID:     objectID,
		SourceLocale: sourceLocale,
		strings:      make([]StringSegment, len(strs)),
		overridables: make([]OverridableSegment, len(overridables)),
	}
	copy(catalog.strings, strs)
	copy(catalog.overridables, overridables)

	type stringKey struct {
		path ContentPath
		text string
	}
	seenStrings := map[stringKey]struct{}{}
	for _, segment := range catalog.strings {
		if segment.Path == "" {
			return nil, ErrEmptyPath
		}
		key := stringKey{path: segment.Path, text: segment.Text}
		if _, dup := seenStrings[key]; dup {
			return nil, fmt.Errorf("%w: %q at %q", ErrDuplicateSegment, segment.Text, segment.Path)
		}
		seenStrings[key] = struct{}{}
	}

	seenPaths := map[ContentPath]struct{}{}
	for _, segment := range catalog.overridables {
		if segment.Path == "" {
			return nil, ErrEmptyPath
		}
		if _, dup := seenPaths[segment.Path]; dup {
			return nil, fmt.Errorf("%w: overridable at %q", ErrDuplicateSegment, segment.Path)
		}
		seenPaths[segment.Path] = struct{}{}
	}

	sort.SliceStable(catalog.strings, func(i, j int) bool {
		return catalog.strings[i].Order < catalog.strings[j].Order
	})
	sort.SliceStable(catalog.overridables, func(i, j int) bool {
		return catalog.overridables[i].Order < catalog.overridables[j].Order
	})
	return catalog, nil
}

// Strings returns the string segments in canonical order.
func (c *Catalog) Strings() []StringSegment {
	return c.strings
}

// Overridables returns the overridable segments in canonical order.
func (c *Catalog) Overridables() []OverridableSegment {
	return c.overridables
}

// StringAt finds the string segment with the given path and text.
func (c *Catalog) StringAt(path ContentPath, text string) (StringSegment, bool) {
	for _, segment := range c.strings {
		if segment.Path == path && segment.Text == text {
			return segment, true
		}
	}
	return StringSegment{}, false
}

// HasPath reports whether any string segment lives at the given path.
func (c *Catalog) HasPath(path ContentPath) bool {
	for _, segment := range c.strings {
		if segment.Path == path {
			return true
		}
	}
	return false
}

// HasText reports whether any string segment carries the given source text.
func (c *Catalog) HasText(text string) bool {
	for _, segment := range c.strings {
		if segment.Text == text {
			return true
		}
	}
	return false
}

// OverridableAt finds the overridable segment at the given path.
func (c *Catalog) OverridableAt(path ContentPath) (OverridableSegment, bool) {
	for _, segment := range c.overridables {
		if segment.Path == path {
			return segment, true
		}
	}
	return OverridableSegment{}, false
}
