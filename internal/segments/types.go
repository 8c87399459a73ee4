package segments

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StringSegment is one atomic translatable string extracted from a source
// snapshot. Segments are immutable once extracted; Order defines the
// canonical on-screen sequence.
type StringSegment struct {
	ID    uuid.UUID
	Order int
	Path  ContentPath
	Text  string

	// Attrs stores HTML attributes stripped from the text during extraction,
	// keyed by element id. Opaque to this engine; carried through so they can
	// be reapplied when translations are ingested.
	Attrs map[string]any
}

// StringID returns the deterministic identity of the segment's source text.
func (s StringSegment) StringID() uuid.UUID {
	return StringID(s.Text)
}

// OverridableSegment is one synchronised non-text value that a locale may
// override without translating (a media reference, a number).
type OverridableSegment struct {
	ID    uuid.UUID
	Order int
	Path  ContentPath
	Data  json.RawMessage
}
