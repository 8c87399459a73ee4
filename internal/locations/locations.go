// Package locations resolves content paths back into the human-meaningful
// location descriptors the translation editor renders: which tab, which
// field, which block, which nested field.
package locations

import (
	"fmt"

	"github.com/goliatone/go-localize/internal/segments"
)

// Widget identifies the editing widget an overridable segment renders with.
type Widget int

const (
	// WidgetUnknown is the zero value, covering segments that carry no
	// dedicated widget and locations resolved without widget inference.
	WidgetUnknown Widget = iota
	WidgetText
	WidgetPageReference
	WidgetDocumentReference
	WidgetImageReference
)

// String returns the wire name of the widget kind.
func (w Widget) String() string {
	switch w {
	case WidgetText:
		return "text"
	case WidgetPageReference:
		return "page_reference"
	case WidgetDocumentReference:
		return "document_reference"
	case WidgetImageReference:
		return "image_reference"
	default:
		return "unknown"
	}
}

// Location describes where a segment lives in the editing UI. It is derived
// on every request and never persisted.
type Location struct {
	Tab           string
	FieldLabel    string
	BlockID       *string
	SubFieldLabel *string
	HelpText      string
	Widget        Widget
}

// PathResolutionError reports a content path that no longer resolves against
// the current source value: a field that does not exist on the schema, or a
// block id that has gone stale. It is scoped to one segment; the rest of a
// catalog still resolves.
type PathResolutionError struct {
	Path   segments.ContentPath
	Reason string
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("locations: cannot resolve path %q: %s", e.Path, e.Reason)
}
