package locations

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/schema"
	"github.com/goliatone/go-localize/internal/segments"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Option mutates the resolver configuration.
type Option func(*Resolver)

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver turns content paths into Location descriptors using registered
// schema descriptors and the live source values.
type Resolver struct {
	logger interfaces.Logger
}

// NewResolver constructs a resolver.
func NewResolver(opts ...Option) *Resolver {
	resolver := &Resolver{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Resolve computes the Location for path. Block instances are re-read from
// values on every call because ids can be reused when the source changed
// since extraction; a missing block id is a stale path, not a default.
// Widget inference only runs when includeWidget is set; it is meant for
// overridable segments, never for text segments.
func (r *Resolver) Resolve(model *schema.Model, values schema.SourceValues, path segments.ContentPath, includeWidget bool) (Location, error) {
	comps := path.Components()
	if len(comps) == 0 {
		return Location{}, &PathResolutionError{Path: path, Reason: "empty path"}
	}

	field, ok := model.Field(comps[0])
	if !ok {
		return Location{}, &PathResolutionError{Path: path, Reason: "field " + comps[0] + " not on schema"}
	}

	location := Location{Tab: model.TabFor(comps[0])}

	switch field.Kind {
	case schema.FieldStream:
		if len(comps) < 2 {
			return Location{}, &PathResolutionError{Path: path, Reason: "stream path missing block id"}
		}
		instance, found := liveBlock(values, field.Name, comps[1])
		if !found {
			r.logger.Debug("stale block id in content path", "path", string(path), "block_id", comps[1])
			return Location{}, &PathResolutionError{Path: path, Reason: "block " + comps[1] + " not in current value"}
		}
		blockType, known := field.Blocks[instance.Type]
		if !known {
			return Location{}, &PathResolutionError{Path: path, Reason: "unknown block type " + instance.Type}
		}

		blockID := comps[1]
		location.BlockID = &blockID
		location.FieldLabel = capfirst(blockType.Label)
		// Stream fields carry no field-level help text at the parent level.
		location.HelpText = ""

		widgetField := schema.Field{Kind: schema.FieldSynchronized}
		if blockType.IsStruct && len(comps) > 2 {
			child, childOK := blockType.Child(comps[2])
			if !childOK {
				return Location{}, &PathResolutionError{Path: path, Reason: "block field " + comps[2] + " not on block type " + instance.Type}
			}
			subField := child.Label
			location.SubFieldLabel = &subField
			widgetField = child
		}
		if includeWidget {
			location.Widget = widgetFor(widgetField)
		}
		return location, nil

	case schema.FieldChildRelation:
		if len(comps) < 3 {
			return Location{}, &PathResolutionError{Path: path, Reason: "child relation path missing field name"}
		}
		if field.Related == nil {
			return Location{}, &PathResolutionError{Path: path, Reason: "relation " + field.Name + " has no related model"}
		}
		child, childOK := field.Related.Field(comps[2])
		if !childOK {
			return Location{}, &PathResolutionError{Path: path, Reason: "field " + comps[2] + " not on related schema " + field.Related.Name}
		}

		blockID := comps[1]
		subField := capfirst(child.Label)
		location.BlockID = &blockID
		location.FieldLabel = capfirst(field.Related.VerboseName)
		location.SubFieldLabel = &subField
		location.HelpText = child.HelpText
		if includeWidget {
			location.Widget = widgetFor(child)
		}
		return location, nil

	case schema.FieldText, schema.FieldRichText, schema.FieldReference, schema.FieldSynchronized:
		location.FieldLabel = capfirst(field.Label)
		location.HelpText = field.HelpText
		if includeWidget {
			location.Widget = widgetFor(field)
		}
		return location, nil
	}

	return Location{}, &PathResolutionError{Path: path, Reason: "unhandled field kind"}
}

// widgetFor maps a field descriptor to the widget an override editor shows.
func widgetFor(field schema.Field) Widget {
	switch field.Kind {
	case schema.FieldText, schema.FieldRichText:
		return WidgetText
	case schema.FieldReference:
		switch field.Capability {
		case schema.ReferencePage:
			return WidgetPageReference
		case schema.ReferenceDocument:
			return WidgetDocumentReference
		case schema.ReferenceImage:
			return WidgetImageReference
		}
		return WidgetUnknown
	case schema.FieldStream, schema.FieldChildRelation, schema.FieldSynchronized:
		return WidgetUnknown
	}
	return WidgetUnknown
}

func liveBlock(values schema.SourceValues, field, blockID string) (schema.BlockInstance, bool) {
	if values == nil {
		return schema.BlockInstance{}, false
	}
	for _, instance := range values.StreamBlocks(field) {
		if instance.ID == blockID {
			return instance, true
		}
	}
	return schema.BlockInstance{}, false
}

// capfirst upper-cases the first rune of a display label, leaving the rest
// untouched.
func capfirst(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}
	runes := []rune(trimmed)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
