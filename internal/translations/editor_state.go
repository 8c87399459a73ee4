package translations

import (
	"context"

	"github.com/goliatone/go-localize/internal/locations"
	"github.com/goliatone/go-localize/internal/schema"
	"github.com/goliatone/go-localize/internal/segments"
)

// StringSegmentState is one string segment joined with its location and the
// current translation record, ready for an editor to render.
type StringSegmentState struct {
	Segment  segments.StringSegment
	Location *locations.Location
	// LocationError carries a path resolution failure as data. The segment is
	// still listed so the editor can show it without a location.
	LocationError string
	Record        *Record
	// Comment describes the record's provenance; empty when untranslated.
	Comment string
}

// OverridableSegmentState is one overridable segment joined with its location
// (widget included) and the current override, if any.
type OverridableSegmentState struct {
	Segment       segments.OverridableSegment
	Location      *locations.Location
	LocationError string
	Override      *Override
}

// EditorState bundles everything a translation editor needs for one object
// and target locale in a single read.
type EditorState struct {
	ObjectID     string
	SourceLocale string
	TargetLocale string
	Strings      []StringSegmentState
	Overridables []OverridableSegmentState
	Total        int
	Translated   int
}

// EditorState assembles the editor projection: every segment with its
// resolved location, the current record or override, and progress counters.
// Per-segment resolution failures never fail the whole call.
func (s *Service) EditorState(ctx context.Context, model *schema.Model, values schema.SourceValues, catalog *segments.Catalog, targetLocale string) (*EditorState, error) {
	records, err := s.records.ListForObjectLocale(ctx, catalog.ObjectID, targetLocale)
	if err != nil {
		return nil, err
	}
	overrides, err := s.overrides.ListForObjectLocale(ctx, catalog.ObjectID, targetLocale)
	if err != nil {
		return nil, err
	}

	recordsByKey := make(map[RecordKey]*Record, len(records))
	for _, record := range records {
		recordsByKey[record.Key()] = record
	}
	overridesByKey := make(map[OverrideKey]*Override, len(overrides))
	for _, override := range overrides {
		overridesByKey[override.Key()] = override
	}

	resolver := locations.NewResolver(locations.WithLogger(s.logger))

	state := &EditorState{
		ObjectID:     catalog.ObjectID.String(),
		SourceLocale: catalog.SourceLocale,
		TargetLocale: targetLocale,
	}

	for _, segment := range catalog.Strings() {
		entry := StringSegmentState{Segment: segment}

		location, err := resolver.Resolve(model, values, segment.Path, false)
		if err != nil {
			entry.LocationError = err.Error()
		} else {
			entry.Location = &location
		}

		key := RecordKey{
			ObjectID: catalog.ObjectID,
			StringID: segment.StringID(),
			Locale:   targetLocale,
			PathID:   segment.Path.ID(),
		}
		if record, ok := recordsByKey[key]; ok {
			entry.Record = record
			entry.Comment = record.Comment()
			if !record.HasError {
				state.Translated++
			}
		}

		state.Strings = append(state.Strings, entry)
	}
	state.Total = len(state.Strings)

	for _, segment := range catalog.Overridables() {
		entry := OverridableSegmentState{Segment: segment}

		location, err := resolver.Resolve(model, values, segment.Path, true)
		if err != nil {
			entry.LocationError = err.Error()
		} else {
			entry.Location = &location
		}

		key := OverrideKey{
			ObjectID: catalog.ObjectID,
			Locale:   targetLocale,
			PathID:   segment.Path.ID(),
		}
		if override, ok := overridesByKey[key]; ok {
			entry.Override = override
		}

		state.Overridables = append(state.Overridables, entry)
	}

	return state, nil
}
