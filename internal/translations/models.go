// Package translations owns the per (segment, target locale) translation and
// override state and the reconciliation engine that merges manual edits,
// machine translation batches and PO imports into it.
package translations

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/internal/segments"
)

// TranslationType records which channel produced a translation.
type TranslationType string

const (
	TranslationTypeManual  TranslationType = "manual"
	TranslationTypeMachine TranslationType = "machine"
)

// PoFileToolName is recorded as the tool on records created by PO import.
const PoFileToolName = "PO File"

// RecordKey is the update-or-create key for translation records. ObjectID
// and PathID together form the content path identity (paths are only unique
// within one translatable object).
type RecordKey struct {
	ObjectID uuid.UUID
	StringID uuid.UUID
	Locale   string
	PathID   uuid.UUID
}

// Record stores one translation of one source string at one content path
// into one target locale. Exactly one record exists per RecordKey; mutation
// is the only way it changes and deletion removes it entirely.
type Record struct {
	bun.BaseModel `bun:"table:string_translations,alias:st"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ObjectID uuid.UUID `bun:"object_id,notnull,type:uuid" json:"object_id"`
	StringID uuid.UUID `bun:"string_id,notnull,type:uuid" json:"string_id"`
	Locale   string    `bun:"locale,notnull" json:"locale"`
	PathID   uuid.UUID `bun:"path_id,notnull,type:uuid" json:"path_id"`
	Path     string    `bun:"path,notnull" json:"path"`

	// Source is the source text the translation was made from, denormalised
	// so exports can emit entries for records whose segment no longer exists.
	Source string `bun:"source,notnull" json:"source"`
	Data   string `bun:"data,notnull" json:"data"`

	TranslationType  TranslationType `bun:"translation_type,notnull" json:"translation_type"`
	ToolName         string          `bun:"tool_name" json:"tool_name"`
	LastTranslatedBy *uuid.UUID      `bun:"last_translated_by,type:uuid" json:"last_translated_by,omitempty"`

	// HasError and FieldError flag a value that failed validation at the last
	// publish attempt. Data, not an exception: cleared on the next edit.
	HasError   bool   `bun:"has_error,notnull,default:false" json:"has_error"`
	FieldError string `bun:"field_error" json:"field_error"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Key returns the record's composite key.
func (r *Record) Key() RecordKey {
	return RecordKey{
		ObjectID: r.ObjectID,
		StringID: r.StringID,
		Locale:   r.Locale,
		PathID:   r.PathID,
	}
}

// Comment describes how and when the record was produced, for display next
// to the translated value.
func (r *Record) Comment() string {
	const dateFormat = "2 January 2006"
	switch {
	case r.ToolName != "":
		return fmt.Sprintf("Translated with %s on %s", r.ToolName, r.UpdatedAt.Format(dateFormat))
	case r.TranslationType == TranslationTypeMachine:
		return fmt.Sprintf("Machine translated on %s", r.UpdatedAt.Format(dateFormat))
	default:
		return fmt.Sprintf("Translated manually on %s", r.UpdatedAt.Format(dateFormat))
	}
}

// SetFieldError flags the record with a publish-time validation message.
func (r *Record) SetFieldError(message string) {
	r.HasError = true
	r.FieldError = message
}

// OverrideKey is the update-or-create key for overrides.
type OverrideKey struct {
	ObjectID uuid.UUID
	Locale   string
	PathID   uuid.UUID
}

// Override stores a per-locale substitute value for a synchronised non-text
// segment. Same uniqueness and mutation discipline as Record, without the
// translation-type and tool-name provenance.
type Override struct {
	bun.BaseModel `bun:"table:segment_overrides,alias:so"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ObjectID uuid.UUID `bun:"object_id,notnull,type:uuid" json:"object_id"`
	Locale   string    `bun:"locale,notnull" json:"locale"`
	PathID   uuid.UUID `bun:"path_id,notnull,type:uuid" json:"path_id"`
	Path     string    `bun:"path,notnull" json:"path"`

	Data json.RawMessage `bun:"data,type:jsonb,notnull" json:"data"`

	LastTranslatedBy *uuid.UUID `bun:"last_translated_by,type:uuid" json:"last_translated_by,omitempty"`
	HasError         bool       `bun:"has_error,notnull,default:false" json:"has_error"`
	FieldError       string     `bun:"field_error" json:"field_error"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Key returns the override's composite key.
func (o *Override) Key() OverrideKey {
	return OverrideKey{ObjectID: o.ObjectID, Locale: o.Locale, PathID: o.PathID}
}

// Session links one source snapshot to one target locale. A session is
// created when content is submitted for translation and lives until source or
// destination is deleted; stop/restart toggles Enabled instead of deleting.
type Session struct {
	bun.BaseModel `bun:"table:translation_sessions,alias:ts"`

	// ID is the unique identifier embedded in exported PO files so imports
	// can be matched back to the session they came from.
	ID uuid.UUID `bun:",pk,type:uuid" json:"id"`

	ObjectID     uuid.UUID `bun:"object_id,notnull,type:uuid" json:"object_id"`
	SourceLocale string    `bun:"source_locale,notnull" json:"source_locale"`
	TargetLocale string    `bun:"target_locale,notnull" json:"target_locale"`
	Enabled      bool      `bun:"enabled,notnull,default:true" json:"enabled"`

	CreatedAt                 time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	SourceLastUpdatedAt       time.Time  `bun:"source_last_updated_at,nullzero,default:current_timestamp" json:"source_last_updated_at"`
	TranslationsLastUpdatedAt *time.Time `bun:"translations_last_updated_at,nullzero" json:"translations_last_updated_at,omitempty"`
	DestinationLastUpdatedAt  *time.Time `bun:"destination_last_updated_at,nullzero" json:"destination_last_updated_at,omitempty"`
}

// RecordKeyFor derives the record key for a string segment under a session.
func (s *Session) RecordKeyFor(segment segments.StringSegment) RecordKey {
	return RecordKey{
		ObjectID: s.ObjectID,
		StringID: segment.StringID(),
		Locale:   s.TargetLocale,
		PathID:   segment.Path.ID(),
	}
}

// OverrideKeyFor derives the override key for an overridable segment under a
// session.
func (s *Session) OverrideKeyFor(segment segments.OverridableSegment) OverrideKey {
	return OverrideKey{
		ObjectID: s.ObjectID,
		Locale:   s.TargetLocale,
		PathID:   segment.Path.ID(),
	}
}
