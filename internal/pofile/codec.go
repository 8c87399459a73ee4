package pofile

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-localize/internal/jobs"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/segments"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// TranslationIDHeader carries the session id inside exported documents so
// imports can be matched back to the session they were exported from.
const TranslationIDHeader = "X-WagtailLocalize-TranslationID"

// MachineTranslatedComment marks entries whose current value came from a
// machine translation backend.
const MachineTranslatedComment = "machine translated"

// WarningKind classifies entries the import skipped.
type WarningKind string

const (
	// WarningUnknownString marks an entry whose source text no longer exists
	// anywhere in the catalog.
	WarningUnknownString WarningKind = "unknown_string"
	// WarningUnknownContext marks an entry whose content path no longer
	// exists in the catalog.
	WarningUnknownContext WarningKind = "unknown_context"
	// WarningStringNotUsedInContext marks an entry whose text and path both
	// exist but never together.
	WarningStringNotUsedInContext WarningKind = "string_not_used_in_context"
)

// ImportWarning describes one skipped entry.
type ImportWarning struct {
	Kind WarningKind
	Path string
	Text string
}

// ImportResult summarises an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Warnings []ImportWarning
}

// RecordUpserter is the slice of the reconciliation service the codec needs
// to store imported entries.
type RecordUpserter interface {
	UpsertImported(ctx context.Context, req translations.UpsertTranslationRequest) (translations.RecordResult, error)
}

// Option mutates the codec configuration.
type Option func(*Codec)

// WithAuditRecorder sets the audit sink for completed imports.
func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Codec) {
		if recorder != nil {
			c.audit = recorder
		}
	}
}

// WithLogger overrides the codec logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for export headers.
func WithClock(clock func() time.Time) Option {
	return func(c *Codec) {
		if clock != nil {
			c.now = clock
		}
	}
}

// Codec converts between translation state and PO documents.
type Codec struct {
	upserter RecordUpserter
	audit    jobs.AuditRecorder
	logger   interfaces.Logger
	now      func() time.Time
}

// NewCodec constructs a codec writing imports through upserter.
func NewCodec(upserter RecordUpserter, opts ...Option) *Codec {
	codec := &Codec{
		upserter: upserter,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec
}

// Export renders the catalog and its current records as a PO document.
// Entries follow catalog order with msgctxt carrying the content path.
// Records whose segment no longer exists in the catalog are appended as
// obsolete entries so external tools can keep their translation memory.
func (c *Codec) Export(session *translations.Session, catalog *segments.Catalog, records []*translations.Record) *File {
	file := NewFile()
	file.SetHeaderField("POT-Creation-Date", c.now().UTC().Format("2006-01-02 15:04+0000"))
	file.SetHeaderField("MIME-Version", "1.0")
	file.SetHeaderField("Content-Type", "text/plain; charset=utf-8")
	file.SetHeaderField(TranslationIDHeader, session.ID.String())

	byKey := make(map[translations.RecordKey]*translations.Record, len(records))
	for _, record := range records {
		byKey[record.Key()] = record
	}

	used := make(map[translations.RecordKey]struct{})
	for _, segment := range catalog.Strings() {
		key := session.RecordKeyFor(segment)
		entry := &Entry{
			MsgCtxt: string(segment.Path),
			MsgID:   segment.Text,
		}
		if record, ok := byKey[key]; ok {
			used[key] = struct{}{}
			entry.MsgStr = record.Data
			if record.TranslationType == translations.TranslationTypeMachine {
				entry.TranslatorComments = []string{MachineTranslatedComment}
			}
		}
		file.Entries = append(file.Entries, entry)
	}

	for _, record := range records {
		if _, ok := used[record.Key()]; ok {
			continue
		}
		file.Entries = append(file.Entries, &Entry{
			MsgCtxt:  record.Path,
			MsgID:    record.Source,
			MsgStr:   record.Data,
			Obsolete: true,
		})
	}

	return file
}

// Import parses r and feeds its entries back into translation state. A file
// that fails to parse or that carries the wrong translation id changes
// nothing. Entries that no longer match the catalog are skipped with a
// warning; empty and obsolete entries are skipped silently. Each matched
// entry is upserted on its own, so a storage failure midway leaves earlier
// entries in place.
func (c *Codec) Import(ctx context.Context, session *translations.Session, catalog *segments.Catalog, r io.Reader, actor *uuid.UUID) (ImportResult, error) {
	result := ImportResult{}

	file, err := Parse(r)
	if err != nil {
		return result, &InvalidPoFormatError{Err: err}
	}

	translationID := file.HeaderField(TranslationIDHeader)
	if translationID != session.ID.String() {
		return result, &TranslationMismatchError{
			Expected: session.ID.String(),
			Got:      translationID,
		}
	}

	for _, entry := range file.Entries {
		if entry.Obsolete || entry.MsgStr == "" {
			result.Skipped++
			continue
		}

		path := segments.ContentPath(entry.MsgCtxt)
		if !catalog.HasText(entry.MsgID) {
			result.Skipped++
			result.Warnings = append(result.Warnings, ImportWarning{
				Kind: WarningUnknownString,
				Path: entry.MsgCtxt,
				Text: entry.MsgID,
			})
			continue
		}
		if !catalog.HasPath(path) {
			result.Skipped++
			result.Warnings = append(result.Warnings, ImportWarning{
				Kind: WarningUnknownContext,
				Path: entry.MsgCtxt,
				Text: entry.MsgID,
			})
			continue
		}
		segment, ok := catalog.StringAt(path, entry.MsgID)
		if !ok {
			result.Skipped++
			result.Warnings = append(result.Warnings, ImportWarning{
				Kind: WarningStringNotUsedInContext,
				Path: entry.MsgCtxt,
				Text: entry.MsgID,
			})
			continue
		}

		_, err := c.upserter.UpsertImported(ctx, translations.UpsertTranslationRequest{
			Session: session,
			Segment: segment,
			Data:    entry.MsgStr,
			Actor:   actor,
		})
		if err != nil {
			return result, err
		}
		result.Imported++
	}

	c.logger.Info("po import complete",
		"session_id", session.ID.String(),
		"imported", result.Imported,
		"skipped", result.Skipped,
		"warnings", len(result.Warnings),
	)
	if c.audit != nil {
		event := jobs.AuditEvent{
			EntityType: "session",
			EntityID:   session.ID.String(),
			Action:     "po_imported",
			OccurredAt: c.now().UTC(),
			Metadata: map[string]any{
				"imported": result.Imported,
				"skipped":  result.Skipped,
				"warnings": len(result.Warnings),
			},
		}
		if err := c.audit.Record(ctx, event); err != nil {
			c.logger.Warn("audit record failed", "action", "po_imported", "error", err)
		}
	}

	return result, nil
}
