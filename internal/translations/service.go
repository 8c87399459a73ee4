package translations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-localize/internal/jobs"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/segments"
	"github.com/goliatone/go-localize/internal/translator"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Audit actions recorded by the service.
const (
	auditTranslationCreated = "translation_created"
	auditTranslationUpdated = "translation_updated"
	auditTranslationDeleted = "translation_deleted"
	auditOverrideCreated    = "override_created"
	auditOverrideUpdated    = "override_updated"
	auditOverrideDeleted    = "override_deleted"
	auditMachineTranslated  = "machine_translated"
	auditSessionStopped     = "session_stopped"
	auditSessionRestarted   = "session_restarted"
)

// Status display values for a session.
const (
	StatusUpToDate = "Up to date"
	StatusWaiting  = "Waiting for translations"
)

// Option mutates the service configuration.
type Option func(*Service)

// WithTranslator sets the default machine translation backend.
func WithTranslator(mt translator.Translator) Option {
	return func(s *Service) {
		if mt != nil {
			s.translator = mt
		}
	}
}

// WithAuditRecorder sets the audit sink for translation mutations.
func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, used by tests for stable timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Service reconciles translation state: manual edits, machine translation
// batches and imported entries all converge on the same per-key records.
type Service struct {
	records    RecordRepository
	overrides  OverrideRepository
	sessions   SessionRepository
	translator translator.Translator
	audit      jobs.AuditRecorder
	logger     interfaces.Logger
	now        func() time.Time
}

// NewService constructs the reconciliation service.
func NewService(records RecordRepository, overrides OverrideRepository, sessions SessionRepository, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, errors.New("translations: record repository is required")
	}
	if overrides == nil {
		return nil, errors.New("translations: override repository is required")
	}
	if sessions == nil {
		return nil, errors.New("translations: session repository is required")
	}

	service := &Service{
		records:   records,
		overrides: overrides,
		sessions:  sessions,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// RecordResult reports the stored record and whether the write created it.
type RecordResult struct {
	Record  *Record
	Created bool
}

// OverrideResult reports the stored override and whether the write created it.
type OverrideResult struct {
	Override *Override
	Created  bool
}

// UpsertTranslationRequest carries one manual translation write.
type UpsertTranslationRequest struct {
	Session *Session
	Segment segments.StringSegment
	Data    string
	Actor   *uuid.UUID
}

// Validate ensures the request carries the required fields.
func (r UpsertTranslationRequest) Validate() error {
	errs := validation.Errors{}
	if r.Session == nil {
		errs["session"] = validation.NewError("localize.translations.session_required", "session is required")
	} else if r.Session.TargetLocale == "" {
		errs["session"] = validation.NewError("localize.translations.target_locale_required", "session target locale is required")
	}
	if r.Segment.Path == "" {
		errs["segment"] = validation.NewError("localize.translations.path_required", "segment path is required")
	} else if r.Segment.Text == "" {
		errs["segment"] = validation.NewError("localize.translations.text_required", "segment text is required")
	}
	if r.Data == "" {
		errs["data"] = validation.NewError("localize.translations.data_required", "translated data is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertTranslation stores a manual translation for one segment, creating or
// replacing the record under its key. Error flags from a previous failed
// publish are cleared.
func (s *Service) UpsertTranslation(ctx context.Context, req UpsertTranslationRequest) (RecordResult, error) {
	return s.upsertRecord(ctx, req, "")
}

// UpsertImported stores a translation that arrived through a PO file import.
// Same semantics as UpsertTranslation with the import tool recorded.
func (s *Service) UpsertImported(ctx context.Context, req UpsertTranslationRequest) (RecordResult, error) {
	return s.upsertRecord(ctx, req, PoFileToolName)
}

func (s *Service) upsertRecord(ctx context.Context, req UpsertTranslationRequest, tool string) (RecordResult, error) {
	if err := req.Validate(); err != nil {
		return RecordResult{}, wrapValidationError(err)
	}

	now := s.now().UTC()
	record := &Record{
		ObjectID:         req.Session.ObjectID,
		StringID:         req.Segment.StringID(),
		Locale:           req.Session.TargetLocale,
		PathID:           req.Segment.Path.ID(),
		Path:             string(req.Segment.Path),
		Source:           req.Segment.Text,
		Data:             req.Data,
		TranslationType:  TranslationTypeManual,
		ToolName:         tool,
		LastTranslatedBy: req.Actor,
		UpdatedAt:        now,
	}

	stored, created, err := s.records.Upsert(ctx, record)
	if err != nil {
		return RecordResult{}, err
	}

	logging.WithTranslationContext(s.logger, stored.Path, stored.Locale, stored.ToolName).
		Debug("translation stored", "created", created)

	action := auditTranslationUpdated
	if created {
		action = auditTranslationCreated
	}
	s.recordAudit(ctx, "translation", stored.ID.String(), action, map[string]any{
		"object_id": stored.ObjectID.String(),
		"locale":    stored.Locale,
		"path":      stored.Path,
		"tool_name": stored.ToolName,
	})
	s.touchSession(ctx, req.Session.ID, now)

	return RecordResult{Record: stored, Created: created}, nil
}

// Records returns every stored record for one object and target locale,
// used by PO export and host read paths.
func (s *Service) Records(ctx context.Context, objectID uuid.UUID, locale string) ([]*Record, error) {
	return s.records.ListForObjectLocale(ctx, objectID, locale)
}

// DeleteTranslation removes the record for key. A missing record is a
// successful no-op reported through the bool, never an error.
func (s *Service) DeleteTranslation(ctx context.Context, key RecordKey) (*Record, bool, error) {
	record, err := s.records.Delete(ctx, key)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.recordAudit(ctx, "translation", record.ID.String(), auditTranslationDeleted, map[string]any{
		"object_id": record.ObjectID.String(),
		"locale":    record.Locale,
		"path":      record.Path,
	})
	s.touchSessionForObject(ctx, key.ObjectID, key.Locale)
	return record, true, nil
}

// UpsertOverrideRequest carries one override write for a synchronised
// segment.
type UpsertOverrideRequest struct {
	Session *Session
	Segment segments.OverridableSegment
	Data    json.RawMessage
	Actor   *uuid.UUID
}

// Validate ensures the request carries the required fields.
func (r UpsertOverrideRequest) Validate() error {
	errs := validation.Errors{}
	if r.Session == nil {
		errs["session"] = validation.NewError("localize.translations.session_required", "session is required")
	} else if r.Session.TargetLocale == "" {
		errs["session"] = validation.NewError("localize.translations.target_locale_required", "session target locale is required")
	}
	if r.Segment.Path == "" {
		errs["segment"] = validation.NewError("localize.translations.path_required", "segment path is required")
	}
	if len(r.Data) == 0 {
		errs["data"] = validation.NewError("localize.translations.data_required", "override data is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertOverride stores a per-locale substitute value for an overridable
// segment.
func (s *Service) UpsertOverride(ctx context.Context, req UpsertOverrideRequest) (OverrideResult, error) {
	if err := req.Validate(); err != nil {
		return OverrideResult{}, wrapValidationError(err)
	}

	now := s.now().UTC()
	override := &Override{
		ObjectID:         req.Session.ObjectID,
		Locale:           req.Session.TargetLocale,
		PathID:           req.Segment.Path.ID(),
		Path:             string(req.Segment.Path),
		Data:             req.Data,
		LastTranslatedBy: req.Actor,
		UpdatedAt:        now,
	}

	stored, created, err := s.overrides.Upsert(ctx, override)
	if err != nil {
		return OverrideResult{}, err
	}

	logging.WithTranslationContext(s.logger, stored.Path, stored.Locale, "").
		Debug("override stored", "created", created)

	action := auditOverrideUpdated
	if created {
		action = auditOverrideCreated
	}
	s.recordAudit(ctx, "override", stored.ID.String(), action, map[string]any{
		"object_id": stored.ObjectID.String(),
		"locale":    stored.Locale,
		"path":      stored.Path,
	})
	s.touchSession(ctx, req.Session.ID, now)

	return OverrideResult{Override: stored, Created: created}, nil
}

// DeleteOverride removes the override for key. Missing overrides follow the
// same no-op discipline as DeleteTranslation.
func (s *Service) DeleteOverride(ctx context.Context, key OverrideKey) (*Override, bool, error) {
	override, err := s.overrides.Delete(ctx, key)
	if errors.Is(err, ErrOverrideNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.recordAudit(ctx, "override", override.ID.String(), auditOverrideDeleted, map[string]any{
		"object_id": override.ObjectID.String(),
		"locale":    override.Locale,
		"path":      override.Path,
	})
	s.touchSessionForObject(ctx, key.ObjectID, key.Locale)
	return override, true, nil
}

// Progress counts translation completeness for one catalog and target locale.
// Only string segments count; an overridable segment never affects progress.
// Identical texts at different paths are counted independently, and a record
// flagged with a field error does not count as translated.
func (s *Service) Progress(ctx context.Context, catalog *segments.Catalog, locale string) (int, int, error) {
	records, err := s.records.ListForObjectLocale(ctx, catalog.ObjectID, locale)
	if err != nil {
		return 0, 0, err
	}

	byKey := make(map[RecordKey]*Record, len(records))
	for _, record := range records {
		byKey[record.Key()] = record
	}

	strings := catalog.Strings()
	translated := 0
	for _, segment := range strings {
		key := RecordKey{
			ObjectID: catalog.ObjectID,
			StringID: segment.StringID(),
			Locale:   locale,
			PathID:   segment.Path.ID(),
		}
		if record, ok := byKey[key]; ok && !record.HasError {
			translated++
		}
	}
	return len(strings), translated, nil
}

// MachineTranslate fills every untranslated string segment of the catalog
// through the given backend (or the configured default when mt is nil).
// Existing records are never overwritten. Segments sharing identical source
// text are translated once and fanned out to every path; the whole batch is
// written atomically, so a vendor failure leaves no partial state. Returns
// the number of records created.
func (s *Service) MachineTranslate(ctx context.Context, catalog *segments.Catalog, targetLocale string, mt translator.Translator) (int, error) {
	if mt == nil {
		mt = s.translator
	}
	if mt == nil {
		return 0, ErrTranslatorRequired
	}
	if !mt.CanTranslate(catalog.SourceLocale, targetLocale) {
		return 0, &UnsupportedLocalePairError{
			Translator:   mt.DisplayName(),
			SourceLocale: catalog.SourceLocale,
			TargetLocale: targetLocale,
		}
	}

	existing, err := s.records.ListForObjectLocale(ctx, catalog.ObjectID, targetLocale)
	if err != nil {
		return 0, err
	}
	taken := make(map[RecordKey]struct{}, len(existing))
	for _, record := range existing {
		taken[record.Key()] = struct{}{}
	}

	var pending []segments.StringSegment
	var texts []string
	seen := map[string]struct{}{}
	for _, segment := range catalog.Strings() {
		key := RecordKey{
			ObjectID: catalog.ObjectID,
			StringID: segment.StringID(),
			Locale:   targetLocale,
			PathID:   segment.Path.ID(),
		}
		if _, ok := taken[key]; ok {
			continue
		}
		pending = append(pending, segment)
		if _, dup := seen[segment.Text]; !dup {
			seen[segment.Text] = struct{}{}
			texts = append(texts, segment.Text)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	s.logger.Debug("machine translating segments",
		"object_id", catalog.ObjectID.String(),
		"locale", targetLocale,
		"segments", len(pending),
		"unique_strings", len(texts),
		"translator", mt.DisplayName(),
	)

	translated, err := mt.Translate(ctx, catalog.SourceLocale, targetLocale, texts)
	if err != nil {
		return 0, fmt.Errorf("translations: machine translate: %w", err)
	}

	now := s.now().UTC()
	records := make([]*Record, 0, len(pending))
	for _, segment := range pending {
		data, ok := translated[segment.Text]
		if !ok {
			return 0, fmt.Errorf("translations: %s returned no translation for %q", mt.DisplayName(), segment.Text)
		}
		records = append(records, &Record{
			ObjectID:        catalog.ObjectID,
			StringID:        segment.StringID(),
			Locale:          targetLocale,
			PathID:          segment.Path.ID(),
			Path:            string(segment.Path),
			Source:          segment.Text,
			Data:            data,
			TranslationType: TranslationTypeMachine,
			ToolName:        mt.DisplayName(),
			UpdatedAt:       now,
		})
	}

	if err := s.records.CreateBatch(ctx, records); err != nil {
		return 0, err
	}

	s.recordAudit(ctx, "object", catalog.ObjectID.String(), auditMachineTranslated, map[string]any{
		"locale":     targetLocale,
		"translator": mt.DisplayName(),
		"records":    len(records),
	})
	s.touchSessionForObject(ctx, catalog.ObjectID, targetLocale)

	return len(records), nil
}

// EnsureSession returns the session for the catalog's object and target
// locale, creating an enabled one when none exists.
func (s *Service) EnsureSession(ctx context.Context, catalog *segments.Catalog, targetLocale string) (*Session, bool, error) {
	session, err := s.sessions.GetForObjectLocale(ctx, catalog.ObjectID, targetLocale)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, false, err
	}

	now := s.now().UTC()
	created := &Session{
		ID:                  uuid.New(),
		ObjectID:            catalog.ObjectID,
		SourceLocale:        catalog.SourceLocale,
		TargetLocale:        targetLocale,
		Enabled:             true,
		CreatedAt:           now,
		SourceLastUpdatedAt: now,
	}
	stored, inserted, err := s.sessions.Upsert(ctx, created)
	if err != nil {
		return nil, false, err
	}
	return stored, inserted, nil
}

// StopSession disables the session. Translation records survive; the session
// simply stops accepting new work until restarted.
func (s *Service) StopSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.sessions.SetEnabled(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "session", id.String(), auditSessionStopped, nil)
	return session, nil
}

// RestartSession re-enables a stopped session.
func (s *Service) RestartSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.sessions.SetEnabled(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "session", id.String(), auditSessionRestarted, nil)
	return session, nil
}

// StatusDisplay renders the session's completeness against the catalog.
func (s *Service) StatusDisplay(ctx context.Context, catalog *segments.Catalog, targetLocale string) (string, error) {
	total, translated, err := s.Progress(ctx, catalog, targetLocale)
	if err != nil {
		return "", err
	}
	if translated >= total {
		return StatusUpToDate, nil
	}
	return StatusWaiting, nil
}

func (s *Service) recordAudit(ctx context.Context, entityType, entityID, action string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	event := jobs.AuditEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OccurredAt: s.now().UTC(),
		Metadata:   metadata,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn("audit record failed", "action", action, "entity_id", entityID, "error", err)
	}
}

func (s *Service) touchSession(ctx context.Context, id uuid.UUID, at time.Time) {
	if id == uuid.Nil {
		return
	}
	if err := s.sessions.TouchTranslations(ctx, id, at); err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.logger.Warn("session touch failed", "session_id", id.String(), "error", err)
	}
}

func (s *Service) touchSessionForObject(ctx context.Context, objectID uuid.UUID, locale string) {
	session, err := s.sessions.GetForObjectLocale(ctx, objectID, locale)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("session lookup failed", "object_id", objectID.String(), "locale", locale, "error", err)
		}
		return
	}
	s.touchSession(ctx, session.ID, s.now().UTC())
}
