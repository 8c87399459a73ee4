package translations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecordRepository stores translation records in-memory. It guards all
// state with a single mutex so upserts are linearizable under RecordKey.
type MemoryRecordRepository struct {
	mu      sync.Mutex
	records map[RecordKey]*Record
}

// NewMemoryRecordRepository constructs an empty record repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{records: map[RecordKey]*Record{}}
}

// Get returns the record stored for key or ErrRecordNotFound.
func (r *MemoryRecordRepository) Get(_ context.Context, key RecordKey) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(record), nil
}

// ListForObjectLocale returns every record for one object and target locale.
func (r *MemoryRecordRepository) ListForObjectLocale(_ context.Context, objectID uuid.UUID, locale string) ([]*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Record{}
	for key, record := range r.records {
		if key.ObjectID == objectID && key.Locale == locale {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

// Upsert creates or updates the record stored under its key.
func (r *MemoryRecordRepository) Upsert(_ context.Context, record *Record) (*Record, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := record.Key()
	existing, ok := r.records[key]
	if !ok {
		created := cloneRecord(record)
		if created.ID == uuid.Nil {
			created.ID = uuid.New()
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = created.UpdatedAt
		}
		r.records[key] = created
		return cloneRecord(created), true, nil
	}

	updated := cloneRecord(record)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	r.records[key] = updated
	return cloneRecord(updated), false, nil
}

// Delete removes the record for key, returning it, or ErrRecordNotFound.
func (r *MemoryRecordRepository) Delete(_ context.Context, key RecordKey) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	delete(r.records, key)
	return cloneRecord(record), nil
}

// CreateBatch inserts all records or none. Duplicate keys, against existing
// state or within the batch, reject the whole batch before any write.
func (r *MemoryRecordRepository) CreateBatch(_ context.Context, records []*Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[RecordKey]struct{}{}
	for _, record := range records {
		key := record.Key()
		if _, exists := r.records[key]; exists {
			return fmt.Errorf("%w: %s at %s", ErrDuplicateRecord, key.Locale, record.Path)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s at %s", ErrDuplicateRecord, key.Locale, record.Path)
		}
		seen[key] = struct{}{}
	}

	for _, record := range records {
		created := cloneRecord(record)
		if created.ID == uuid.Nil {
			created.ID = uuid.New()
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = created.UpdatedAt
		}
		r.records[created.Key()] = created
	}
	return nil
}

// MemoryOverrideRepository stores overrides in-memory.
type MemoryOverrideRepository struct {
	mu        sync.Mutex
	overrides map[OverrideKey]*Override
}

// NewMemoryOverrideRepository constructs an empty override repository.
func NewMemoryOverrideRepository() *MemoryOverrideRepository {
	return &MemoryOverrideRepository{overrides: map[OverrideKey]*Override{}}
}

// Get returns the override stored for key or ErrOverrideNotFound.
func (r *MemoryOverrideRepository) Get(_ context.Context, key OverrideKey) (*Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	override, ok := r.overrides[key]
	if !ok {
		return nil, ErrOverrideNotFound
	}
	return cloneOverride(override), nil
}

// ListForObjectLocale returns every override for one object and locale.
func (r *MemoryOverrideRepository) ListForObjectLocale(_ context.Context, objectID uuid.UUID, locale string) ([]*Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Override{}
	for key, override := range r.overrides {
		if key.ObjectID == objectID && key.Locale == locale {
			out = append(out, cloneOverride(override))
		}
	}
	return out, nil
}

// Upsert creates or updates the override stored under its key.
func (r *MemoryOverrideRepository) Upsert(_ context.Context, override *Override) (*Override, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := override.Key()
	existing, ok := r.overrides[key]
	if !ok {
		created := cloneOverride(override)
		if created.ID == uuid.Nil {
			created.ID = uuid.New()
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = created.UpdatedAt
		}
		r.overrides[key] = created
		return cloneOverride(created), true, nil
	}

	updated := cloneOverride(override)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	r.overrides[key] = updated
	return cloneOverride(updated), false, nil
}

// Delete removes the override for key, returning it, or ErrOverrideNotFound.
func (r *MemoryOverrideRepository) Delete(_ context.Context, key OverrideKey) (*Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	override, ok := r.overrides[key]
	if !ok {
		return nil, ErrOverrideNotFound
	}
	delete(r.overrides, key)
	return cloneOverride(override), nil
}

// MemorySessionRepository stores sessions in-memory.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewMemorySessionRepository constructs an empty session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[uuid.UUID]*Session{}}
}

// Get returns the session with the given id or ErrSessionNotFound.
func (r *MemorySessionRepository) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// GetForObjectLocale returns the session for one object and target locale.
func (r *MemorySessionRepository) GetForObjectLocale(_ context.Context, objectID uuid.UUID, targetLocale string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.ObjectID == objectID && session.TargetLocale == targetLocale {
			return cloneSession(session), nil
		}
	}
	return nil, ErrSessionNotFound
}

// Upsert creates or updates a session keyed by its id. A new session that
// collides with an existing one for the same (object, target locale) returns
// that session instead.
func (r *MemorySessionRepository) Upsert(_ context.Context, session *Session) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneSession(session)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if _, exists := r.sessions[stored.ID]; exists {
		r.sessions[stored.ID] = stored
		return cloneSession(stored), false, nil
	}
	for _, existing := range r.sessions {
		if existing.ObjectID == stored.ObjectID && existing.TargetLocale == stored.TargetLocale {
			return cloneSession(existing), false, nil
		}
	}
	r.sessions[stored.ID] = stored
	return cloneSession(stored), true, nil
}

// SetEnabled toggles the enabled flag on an existing session.
func (r *MemorySessionRepository) SetEnabled(_ context.Context, id uuid.UUID, enabled bool) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.Enabled = enabled
	return cloneSession(session), nil
}

// TouchTranslations stamps translations_last_updated_at on the session.
func (r *MemorySessionRepository) TouchTranslations(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	touched := at
	session.TranslationsLastUpdatedAt = &touched
	return nil
}

func cloneRecord(record *Record) *Record {
	if record == nil {
		return nil
	}
	copied := *record
	if record.LastTranslatedBy != nil {
		actor := *record.LastTranslatedBy
		copied.LastTranslatedBy = &actor
	}
	return &copied
}

func cloneOverride(override *Override) *Override {
	if override == nil {
		return nil
	}
	copied := *override
	if override.LastTranslatedBy != nil {
		actor := *override.LastTranslatedBy
		copied.LastTranslatedBy = &actor
	}
	if override.Data != nil {
		copied.Data = append([]byte(nil), override.Data...)
	}
	return &copied
}

func cloneSession(session *Session) *Session {
	if session == nil {
		return nil
	}
	copied := *session
	if session.TranslationsLastUpdatedAt != nil {
		at := *session.TranslationsLastUpdatedAt
		copied.TranslationsLastUpdatedAt = &at
	}
	if session.DestinationLastUpdatedAt != nil {
		at := *session.DestinationLastUpdatedAt
		copied.DestinationLastUpdatedAt = &at
	}
	return &copied
}
