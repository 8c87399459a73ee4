package translations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound indicates no translation record exists for a key.
	ErrRecordNotFound = errors.New("translations: record not found")
	// ErrOverrideNotFound indicates no override exists for a key.
	ErrOverrideNotFound = errors.New("translations: override not found")
	// ErrSessionNotFound indicates an unknown translation session.
	ErrSessionNotFound = errors.New("translations: session not found")
	// ErrDuplicateRecord indicates a batch insert collided with an existing
	// record for the same key.
	ErrDuplicateRecord = errors.New("translations: record already exists")
)

// RecordRepository abstracts storage for translation records. Upsert must be
// linearizable under RecordKey: concurrent upserts to the same key must never
// produce duplicates, and the created flag must reflect true insertion order.
type RecordRepository interface {
	Get(ctx context.Context, key RecordKey) (*Record, error)
	ListForObjectLocale(ctx context.Context, objectID uuid.UUID, locale string) ([]*Record, error)
	Upsert(ctx context.Context, record *Record) (*Record, bool, error)
	Delete(ctx context.Context, key RecordKey) (*Record, error)
	// CreateBatch inserts records atomically: either every record is created
	// or none are. A key collision fails the whole batch.
	CreateBatch(ctx context.Context, records []*Record) error
}

// OverrideRepository abstracts storage for segment overrides.
type OverrideRepository interface {
	Get(ctx context.Context, key OverrideKey) (*Override, error)
	ListForObjectLocale(ctx context.Context, objectID uuid.UUID, locale string) ([]*Override, error)
	Upsert(ctx context.Context, override *Override) (*Override, bool, error)
	Delete(ctx context.Context, key OverrideKey) (*Override, error)
}

// SessionRepository abstracts storage for translation sessions. At most one
// session exists per (object, target locale): Upsert of a new session that
// collides with an existing pair returns the existing session with created
// false instead of inserting a second one.
type SessionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	GetForObjectLocale(ctx context.Context, objectID uuid.UUID, targetLocale string) (*Session, error)
	Upsert(ctx context.Context, session *Session) (*Session, bool, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*Session, error)
	// TouchTranslations records that translation state changed under the
	// session at the given time.
	TouchTranslations(ctx context.Context, id uuid.UUID, at time.Time) error
}
