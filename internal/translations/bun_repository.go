package translations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var errDatabaseRequired = errors.New("translations: bun repository requires a database")

// BunRecordRepository persists translation records using a Bun-backed
// database.
type BunRecordRepository struct {
	db *bun.DB
}

// NewBunRecordRepository constructs a Bun-backed record repository.
func NewBunRecordRepository(db *bun.DB) *BunRecordRepository {
	return &BunRecordRepository{db: db}
}

// Get returns the record for key.
func (r *BunRecordRepository) Get(ctx context.Context, key RecordKey) (*Record, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	var record Record
	err := r.db.NewSelect().Model(&record).
		Where("object_id = ?", key.ObjectID).
		Where("string_id = ?", key.StringID).
		Where("locale = ?", key.Locale).
		Where("path_id = ?", key.PathID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("translations: select record: %w", err)
	}
	return &record, nil
}

// ListForObjectLocale returns every record for one object and target locale.
func (r *BunRecordRepository) ListForObjectLocale(ctx context.Context, objectID uuid.UUID, locale string) ([]*Record, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	records := []*Record{}
	err := r.db.NewSelect().Model(&records).
		Where("object_id = ?", objectID).
		Where("locale = ?", locale).
		Order("path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("translations: list records: %w", err)
	}
	return records, nil
}

// Upsert creates or updates the record under its composite key. The insert
// resolves against the unique key index, so concurrent upserts to the same
// key cannot both create a row; the loser lands on the conflict branch. The
// returned row keeps the existing id and created_at on update.
func (r *BunRecordRepository) Upsert(ctx context.Context, record *Record) (*Record, bool, error) {
	if r.db == nil {
		return nil, false, errDatabaseRequired
	}

	stored := *record
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	candidate := stored.ID

	_, err := r.db.NewInsert().Model(&stored).
		On("CONFLICT (object_id, string_id, locale, path_id) DO UPDATE").
		Set("source = EXCLUDED.source").
		Set("data = EXCLUDED.data").
		Set("translation_type = EXCLUDED.translation_type").
		Set("tool_name = EXCLUDED.tool_name").
		Set("last_translated_by = EXCLUDED.last_translated_by").
		Set("has_error = EXCLUDED.has_error").
		Set("field_error = EXCLUDED.field_error").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("translations: upsert record: %w", err)
	}
	return &stored, stored.ID == candidate, nil
}

// Delete removes the record for key, returning the removed row.
func (r *BunRecordRepository) Delete(ctx context.Context, key RecordKey) (*Record, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	record, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("translations: delete record: %w", err)
	}
	return record, nil
}

// CreateBatch inserts every record inside one transaction. A key collision
// rolls the whole batch back.
func (r *BunRecordRepository) CreateBatch(ctx context.Context, records []*Record) error {
	if r.db == nil {
		return errDatabaseRequired
	}
	if len(records) == 0 {
		return nil
	}
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, record := range records {
			exists, err := tx.NewSelect().Model((*Record)(nil)).
				Where("object_id = ?", record.ObjectID).
				Where("string_id = ?", record.StringID).
				Where("locale = ?", record.Locale).
				Where("path_id = ?", record.PathID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s at %s", ErrDuplicateRecord, record.Locale, record.Path)
			}

			stored := *record
			if stored.ID == uuid.Nil {
				stored.ID = uuid.New()
			}
			if stored.CreatedAt.IsZero() {
				stored.CreatedAt = stored.UpdatedAt
			}
			if _, err := tx.NewInsert().Model(&stored).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return err
		}
		return fmt.Errorf("translations: create batch: %w", err)
	}
	return nil
}

// BunOverrideRepository persists segment overrides using a Bun-backed
// database.
type BunOverrideRepository struct {
	db *bun.DB
}

// NewBunOverrideRepository constructs a Bun-backed override repository.
func NewBunOverrideRepository(db *bun.DB) *BunOverrideRepository {
	return &BunOverrideRepository{db: db}
}

// Get returns the override for key.
func (r *BunOverrideRepository) Get(ctx context.Context, key OverrideKey) (*Override, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	var override Override
	err := r.db.NewSelect().Model(&override).
		Where("object_id = ?", key.ObjectID).
		Where("locale = ?", key.Locale).
		Where("path_id = ?", key.PathID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("translations: select override: %w", err)
	}
	return &override, nil
}

// ListForObjectLocale returns every override for one object and locale.
func (r *BunOverrideRepository) ListForObjectLocale(ctx context.Context, objectID uuid.UUID, locale string) ([]*Override, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	overrides := []*Override{}
	err := r.db.NewSelect().Model(&overrides).
		Where("object_id = ?", objectID).
		Where("locale = ?", locale).
		Order("path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("translations: list overrides: %w", err)
	}
	return overrides, nil
}

// Upsert creates or updates the override under its composite key. Same
// conflict discipline as record upserts.
func (r *BunOverrideRepository) Upsert(ctx context.Context, override *Override) (*Override, bool, error) {
	if r.db == nil {
		return nil, false, errDatabaseRequired
	}

	stored := *override
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	candidate := stored.ID

	_, err := r.db.NewInsert().Model(&stored).
		On("CONFLICT (object_id, locale, path_id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("last_translated_by = EXCLUDED.last_translated_by").
		Set("has_error = EXCLUDED.has_error").
		Set("field_error = EXCLUDED.field_error").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("translations: upsert override: %w", err)
	}
	return &stored, stored.ID == candidate, nil
}

// Delete removes the override for key, returning the removed row.
func (r *BunOverrideRepository) Delete(ctx context.Context, key OverrideKey) (*Override, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	override, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.NewDelete().Model(override).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("translations: delete override: %w", err)
	}
	return override, nil
}

// BunSessionRepository persists translation sessions using a Bun-backed
// database.
type BunSessionRepository struct {
	db *bun.DB
}

// NewBunSessionRepository constructs a Bun-backed session repository.
func NewBunSessionRepository(db *bun.DB) *BunSessionRepository {
	return &BunSessionRepository{db: db}
}

// Get returns the session with the given id.
func (r *BunSessionRepository) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	var session Session
	err := r.db.NewSelect().Model(&session).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("translations: select session: %w", err)
	}
	return &session, nil
}

// GetForObjectLocale returns the session for one object and target locale.
func (r *BunSessionRepository) GetForObjectLocale(ctx context.Context, objectID uuid.UUID, targetLocale string) (*Session, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	var session Session
	err := r.db.NewSelect().Model(&session).
		Where("object_id = ?", objectID).
		Where("target_locale = ?", targetLocale).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("translations: select session: %w", err)
	}
	return &session, nil
}

// Upsert creates or updates a session keyed by its id. A new session that
// collides with an existing one for the same (object, target locale) returns
// that session instead, keeping one session per pair even under concurrent
// creates.
func (r *BunSessionRepository) Upsert(ctx context.Context, session *Session) (*Session, bool, error) {
	if r.db == nil {
		return nil, false, errDatabaseRequired
	}

	stored := *session
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	candidate := stored.ID

	existing, err := r.Get(ctx, stored.ID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		_, err := r.db.NewInsert().Model(&stored).
			On("CONFLICT (object_id, target_locale) DO UPDATE").
			Set("object_id = EXCLUDED.object_id").
			Returning("*").
			Exec(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("translations: insert session: %w", err)
		}
		return &stored, stored.ID == candidate, nil
	case err != nil:
		return nil, false, err
	}

	stored.CreatedAt = existing.CreatedAt
	_, err = r.db.NewUpdate().Model(&stored).
		Column("object_id", "source_locale", "target_locale", "enabled", "source_last_updated_at", "translations_last_updated_at", "destination_last_updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("translations: update session: %w", err)
	}
	return &stored, false, nil
}

// SetEnabled toggles the enabled flag on an existing session.
func (r *BunSessionRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*Session, error) {
	if r.db == nil {
		return nil, errDatabaseRequired
	}
	session, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Enabled = enabled
	_, err = r.db.NewUpdate().Model(session).Column("enabled").WherePK().Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("translations: update session enabled: %w", err)
	}
	return session, nil
}

// TouchTranslations stamps translations_last_updated_at on the session.
func (r *BunSessionRepository) TouchTranslations(ctx context.Context, id uuid.UUID, at time.Time) error {
	if r.db == nil {
		return errDatabaseRequired
	}
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	touched := at
	session.TranslationsLastUpdatedAt = &touched
	_, err = r.db.NewUpdate().Model(session).Column("translations_last_updated_at").WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("translations: touch session: %w", err)
	}
	return nil
}

// CreateTables creates the translation tables and their unique key indexes
// when they do not exist yet. The indexes enforce the composite keys the
// repositories upsert under, so duplicates are rejected at the schema level
// on every database.
func CreateTables(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errDatabaseRequired
	}
	models := []any{
		(*Session)(nil),
		(*Record)(nil),
		(*Override)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("translations: create table: %w", err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*Session)(nil), "ux_translation_sessions_object_locale", []string{"object_id", "target_locale"}},
		{(*Record)(nil), "ux_string_translations_key", []string{"object_id", "string_id", "locale", "path_id"}},
		{(*Override)(nil), "ux_segment_overrides_key", []string{"object_id", "locale", "path_id"}},
	}
	for _, index := range indexes {
		_, err := db.NewCreateIndex().Model(index.model).
			Index(index.name).
			Unique().
			IfNotExists().
			Column(index.columns...).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("translations: create index %s: %w", index.name, err)
		}
	}
	return nil
}
