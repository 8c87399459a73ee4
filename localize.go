// Package localize reconciles translation state for structured editorial
// content: deterministic segment addressing, manual and machine translation
// records, per-locale overrides and gettext PO interchange.
package localize

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-localize/internal/jobs"
	"github.com/goliatone/go-localize/internal/locations"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/logging/gologger"
	"github.com/goliatone/go-localize/internal/pofile"
	"github.com/goliatone/go-localize/internal/schema"
	"github.com/goliatone/go-localize/internal/segments"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/internal/translator"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Segment addressing types.
type (
	ContentPath        = segments.ContentPath
	StringSegment      = segments.StringSegment
	OverridableSegment = segments.OverridableSegment
	Catalog            = segments.Catalog
)

// Schema descriptor types.
type (
	Model          = schema.Model
	Field          = schema.Field
	BlockType      = schema.BlockType
	Tab            = schema.Tab
	SchemaRegistry = schema.Registry
	SourceValues   = schema.SourceValues
)

// Location resolution types.
type (
	Location         = locations.Location
	LocationResolver = locations.Resolver
)

// Translation state types.
type (
	TranslationRecord  = translations.Record
	TranslationKey     = translations.RecordKey
	Override           = translations.Override
	OverrideKey        = translations.OverrideKey
	Session            = translations.Session
	TranslationService = translations.Service
	EditorState        = translations.EditorState
)

// PO interchange types.
type (
	PoCodec      = pofile.Codec
	PoFile       = pofile.File
	ImportResult = pofile.ImportResult
)

// Translator exports the machine translation contract.
type Translator = translator.Translator

// AuditRecorder exports the audit sink contract.
type AuditRecorder = jobs.AuditRecorder

// NewCatalog builds an ordered segment catalog for one source snapshot.
var NewCatalog = segments.NewCatalog

// StringIdentity derives the deterministic identity of a source string.
var StringIdentity = segments.StringID

// Option mutates module construction.
type Option func(*builder)

type builder struct {
	provider   interfaces.LoggerProvider
	db         *bun.DB
	translator translator.Translator
	audit      jobs.AuditRecorder
	clock      func() time.Time
}

// WithLoggerProvider overrides the logging provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(b *builder) { b.provider = provider }
}

// WithDB supplies an existing bun database instead of the configured storage
// driver. Use WrapPostgres to adapt a raw Postgres pool.
func WithDB(db *bun.DB) Option {
	return func(b *builder) { b.db = db }
}

// WithTranslator overrides the machine translation backend built from
// configuration.
func WithTranslator(mt translator.Translator) Option {
	return func(b *builder) { b.translator = mt }
}

// WithAuditRecorder wires an audit sink for translation mutations.
func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(b *builder) { b.audit = recorder }
}

// WithClock overrides the module time source.
func WithClock(clock func() time.Time) Option {
	return func(b *builder) { b.clock = clock }
}

// WrapPostgres adapts a host-owned Postgres pool for WithDB.
func WrapPostgres(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// Module is the top level runtime facade.
type Module struct {
	cfg      Config
	db       *bun.DB
	ownsDB   bool
	provider interfaces.LoggerProvider
	registry *schema.Registry
	resolver *locations.Resolver
	service  *translations.Service
	codec    *pofile.Codec
}

// New constructs the localization module from configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	provider := b.provider
	if provider == nil {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		provider = built
	}

	module := &Module{
		cfg:      cfg,
		db:       b.db,
		provider: provider,
		registry: schema.NewRegistry(),
	}

	var (
		records   translations.RecordRepository
		overrides translations.OverrideRepository
		sessions  translations.SessionRepository
	)
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch {
	case module.db != nil:
		records = translations.NewBunRecordRepository(module.db)
		overrides = translations.NewBunOverrideRepository(module.db)
		sessions = translations.NewBunSessionRepository(module.db)
	case driver == "sqlite":
		sqldb, err := sql.Open("sqlite3", cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("localize: open sqlite storage: %w", err)
		}
		module.db = bun.NewDB(sqldb, sqlitedialect.New())
		module.ownsDB = true
		records = translations.NewBunRecordRepository(module.db)
		overrides = translations.NewBunOverrideRepository(module.db)
		sessions = translations.NewBunSessionRepository(module.db)
	default:
		records = translations.NewMemoryRecordRepository()
		overrides = translations.NewMemoryOverrideRepository()
		sessions = translations.NewMemorySessionRepository()
	}

	mt := b.translator
	if mt == nil {
		built, err := translatorFromConfig(cfg.Translator, logging.TranslatorLogger(provider))
		if err != nil {
			return nil, err
		}
		mt = built
	}

	serviceOpts := []translations.Option{
		translations.WithLogger(logging.TranslationsLogger(provider)),
	}
	if mt != nil {
		serviceOpts = append(serviceOpts, translations.WithTranslator(mt))
	}
	if b.audit != nil {
		serviceOpts = append(serviceOpts, translations.WithAuditRecorder(b.audit))
	}
	if b.clock != nil {
		serviceOpts = append(serviceOpts, translations.WithClock(b.clock))
	}

	service, err := translations.NewService(records, overrides, sessions, serviceOpts...)
	if err != nil {
		return nil, err
	}
	module.service = service

	codecOpts := []pofile.Option{
		pofile.WithLogger(logging.PofileLogger(provider)),
	}
	if b.audit != nil {
		codecOpts = append(codecOpts, pofile.WithAuditRecorder(b.audit))
	}
	if b.clock != nil {
		codecOpts = append(codecOpts, pofile.WithClock(b.clock))
	}
	module.codec = pofile.NewCodec(service, codecOpts...)

	module.resolver = locations.NewResolver(
		locations.WithLogger(logging.LocationsLogger(provider)),
	)

	return module, nil
}

func translatorFromConfig(cfg TranslatorConfig, logger interfaces.Logger) (translator.Translator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "":
		return nil, nil
	case "dummy":
		return translator.NewDummy(), nil
	case "google":
		opts := []translator.GoogleOption{translator.WithLogger(logger)}
		if cfg.Delay > 0 {
			opts = append(opts, translator.WithDelay(cfg.Delay))
		}
		return translator.NewGoogle(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrTranslatorProviderUnknown, cfg.Provider)
	}
}

// Migrate creates the translation tables on database-backed storage. It is a
// no-op for the in-memory driver.
func (m *Module) Migrate(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	return translations.CreateTables(ctx, m.db)
}

// Translations returns the reconciliation service.
func (m *Module) Translations() *TranslationService {
	return m.service
}

// Po returns the PO import/export codec.
func (m *Module) Po() *PoCodec {
	return m.codec
}

// Locations returns the content path resolver.
func (m *Module) Locations() *LocationResolver {
	return m.resolver
}

// Schemas returns the model descriptor registry.
func (m *Module) Schemas() *SchemaRegistry {
	return m.registry
}

// DB exposes the underlying database for advanced integrations. Nil on the
// in-memory driver.
func (m *Module) DB() *bun.DB {
	if m == nil {
		return nil
	}
	return m.db
}

// Close releases resources the module opened itself. Databases supplied via
// WithDB stay open.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	if err := m.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}
