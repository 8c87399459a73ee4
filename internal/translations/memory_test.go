package translations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-localize/internal/segments"
)

func testRecord(objectID uuid.UUID, path segments.ContentPath, text, data string) *Record {
	return &Record{
		ObjectID:        objectID,
		StringID:        segments.StringID(text),
		Locale:          "fr",
		PathID:          path.ID(),
		Path:            string(path),
		Source:          text,
		Data:            data,
		TranslationType: TranslationTypeManual,
		UpdatedAt:       time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRecordUpsertPreservesIdentity(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()

	first, created, err := repo.Upsert(context.Background(), testRecord(objectID, "title", "Welcome", "Bienvenue"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || first.ID == uuid.Nil {
		t.Fatalf("expected created record with id, got created=%v id=%s", created, first.ID)
	}

	second, created, err := repo.Upsert(context.Background(), testRecord(objectID, "title", "Welcome", "Bienvenue !"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected update, not create")
	}
	if second.ID != first.ID {
		t.Fatalf("update must preserve identity: %s != %s", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("update must preserve created_at")
	}
}

func TestMemoryRecordGetAndDelete(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()
	record := testRecord(objectID, "title", "Welcome", "Bienvenue")

	if _, err := repo.Get(context.Background(), record.Key()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if _, _, err := repo.Upsert(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(context.Background(), record.Key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Data != "Bienvenue" {
		t.Fatalf("unexpected data %q", got.Data)
	}

	deleted, err := repo.Delete(context.Background(), record.Key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.Data != "Bienvenue" {
		t.Fatalf("delete must return the removed record, got %q", deleted.Data)
	}

	if _, err := repo.Delete(context.Background(), record.Key()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryRecordCreateBatchAtomicity(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()

	existing := testRecord(objectID, "title", "Welcome", "Bienvenue")
	if _, _, err := repo.Upsert(context.Background(), existing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch := []*Record{
		testRecord(objectID, "intro", "Hello", "Salut"),
		testRecord(objectID, "title", "Welcome", "Bienvenue bis"),
	}
	err := repo.CreateBatch(context.Background(), batch)
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}

	if _, err := repo.Get(context.Background(), batch[0].Key()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatal("failed batch must write nothing")
	}

	record, err := repo.Get(context.Background(), existing.Key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Data != "Bienvenue" {
		t.Fatalf("existing record must be untouched, got %q", record.Data)
	}
}

func TestMemoryRecordCreateBatchRejectsIntraBatchDuplicates(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()

	batch := []*Record{
		testRecord(objectID, "title", "Welcome", "a"),
		testRecord(objectID, "title", "Welcome", "b"),
	}
	if err := repo.CreateBatch(context.Background(), batch); !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
}

func TestMemoryRecordConcurrentUpserts(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()

	var wg sync.WaitGroup
	createdCount := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.Upsert(context.Background(), testRecord(objectID, "title", "Welcome", "Bienvenue"))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	creates := 0
	for created := range createdCount {
		if created {
			creates++
		}
	}
	if creates != 1 {
		t.Fatalf("exactly one concurrent upsert must create, got %d", creates)
	}

	records, err := repo.ListForObjectLocale(context.Background(), objectID, "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("concurrent upserts must not duplicate, got %d records", len(records))
	}
}

func TestMemoryRecordCloneIsolation(t *testing.T) {
	repo := NewMemoryRecordRepository()
	objectID := uuid.New()

	stored, _, err := repo.Upsert(context.Background(), testRecord(objectID, "title", "Welcome", "Bienvenue"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored.Data = "mutated"

	got, err := repo.Get(context.Background(), stored.Key())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Data != "Bienvenue" {
		t.Fatal("repository state must not alias returned records")
	}
}

func TestMemoryOverrideRepository(t *testing.T) {
	repo := NewMemoryOverrideRepository()
	objectID := uuid.New()
	override := &Override{
		ObjectID: objectID,
		Locale:   "fr",
		PathID:   segments.ContentPath("hero_image").ID(),
		Path:     "hero_image",
		Data:     []byte(`42`),
	}

	stored, created, err := repo.Upsert(context.Background(), override)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected creation")
	}

	override.Data = []byte(`43`)
	updated, created, err := repo.Upsert(context.Background(), override)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || updated.ID != stored.ID {
		t.Fatal("expected update in place")
	}

	listed, err := repo.ListForObjectLocale(context.Background(), objectID, "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 || string(listed[0].Data) != "43" {
		t.Fatalf("unexpected list state: %v", listed)
	}

	if _, err := repo.Delete(context.Background(), override.Key()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(context.Background(), override.Key()); !errors.Is(err, ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound, got %v", err)
	}
}

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	objectID := uuid.New()
	session := &Session{
		ObjectID:     objectID,
		SourceLocale: "en",
		TargetLocale: "fr",
		Enabled:      true,
	}

	stored, created, err := repo.Upsert(context.Background(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || stored.ID == uuid.Nil {
		t.Fatal("expected created session with id")
	}

	byLocale, err := repo.GetForObjectLocale(context.Background(), objectID, "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byLocale.ID != stored.ID {
		t.Fatal("expected the stored session back")
	}

	if _, err := repo.GetForObjectLocale(context.Background(), objectID, "de"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	disabled, err := repo.SetEnabled(context.Background(), stored.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disabled.Enabled {
		t.Fatal("expected disabled session")
	}

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := repo.TouchTranslations(context.Background(), stored.ID, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	touched, err := repo.Get(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touched.TranslationsLastUpdatedAt == nil || !touched.TranslationsLastUpdatedAt.Equal(at) {
		t.Fatalf("expected touch timestamp %v, got %v", at, touched.TranslationsLastUpdatedAt)
	}
}

func TestMemorySessionUpsertKeepsOneSessionPerObjectLocale(t *testing.T) {
	repo := NewMemorySessionRepository()
	objectID := uuid.New()

	first, created, err := repo.Upsert(context.Background(), &Session{
		ObjectID:     objectID,
		SourceLocale: "en",
		TargetLocale: "fr",
		Enabled:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected creation")
	}

	second, created, err := repo.Upsert(context.Background(), &Session{
		ObjectID:     objectID,
		SourceLocale: "en",
		TargetLocale: "fr",
		Enabled:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected the existing session, not a second one")
	}
	if second.ID != first.ID {
		t.Fatalf("expected session %s, got %s", first.ID, second.ID)
	}
}
