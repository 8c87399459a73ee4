package segments

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestContentPathComponents(t *testing.T) {
	path := ContentPath("body.4a5b.heading")

	comps := path.Components()
	if len(comps) != 3 {
		t.Fatalf("expected 3 components, got %d", len(comps))
	}
	if path.Field() != "body" {
		t.Fatalf("expected field body, got %q", path.Field())
	}
	if path.BlockID() != "4a5b" {
		t.Fatalf("expected block id 4a5b, got %q", path.BlockID())
	}
	if path.SubField() != "heading" {
		t.Fatalf("expected sub field heading, got %q", path.SubField())
	}
}

func TestContentPathComponentsPlainField(t *testing.T) {
	path := ContentPath("title")

	if path.Field() != "title" {
		t.Fatalf("expected field title, got %q", path.Field())
	}
	if path.BlockID() != "" {
		t.Fatalf("expected empty block id, got %q", path.BlockID())
	}
	if path.SubField() != "" {
		t.Fatalf("expected empty sub field, got %q", path.SubField())
	}
}

func TestPathIdentityDeterministic(t *testing.T) {
	first := ContentPath("body.4a5b.heading").ID()
	second := ContentPath("body.4a5b.heading").ID()
	other := ContentPath("body.4a5b.caption").ID()

	if first != second {
		t.Fatalf("identical paths must share an identity: %s != %s", first, second)
	}
	if first == other {
		t.Fatal("distinct paths must not share an identity")
	}
}

func TestStringIdentityDeterministic(t *testing.T) {
	first := StringID("Welcome to our blog")
	second := StringID("Welcome to our blog")
	other := StringID("Welcome to our shop")

	if first != second {
		t.Fatalf("identical texts must share an identity: %s != %s", first, second)
	}
	if first == other {
		t.Fatal("distinct texts must not share an identity")
	}
}

func TestNewCatalogOrdersSegments(t *testing.T) {
	objectID := uuid.New()
	strs := []StringSegment{
		{Order: 2, Path: "body.b1.heading", Text: "Second"},
		{Order: 0, Path: "title", Text: "First"},
		{Order: 1, Path: "intro", Text: "Middle"},
	}
	overridables := []OverridableSegment{
		{Order: 1, Path: "hero.b2.image", Data: []byte(`2`)},
		{Order: 0, Path: "hero.b1.image", Data: []byte(`1`)},
	}

	catalog, err := NewCatalog(objectID, "en", strs, overridables)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotTexts := []string{}
	for _, segment := range catalog.Strings() {
		gotTexts = append(gotTexts, segment.Text)
	}
	want := []string{"First", "Middle", "Second"}
	for i, text := range want {
		if gotTexts[i] != text {
			t.Fatalf("expected string %d to be %q, got %q", i, text, gotTexts[i])
		}
	}

	if catalog.Overridables()[0].Path != "hero.b1.image" {
		t.Fatalf("expected overridables ordered, got %q first", catalog.Overridables()[0].Path)
	}
}

func TestNewCatalogAllowsSameTextAtDifferentPaths(t *testing.T) {
	strs := []StringSegment{
		{Order: 0, Path: "title", Text: "Hello"},
		{Order: 1, Path: "intro", Text: "Hello"},
	}

	if _, err := NewCatalog(uuid.New(), "en", strs, nil); err != nil {
		t.Fatalf("same text at different paths must be valid: %v", err)
	}
}

func TestNewCatalogRejectsDuplicateStringSegment(t *testing.T) {
	strs := []StringSegment{
		{Order: 0, Path: "title", Text: "Hello"},
		{Order: 1, Path: "title", Text: "Hello"},
	}

	_, err := NewCatalog(uuid.New(), "en", strs, nil)
	if !errors.Is(err, ErrDuplicateSegment) {
		t.Fatalf("expected ErrDuplicateSegment, got %v", err)
	}
}

func TestNewCatalogRejectsDuplicateOverridablePath(t *testing.T) {
	overridables := []OverridableSegment{
		{Order: 0, Path: "hero.b1.image", Data: []byte(`1`)},
		{Order: 1, Path: "hero.b1.image", Data: []byte(`2`)},
	}

	_, err := NewCatalog(uuid.New(), "en", nil, overridables)
	if !errors.Is(err, ErrDuplicateSegment) {
		t.Fatalf("expected ErrDuplicateSegment, got %v", err)
	}
}

func TestNewCatalogRejectsEmptyPath(t *testing.T) {
	strs := []StringSegment{{Order: 0, Path: "", Text: "Hello"}}

	_, err := NewCatalog(uuid.New(), "en", strs, nil)
	if !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestCatalogLookups(t *testing.T) {
	strs := []StringSegment{
		{Order: 0, Path: "title", Text: "Hello"},
		{Order: 1, Path: "intro", Text: "World"},
	}
	overridables := []OverridableSegment{
		{Order: 0, Path: "hero.b1.image", Data: []byte(`1`)},
	}
	catalog, err := NewCatalog(uuid.New(), "en", strs, overridables)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := catalog.StringAt("title", "Hello"); !ok {
		t.Fatal("expected to find segment at title/Hello")
	}
	if _, ok := catalog.StringAt("title", "World"); ok {
		t.Fatal("World is not used at title")
	}
	if !catalog.HasPath("intro") {
		t.Fatal("expected intro path")
	}
	if catalog.HasPath("missing") {
		t.Fatal("missing path must not be reported")
	}
	if !catalog.HasText("World") {
		t.Fatal("expected World text")
	}
	if _, ok := catalog.OverridableAt("hero.b1.image"); !ok {
		t.Fatal("expected overridable at hero.b1.image")
	}
}
