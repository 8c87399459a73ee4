package schema

import (
	"errors"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	model := &Model{Name: "blog_page", VerboseName: "blog page"}

	if err := registry.Register(model); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := registry.Lookup("blog_page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != model {
		t.Fatal("expected the registered descriptor back")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&Model{Name: "blog_page"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register(&Model{Name: "blog_page"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistryLookupMissing(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Lookup("missing"); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestTabForDefaultsToFirstTab(t *testing.T) {
	model := &Model{
		Name: "blog_page",
		Tabs: []Tab{
			{Name: "Content", Fields: []string{"title"}},
			{Name: "Promote", Fields: []string{"slug"}},
		},
	}

	if got := model.TabFor("slug"); got != "Promote" {
		t.Fatalf("expected Promote, got %q", got)
	}
	if got := model.TabFor("unlisted"); got != "Content" {
		t.Fatalf("unlisted fields default to the first tab, got %q", got)
	}
}

func TestBlockTypeChild(t *testing.T) {
	block := BlockType{
		Name:     "card",
		IsStruct: true,
		Children: []Field{{Name: "caption", Label: "caption", Kind: FieldText}},
	}

	child, ok := block.Child("caption")
	if !ok || child.Label != "caption" {
		t.Fatalf("expected caption child, got %v %v", child, ok)
	}
	if _, ok := block.Child("missing"); ok {
		t.Fatal("missing child must not be found")
	}
}
