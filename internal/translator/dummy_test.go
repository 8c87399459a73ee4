package translator

import (
	"context"
	"testing"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

type captureLogger struct {
	entries []string
}

func (c *captureLogger) Trace(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Debug(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.entries = append(c.entries, msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.entries = append(c.entries, msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Fatal(msg string, _ ...any) { c.entries = append(c.entries, msg) }

func (c *captureLogger) WithContext(context.Context) interfaces.Logger { return c }

func TestDummyReversesWordOrder(t *testing.T) {
	dummy := NewDummy()

	out, err := dummy.Translate(context.Background(), "en", "fr", []string{
		"Welcome to our blog",
		"Hello",
		"",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out["Welcome to our blog"] != "blog our to Welcome" {
		t.Fatalf("unexpected translation %q", out["Welcome to our blog"])
	}
	if out["Hello"] != "Hello" {
		t.Fatalf("single words pass through, got %q", out["Hello"])
	}
	if out[""] != "" {
		t.Fatalf("empty strings pass through, got %q", out[""])
	}
}

func TestDummyAcceptsAnyLocalePair(t *testing.T) {
	dummy := NewDummy()
	if !dummy.CanTranslate("en", "fr") || !dummy.CanTranslate("xx", "yy") {
		t.Fatal("dummy must accept every locale pair")
	}
	if dummy.DisplayName() != "Dummy translator" {
		t.Fatalf("unexpected display name %q", dummy.DisplayName())
	}
}

func TestGoogleCapabilities(t *testing.T) {
	google := NewGoogle()
	if !google.CanTranslate("en", "fr") {
		t.Fatal("expected distinct locales to be supported")
	}
	if google.CanTranslate("en", "en") {
		t.Fatal("same-locale pairs are not translatable")
	}
	if google.CanTranslate("", "fr") {
		t.Fatal("empty locales are not translatable")
	}
	if google.DisplayName() != "Google Translate" {
		t.Fatalf("unexpected display name %q", google.DisplayName())
	}
}

func TestGoogleTranslateLogsEachBatch(t *testing.T) {
	logger := &captureLogger{}
	google := NewGoogle(WithLogger(logger))

	// An empty batch never reaches the endpoint but still logs the attempt.
	out, err := google.Translate(context.Background(), "en", "fr", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no translations, got %v", out)
	}
	if len(logger.entries) != 1 || logger.entries[0] != "translating batch" {
		t.Fatalf("expected one batch entry, got %v", logger.entries)
	}
}
