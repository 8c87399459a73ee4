package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/bregydoc/gtranslate"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// GoogleOption mutates the Google backend configuration.
type GoogleOption func(*Google)

// WithDelay sets a pause between per-string requests to stay under the
// unofficial endpoint's rate limit.
func WithDelay(delay time.Duration) GoogleOption {
	return func(g *Google) {
		if delay > 0 {
			g.delay = delay
		}
	}
}

// WithLogger overrides the backend logger.
func WithLogger(logger interfaces.Logger) GoogleOption {
	return func(g *Google) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Google translates through the public Google Translate endpoint. The
// endpoint accepts one string per request, so batches are looped with an
// optional delay between calls.
type Google struct {
	delay  time.Duration
	logger interfaces.Logger
}

// NewGoogle constructs the Google backend.
func NewGoogle(opts ...GoogleOption) *Google {
	google := &Google{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(google)
	}
	return google
}

// DisplayName identifies the backend.
func (g *Google) DisplayName() string {
	return "Google Translate"
}

// CanTranslate reports true for any pair of distinct locales.
func (g *Google) CanTranslate(sourceLocale, targetLocale string) bool {
	return sourceLocale != "" && targetLocale != "" && sourceLocale != targetLocale
}

// Translate translates each string in turn, honouring ctx between requests.
func (g *Google) Translate(ctx context.Context, sourceLocale, targetLocale string, texts []string) (map[string]string, error) {
	g.logger.Debug("translating batch",
		"source_locale", sourceLocale,
		"target_locale", targetLocale,
		"strings", len(texts),
	)

	out := make(map[string]string, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && g.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.delay):
			}
		}

		translated, err := gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{
			From: sourceLocale,
			To:   targetLocale,
		})
		if err != nil {
			return nil, fmt.Errorf("translator: google translate %q: %w", text, err)
		}
		out[text] = translated
	}
	return out, nil
}
