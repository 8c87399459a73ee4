// Package translator defines the machine translation contract and the
// built-in backends. Backends translate whole batches so vendors that bill
// per call are hit once per object, not once per string.
package translator

import "context"

// Translator is a machine translation backend.
type Translator interface {
	// DisplayName identifies the backend in provenance comments and audit
	// metadata.
	DisplayName() string
	// CanTranslate reports whether the backend supports the locale pair.
	CanTranslate(sourceLocale, targetLocale string) bool
	// Translate translates every string in strings from sourceLocale into
	// targetLocale. The result maps source text to translated text and must
	// contain an entry for every input string.
	Translate(ctx context.Context, sourceLocale, targetLocale string, strings []string) (map[string]string, error)
}
