package translations

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const translationValidationCode = "TRANSLATION_VALIDATION_FAILED"

// ErrTranslatorRequired indicates machine translation was requested with no
// backend configured or supplied.
var ErrTranslatorRequired = errors.New("translations: translator required")

// UnsupportedLocalePairError is returned when a machine translation backend
// cannot translate between the requested locales. No vendor call is made.
type UnsupportedLocalePairError struct {
	Translator   string
	SourceLocale string
	TargetLocale string
}

func (e *UnsupportedLocalePairError) Error() string {
	return fmt.Sprintf("translations: %s cannot translate %s to %s", e.Translator, e.SourceLocale, e.TargetLocale)
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "translation request validation failed").
		WithTextCode(translationValidationCode)
}
