package pofile

import "fmt"

// InvalidPoFormatError reports an uploaded document that is not a PO file.
type InvalidPoFormatError struct {
	Err error
}

func (e *InvalidPoFormatError) Error() string {
	return fmt.Sprintf("pofile: invalid PO format: %v", e.Err)
}

func (e *InvalidPoFormatError) Unwrap() error {
	return e.Err
}

// TranslationMismatchError reports a PO file whose embedded translation id
// does not match the session it was uploaded against. Nothing is imported.
type TranslationMismatchError struct {
	Expected string
	Got      string
}

func (e *TranslationMismatchError) Error() string {
	return fmt.Sprintf("pofile: translation id mismatch: file carries %q, session is %q", e.Got, e.Expected)
}
