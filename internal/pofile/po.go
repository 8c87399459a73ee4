// Package pofile reads and writes gettext PO documents and maps them onto
// translation state: export renders a catalog plus its records, import feeds
// entries back through the reconciliation service.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is a single message in a PO document. Only singular messages are
// modelled; editorial segments never carry plural forms.
type Entry struct {
	// TranslatorComments are lines starting with "# ".
	TranslatorComments []string
	// MsgCtxt is the message context, used here to carry the content path.
	MsgCtxt string
	// MsgID is the source string.
	MsgID string
	// MsgStr is the translated string, empty when untranslated.
	MsgStr string
	// Obsolete marks entries prefixed with "#~": records whose segment no
	// longer exists in the source.
	Obsolete bool
}

// File is a parsed PO document.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the message entries in document order.
	Entries []*Entry
}

// NewFile creates an empty PO document with a blank header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// HeaderField returns a header field value by name, matched case-insensitively.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			if strings.EqualFold(key, name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SetHeaderField sets a header field, replacing an existing value in place.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}

	lines := strings.Split(f.Header.MsgStr, "\n")
	found := false
	for i, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			if strings.EqualFold(key, name) {
				lines[i] = name + ": " + value
				found = true
				break
			}
		}
	}
	if !found {
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = append(lines[:len(lines)-1], name+": "+value, "")
		} else {
			lines = append(lines, name+": "+value)
		}
	}
	f.Header.MsgStr = strings.Join(lines, "\n")
}

// Parse reads a PO document. Unlike lenient gettext tooling it rejects lines
// it does not understand, so feeding it arbitrary text fails instead of
// producing an empty document.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *Entry
	var lastField string
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && !current.Obsolete && f.Header == nil {
			f.Header = current
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &Entry{}
		}

		if strings.HasPrefix(line, "#~") {
			current.Obsolete = true
			line = strings.TrimPrefix(line, "#~")
			line = strings.TrimPrefix(line, " ")
		}

		if strings.HasPrefix(line, "#") {
			comment := line[1:]
			comment = strings.TrimPrefix(comment, " ")
			current.TranslatorComments = append(current.TranslatorComments, comment)
			continue
		}

		if strings.HasPrefix(line, "msgctxt ") {
			value, err := unquote(strings.TrimPrefix(line, "msgctxt "))
			if err != nil {
				return nil, fmt.Errorf("pofile: line %d: %w", lineNum, err)
			}
			current.MsgCtxt = value
			lastField = "msgctxt"
			continue
		}

		if strings.HasPrefix(line, "msgid ") {
			value, err := unquote(strings.TrimPrefix(line, "msgid "))
			if err != nil {
				return nil, fmt.Errorf("pofile: line %d: %w", lineNum, err)
			}
			current.MsgID = value
			lastField = "msgid"
			continue
		}

		if strings.HasPrefix(line, "msgstr ") {
			value, err := unquote(strings.TrimPrefix(line, "msgstr "))
			if err != nil {
				return nil, fmt.Errorf("pofile: line %d: %w", lineNum, err)
			}
			current.MsgStr = value
			lastField = "msgstr"
			continue
		}

		if strings.HasPrefix(line, "\"") {
			value, err := unquote(line)
			if err != nil {
				return nil, fmt.Errorf("pofile: line %d: %w", lineNum, err)
			}
			switch lastField {
			case "msgctxt":
				current.MsgCtxt += value
			case "msgid":
				current.MsgID += value
			case "msgstr":
				current.MsgStr += value
			default:
				return nil, fmt.Errorf("pofile: line %d: continuation outside a message field", lineNum)
			}
			continue
		}

		return nil, fmt.Errorf("pofile: line %d: unrecognised line %q", lineNum, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pofile: reading document: %w", err)
	}
	if f.Header == nil {
		return nil, fmt.Errorf("pofile: document has no header entry")
	}

	return f, nil
}

// Write renders the document in gettext layout: header first, then entries
// separated by blank lines.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}

	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	if e.MsgCtxt != "" {
		writeQuotedField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix+"msgid", e.MsgID)
	writeQuotedField(w, prefix+"msgstr", e.MsgStr)
}

// writeQuotedField emits a field, splitting multiline values the way gettext
// does with an empty first string.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected quoted string, got %q", s)
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String(), nil
}
