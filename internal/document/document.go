// Package document manages the open documents shown as editor tabs.
//
// Each Document owns its text buffer and its own column editor, so column
// mode state never leaks between tabs. The Editor keeps the ordered tab set
// and the active tab; it is used from the UI goroutine only.
package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wkeeling/pyrite/internal/engine/buffer"
	"github.com/wkeeling/pyrite/internal/engine/column"
)

// Document is one open file or unsaved scratch text.
type Document struct {
	ID       uuid.UUID
	Path     string
	Encoding string
	Buffer   *buffer.Buffer
	Column   *column.Editor

	// Viewport origin, kept per document so switching tabs restores it.
	ScrollLine int
	ScrollCol  int

	untitled string
	saved    uint64
}

func newDocument(b *buffer.Buffer, path, enc, untitled string) *Document {
	return &Document{
		ID:       uuid.New(),
		Path:     path,
		Encoding: enc,
		Buffer:   b,
		Column:   column.New(b),
		untitled: untitled,
		saved:    b.Revision(),
	}
}

// Name is the tab label: the file's base name, or Untitled_N.
func (d *Document) Name() string {
	if d.Path != "" {
		return filepath.Base(d.Path)
	}
	return d.untitled
}

// Modified reports whether the buffer changed since it was loaded or saved.
func (d *Document) Modified() bool {
	return d.Buffer.Revision() != d.saved
}

// IsScratch reports whether the document has never been saved to a file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// write encodes the buffer and writes it to path.
func (d *Document) write(path string) error {
	data, err := Encode(d.Buffer.Text(), d.Encoding)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.Path = path
	d.saved = d.Buffer.Revision()
	return nil
}
