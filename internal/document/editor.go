package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/wkeeling/pyrite/internal/engine/buffer"
	"github.com/wkeeling/pyrite/internal/logging"
)

// UntitledPrefix names new scratch documents (Untitled_1, Untitled_2, ...).
const UntitledPrefix = "Untitled"

var (
	// ErrDocumentNotFound is returned for an out-of-range tab index.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoFilename is returned by Save for a document that has no path yet.
	ErrNoFilename = errors.New("document has no filename")
)

// TabChangeFunc is called after the active tab changes. prev is nil when
// the previous tab was closed.
type TabChangeFunc func(prev, next *Document)

// Editor is the ordered set of open documents.
type Editor struct {
	docs     []*Document
	active   int
	untitled int
	onChange []TabChangeFunc
	log      *logging.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// NewEditor creates an Editor with no documents.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{active: -1, log: logging.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("editor")
	return e
}

// OnTabChange registers fn to run after every tab switch.
func (e *Editor) OnTabChange(fn TabChangeFunc) {
	e.onChange = append(e.onChange, fn)
}

// New adds an empty Untitled_N document and makes it active.
func (e *Editor) New() *Document {
	e.untitled++
	doc := newDocument(buffer.NewBuffer(), "", DefaultEncoding, fmt.Sprintf("%s_%d", UntitledPrefix, e.untitled))
	e.add(doc)
	return doc
}

// Open reads filename in the given encoding into a new tab and makes it
// active. A file that is already open is activated instead of re-read.
func (e *Editor) Open(filename, encoding string) (*Document, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	for i, d := range e.docs {
		if d.Path == abs {
			return d, e.Select(i)
		}
	}

	_, encName, err := lookupEncoding(encoding)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	text, err := Decode(data, encName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}

	doc := newDocument(buffer.NewBufferFromString(text), abs, encName, "")
	e.add(doc)
	e.log.Info("opened %s (%s, %d lines)", abs, encName, doc.Buffer.LineCount())
	return doc, nil
}

func (e *Editor) add(doc *Document) {
	e.docs = append(e.docs, doc)
	e.switchTo(len(e.docs) - 1)
}

// Save writes the active document to its file.
func (e *Editor) Save() error {
	doc := e.Active()
	if doc == nil {
		return ErrDocumentNotFound
	}
	if doc.IsScratch() {
		return ErrNoFilename
	}
	return doc.write(doc.Path)
}

// SaveAs writes the active document to path, which becomes its file.
func (e *Editor) SaveAs(path string) error {
	doc := e.Active()
	if doc == nil {
		return ErrDocumentNotFound
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return doc.write(abs)
}

// Close removes the document at index i. Closing the last document leaves
// a fresh Untitled document in its place.
func (e *Editor) Close(i int) error {
	if i < 0 || i >= len(e.docs) {
		return fmt.Errorf("close tab %d: %w", i, ErrDocumentNotFound)
	}
	closed := e.docs[i]
	closed.Column.Cancel()
	e.docs = slices.Delete(e.docs, i, i+1)

	if len(e.docs) == 0 {
		e.active = -1
		e.New()
		return nil
	}

	switch {
	case i < e.active:
		e.active--
	case i == e.active:
		e.active = -1
		e.switchTo(min(i, len(e.docs)-1))
	}
	return nil
}

// Select makes the document at index i active.
func (e *Editor) Select(i int) error {
	if i < 0 || i >= len(e.docs) {
		return fmt.Errorf("select tab %d: %w", i, ErrDocumentNotFound)
	}
	if i != e.active {
		e.switchTo(i)
	}
	return nil
}

// Next activates the tab to the right, wrapping around.
func (e *Editor) Next() {
	if len(e.docs) > 1 {
		e.switchTo((e.active + 1) % len(e.docs))
	}
}

// Prev activates the tab to the left, wrapping around.
func (e *Editor) Prev() {
	if len(e.docs) > 1 {
		e.switchTo((e.active - 1 + len(e.docs)) % len(e.docs))
	}
}

// switchTo activates index i. Leaving a tab ends its column mode.
func (e *Editor) switchTo(i int) {
	var prev *Document
	if e.active >= 0 && e.active < len(e.docs) {
		prev = e.docs[e.active]
		prev.Column.Cancel()
	}
	e.active = i
	next := e.docs[i]
	for _, fn := range e.onChange {
		fn(prev, next)
	}
}

// Active returns the active document, or nil when there is none.
func (e *Editor) Active() *Document {
	if e.active < 0 || e.active >= len(e.docs) {
		return nil
	}
	return e.docs[e.active]
}

// ActiveIndex returns the active tab index, or -1.
func (e *Editor) ActiveIndex() int {
	return e.active
}

// Documents returns the open documents in tab order.
func (e *Editor) Documents() []*Document {
	return slices.Clone(e.docs)
}

// Len returns the number of open documents.
func (e *Editor) Len() int {
	return len(e.docs)
}

// Paths returns the file paths of the open documents that have one.
func (e *Editor) Paths() []string {
	var paths []string
	for _, d := range e.docs {
		if d.Path != "" {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

// Index returns the tab index of doc, or -1.
func (e *Editor) Index(doc *Document) int {
	return slices.Index(e.docs, doc)
}
