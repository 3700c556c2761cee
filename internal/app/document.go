package app

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/caret/internal/engine"
)

// Document is an open file and its editing state.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	// Source is the text buffer and editing engine.
	Source *engine.SourceCode

	modified atomic.Bool
	mode     os.FileMode
}

// OpenDocument reads path into a new document. A missing file opens an
// empty document that Save will create.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	mode := os.FileMode(0644)
	content, err := os.ReadFile(abs)
	switch {
	case err == nil:
		if info, statErr := os.Stat(abs); statErr == nil {
			mode = info.Mode().Perm()
		}
	case os.IsNotExist(err):
		log.Infof("%s does not exist, starting empty", abs)
	default:
		return nil, NewOperationError("open", abs, err)
	}

	opts = append([]engine.Option{engine.WithContent(string(content))}, opts...)
	return newDocument(abs, filepath.Base(abs), mode, opts...), nil
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(content string, opts ...engine.Option) *Document {
	opts = append([]engine.Option{engine.WithContent(content)}, opts...)
	return newDocument("", "Untitled", 0644, opts...)
}

func newDocument(path, name string, mode os.FileMode, opts ...engine.Option) *Document {
	d := &Document{Path: path, Name: name, mode: mode}
	opts = append(opts, engine.WithListener(engine.ListenerFuncs{
		OnTextChanged: func() { d.modified.Store(true) },
	}))
	d.Source = engine.New(opts...)
	return d
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes the document to its file and clears the modified flag.
func (d *Document) Save() error {
	if d.IsScratch() {
		return ErrNoFile
	}
	return d.SaveAs(d.Path)
}

// SaveAs writes the document to path. The write goes through a temporary
// file in the same directory so a failed write leaves path untouched.
func (d *Document) SaveAs(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return NewOperationError("save", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(d.Source.Text()); err != nil {
		_ = tmp.Close()
		return NewOperationError("save", path, err)
	}
	if err := tmp.Chmod(d.mode); err != nil {
		_ = tmp.Close()
		return NewOperationError("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewOperationError("save", path, err)
	}

	if path == d.Path {
		d.modified.Store(false)
	}
	log.Infof("saved %s", path)
	return nil
}
