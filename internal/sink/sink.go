// Package sink delivers a generated script to where the user wants it.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/tsukumogami/gemkey/internal/bookmarklet"
)

// Sink accepts a finished artifact.
type Sink interface {
	Deliver(artifact string) error
}

// Writer prints the artifact followed by a newline.
type Writer struct {
	W io.Writer
}

// Deliver implements Sink.
func (s Writer) Deliver(artifact string) error {
	if _, err := fmt.Fprintln(s.W, artifact); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}

// File saves the artifact to Path, readable only by the owner.
type File struct {
	Path string
}

// NewFile returns a File sink. A directory path gets the default filename.
func NewFile(path string) File {
	if path == "" {
		path = bookmarklet.DefaultFilename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, bookmarklet.DefaultFilename)
	}
	return File{Path: path}
}

// Deliver implements Sink. The write goes through a temp file in the same
// directory so a failed write never leaves a truncated script behind.
func (s File) Deliver(artifact string) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".gemkey-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", s.Path, err)
	}
	if _, err := tmp.WriteString(artifact); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.Path, err)
	}
	return nil
}

// ClipboardWriteFunc writes to the system clipboard. Tests replace it.
var ClipboardWriteFunc = clipboard.WriteAll

// Clipboard copies the artifact to the system clipboard.
type Clipboard struct{}

// Available reports whether a clipboard utility was found.
func (Clipboard) Available() bool {
	return !clipboard.Unsupported
}

// Deliver implements Sink.
func (Clipboard) Deliver(artifact string) error {
	if err := ClipboardWriteFunc(artifact); err != nil {
		return fmt.Errorf("failed to copy script to clipboard: %w", err)
	}
	return nil
}

// Multi delivers to every sink in order and stops at the first error.
type Multi []Sink

// Deliver implements Sink.
func (m Multi) Deliver(artifact string) error {
	for _, s := range m {
		if err := s.Deliver(artifact); err != nil {
			return err
		}
	}
	return nil
}
