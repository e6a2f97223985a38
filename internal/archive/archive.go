// Package archive gives random access to members of a wheel's zip container.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// ErrMemberNotFound reports a member path absent from the archive.
var ErrMemberNotFound = fmt.Errorf("member not found in archive")

// Wheel is an open wheel container.
type Wheel struct {
	zr     *zip.Reader
	closer io.Closer
}

// Open opens a wheel file on disk.
func Open(path string) (*Wheel, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Wheel{zr: &rc.Reader, closer: rc}, nil
}

// New opens a wheel from any random-access reader.
func New(r io.ReaderAt, size int64) (*Wheel, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return &Wheel{zr: zr}, nil
}

// FromBytes opens a wheel held in memory.
func FromBytes(data []byte) (*Wheel, error) {
	return New(bytes.NewReader(data), int64(len(data)))
}

// ReadMember returns the contents of the named member, or an error wrapping
// ErrMemberNotFound when the path is absent.
func (w *Wheel) ReadMember(name string) ([]byte, error) {
	f, err := w.zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrMemberNotFound)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Members lists member paths in archive order.
func (w *Wheel) Members() []string {
	names := make([]string, 0, len(w.zr.File))
	for _, f := range w.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Close releases the underlying file, when one is held.
func (w *Wheel) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
