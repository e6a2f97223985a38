// Package record parses `.dist-info/RECORD` file-integrity manifests.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// File is an ordered RECORD manifest. Entry order is preserved from the
// input; there is no deduplication or sorting.
type File struct {
	Entries []Entry `json:"entries"`
}

// Entry is one RECORD row. Digest and Size are independently optional: the
// manifest's own self-referencing row legitimately has neither.
type Entry struct {
	Path   string  `json:"path"`
	Digest *Digest `json:"digest,omitempty"`
	Size   *uint64 `json:"size,omitempty"`
}

// Digest is an algorithm-labeled encoded hash, e.g. "sha256=AAA".
type Digest struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

func (d Digest) String() string { return d.Algorithm + "=" + d.Value }

// ErrorKind identifies the reason a RECORD failed to parse.
type ErrorKind int

const (
	// KindDecode wraps a row-decoding failure (bad quoting, column count).
	KindDecode ErrorKind = iota
	// KindMalformedDigest means a digest field has no `=` separator.
	KindMalformedDigest
	// KindMalformedSize means a size field is not a non-negative integer.
	KindMalformedSize
)

// ParseError is the closed error type for RECORD parsing.
type ParseError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindDecode:
		return fmt.Sprintf("decode row: %v", e.Err)
	case KindMalformedDigest:
		return fmt.Sprintf("malformed digest %q", e.Field)
	case KindMalformedSize:
		return fmt.Sprintf("malformed file size %q", e.Field)
	}
	return "invalid RECORD file"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads comma-separated rows of exactly (path, digest, size). Rows
// stay in input order. A single leading path separator is stripped to
// tolerate producers that emit absolute-looking paths; paths are otherwise
// untouched.
func Parse(r io.Reader) (File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	var entries []Entry
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return File{}, &ParseError{Kind: KindDecode, Err: err}
		}

		entry := Entry{Path: normalizePath(row[0])}
		if row[1] != "" {
			algorithm, value, ok := strings.Cut(row[1], "=")
			if !ok {
				return File{}, &ParseError{Kind: KindMalformedDigest, Field: row[1]}
			}
			entry.Digest = &Digest{Algorithm: algorithm, Value: value}
		}
		if row[2] != "" {
			size, err := strconv.ParseUint(row[2], 10, 64)
			if err != nil {
				return File{}, &ParseError{Kind: KindMalformedSize, Field: row[2]}
			}
			entry.Size = &size
		}
		entries = append(entries, entry)
	}
	return File{Entries: entries}, nil
}

// ParseString parses RECORD text held in memory.
func ParseString(text string) (File, error) {
	return Parse(strings.NewReader(text))
}

func normalizePath(path string) string {
	if trimmed, ok := strings.CutPrefix(path, "/"); ok {
		return trimmed
	}
	return path
}
