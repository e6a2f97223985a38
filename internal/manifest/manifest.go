// Package manifest parses `.dist-info/WHEEL` key/value files.
package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Manifest is the parsed form of a WHEEL file.
type Manifest struct {
	WheelVersion  string   `json:"wheel_version"`
	Generator     string   `json:"generator"`
	RootIsPurelib bool     `json:"root_is_purelib"`
	// Tags are compatibility tags in file order; order is priority-significant.
	Tags []string `json:"tags,omitempty"`
	// Build is optional and appears at most once.
	Build *uint64 `json:"build,omitempty"`
}

// ErrorKind identifies the reason a WHEEL file failed to parse.
type ErrorKind int

const (
	// KindDuplicateField means a single-valued field appeared twice.
	KindDuplicateField ErrorKind = iota
	// KindInvalidFieldValue means a field value failed its type check.
	KindInvalidFieldValue
	// KindMissingField means a required field never appeared.
	KindMissingField
)

// ParseError is the closed error type for WHEEL parsing.
type ParseError struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindDuplicateField:
		return fmt.Sprintf("duplicate field %q", e.Field)
	case KindInvalidFieldValue:
		return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Detail)
	case KindMissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return "invalid WHEEL file"
}

// Parse scans text line by line against the fixed field table. Unrecognized
// lines are ignored for forward compatibility. A second occurrence of a
// single-valued field, a malformed value, or an absent required field fails
// the whole parse; there are no partial results.
func Parse(text string) (Manifest, error) {
	var (
		wheelVersion  *string
		generator     *string
		rootIsPurelib *bool
		tags          []string
		build         *uint64
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if value, ok := strings.CutPrefix(line, "Wheel-Version: "); ok {
			if wheelVersion != nil {
				return Manifest{}, &ParseError{Kind: KindDuplicateField, Field: "wheel_version"}
			}
			wheelVersion = &value
		}

		if value, ok := strings.CutPrefix(line, "Generator: "); ok {
			if generator != nil {
				return Manifest{}, &ParseError{Kind: KindDuplicateField, Field: "generator"}
			}
			generator = &value
		}

		if value, ok := strings.CutPrefix(line, "Root-Is-Purelib: "); ok {
			if rootIsPurelib != nil {
				return Manifest{}, &ParseError{Kind: KindDuplicateField, Field: "root_is_purelib"}
			}
			b, err := parseBool(value)
			if err != nil {
				return Manifest{}, &ParseError{Kind: KindInvalidFieldValue, Field: "root_is_purelib", Detail: err.Error()}
			}
			rootIsPurelib = &b
		}

		if value, ok := strings.CutPrefix(line, "Tag: "); ok {
			tags = append(tags, value)
		}

		if value, ok := strings.CutPrefix(line, "Build: "); ok {
			if build != nil {
				return Manifest{}, &ParseError{Kind: KindDuplicateField, Field: "build"}
			}
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return Manifest{}, &ParseError{Kind: KindInvalidFieldValue, Field: "build", Detail: fmt.Sprintf("%q is not a non-negative integer", value)}
			}
			build = &n
		}
	}

	if wheelVersion == nil {
		return Manifest{}, &ParseError{Kind: KindMissingField, Field: "wheel_version"}
	}
	if generator == nil {
		return Manifest{}, &ParseError{Kind: KindMissingField, Field: "generator"}
	}
	if rootIsPurelib == nil {
		return Manifest{}, &ParseError{Kind: KindMissingField, Field: "root_is_purelib"}
	}

	return Manifest{
		WheelVersion:  *wheelVersion,
		Generator:     *generator,
		RootIsPurelib: *rootIsPurelib,
		Tags:          tags,
		Build:         build,
	}, nil
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", value)
}

// ExpandedTags expands compound tags like "py2.py3-none-any" into their
// single-tag combinations, in file order.
func (m Manifest) ExpandedTags() []string {
	var out []string
	for _, tag := range m.Tags {
		fields := strings.Split(tag, "-")
		if len(fields) != 3 {
			out = append(out, tag)
			continue
		}
		for _, py := range strings.Split(fields[0], ".") {
			for _, abi := range strings.Split(fields[1], ".") {
				for _, plat := range strings.Split(fields[2], ".") {
					out = append(out, py+"-"+abi+"-"+plat)
				}
			}
		}
	}
	return out
}
