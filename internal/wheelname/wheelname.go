// Package wheelname parses `*.whl` file names into their components.
package wheelname

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k8ika0s/wheel-inspector/internal/pep440"
)

// Compiled once, read-only after init.
var (
	nameRe     = regexp.MustCompile(`^[\w.]*$`)
	buildTagRe = regexp.MustCompile(`^(\d+)(.*)$`)
)

// WheelName is the parsed form of a wheel file name:
// {distribution}-{version}[-{build_tag}]-{python_tag}-{abi_tag}-{platform_tag}.whl
type WheelName struct {
	Distribution string         `json:"distribution"`
	Version      pep440.Version `json:"version"`
	BuildTag     *BuildTag      `json:"build_tag,omitempty"`
	PythonTag    string         `json:"python_tag"`
	ABITag       string         `json:"abi_tag"`
	PlatformTag  string         `json:"platform_tag"`
}

// ErrorKind identifies the reason a file name failed to parse.
type ErrorKind int

const (
	// KindNotAWheel means the name does not end in .whl.
	KindNotAWheel ErrorKind = iota
	// KindPartCountMismatch means the name does not split into 5 or 6 parts.
	KindPartCountMismatch
	// KindInvalidDistributionName means the distribution field contains
	// characters outside [A-Za-z0-9._] or a doubled underscore.
	KindInvalidDistributionName
	// KindInvalidVersion means the version field failed the PEP 440 grammar.
	KindInvalidVersion
	// KindInvalidBuildTag means the build tag field has no leading digit run
	// or its number overflows.
	KindInvalidBuildTag
)

// ParseError is the closed error type for file name parsing. Callers branch
// on Kind rather than matching message text.
type ParseError struct {
	Kind ErrorKind
	// Token is the offending field, where one exists.
	Token string
	// Reason carries the version grammar's own diagnostic, verbatim.
	Reason string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindNotAWheel:
		return "provided file name does not end with .whl"
	case KindPartCountMismatch:
		return "wheel name has an unexpected number of parts"
	case KindInvalidDistributionName:
		return fmt.Sprintf("invalid distribution name %q", e.Token)
	case KindInvalidVersion:
		return fmt.Sprintf("invalid version: %s", e.Reason)
	case KindInvalidBuildTag:
		return fmt.Sprintf("invalid build tag %q", e.Token)
	}
	return "invalid wheel name"
}

// Parse validates and decomposes a wheel file name. Structural checks run
// before per-field validation: a dash inside the distribution field shifts
// the fields and surfaces as an invalid version, not an invalid name.
func Parse(filename string) (WheelName, error) {
	stem, ok := strings.CutSuffix(filename, ".whl")
	if !ok {
		return WheelName{}, &ParseError{Kind: KindNotAWheel, Token: filename}
	}

	parts := strings.Split(stem, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return WheelName{}, &ParseError{Kind: KindPartCountMismatch, Token: stem}
	}

	distribution := parts[0]
	if strings.Contains(distribution, "__") || !nameRe.MatchString(distribution) {
		return WheelName{}, &ParseError{Kind: KindInvalidDistributionName, Token: distribution}
	}
	distribution = NormalizeDistribution(distribution)

	version, err := pep440.Parse(parts[1])
	if err != nil {
		return WheelName{}, &ParseError{Kind: KindInvalidVersion, Token: parts[1], Reason: err.Error()}
	}

	var buildTag *BuildTag
	offset := 0
	if len(parts) == 6 {
		tag, err := ParseBuildTag(parts[2])
		if err != nil {
			return WheelName{}, err
		}
		buildTag = &tag
		offset = 1
	}

	return WheelName{
		Distribution: distribution,
		Version:      version,
		BuildTag:     buildTag,
		PythonTag:    parts[2+offset],
		ABITag:       parts[3+offset],
		PlatformTag:  parts[4+offset],
	}, nil
}

// NormalizeDistribution lower-cases a distribution token and maps every
// `_` and `.` to `-`. Normalizing an already-normalized name is a no-op.
func NormalizeDistribution(distribution string) string {
	lowered := strings.ToLower(distribution)
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '.' {
			return '-'
		}
		return r
	}, lowered)
}

// String re-assembles the canonical file name. Formatting helper for logs
// and object keys; this package never writes wheel names back to disk.
func (n WheelName) String() string {
	fields := []string{n.Distribution, n.Version.String()}
	if n.BuildTag != nil {
		fields = append(fields, n.BuildTag.String())
	}
	fields = append(fields, n.PythonTag, n.ABITag, n.PlatformTag)
	return strings.Join(fields, "-") + ".whl"
}
