// Package distinfo locates and parses the `.dist-info` members of a wheel.
package distinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/k8ika0s/wheel-inspector/internal/archive"
	"github.com/k8ika0s/wheel-inspector/internal/manifest"
	"github.com/k8ika0s/wheel-inspector/internal/record"
	"github.com/k8ika0s/wheel-inspector/internal/wheelname"
)

// Member names inside the dist-info directory.
const (
	MemberMetadata = "METADATA"
	MemberRecord   = "RECORD"
	MemberWheel    = "WHEEL"
)

// Info bundles the parsed dist-info members of one wheel. Records are
// freshly allocated per load and share no state.
type Info struct {
	Name     wheelname.WheelName
	Manifest manifest.Manifest
	Record   record.File
	// Metadata is the raw METADATA member, nil when absent. Long-form
	// metadata is not parsed here.
	Metadata []byte
}

// Dir computes the dist-info directory name for a parsed wheel name.
func Dir(name wheelname.WheelName) string {
	return name.Distribution + "-" + name.Version.String() + ".dist-info"
}

// escapedDir is the directory as most producers actually write it, with the
// normalized name's dashes re-expressed as underscores.
func escapedDir(name wheelname.WheelName) string {
	return strings.ReplaceAll(name.Distribution, "-", "_") + "-" + name.Version.String() + ".dist-info"
}

// Load reads and parses the WHEEL and RECORD members and carries METADATA
// through as raw bytes.
func Load(w *archive.Wheel, name wheelname.WheelName) (Info, error) {
	info := Info{Name: name}

	wheelText, err := readMember(w, name, MemberWheel)
	if err != nil {
		return Info{}, err
	}
	info.Manifest, err = manifest.Parse(string(wheelText))
	if err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", MemberWheel, err)
	}

	recordText, err := readMember(w, name, MemberRecord)
	if err != nil {
		return Info{}, err
	}
	info.Record, err = record.ParseString(string(recordText))
	if err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", MemberRecord, err)
	}

	// METADATA is tolerated missing; some repackagers strip it.
	if data, err := readMember(w, name, MemberMetadata); err == nil {
		info.Metadata = data
	} else if !errors.Is(err, archive.ErrMemberNotFound) {
		return Info{}, err
	}

	return info, nil
}

// readMember looks up a dist-info member, falling back to the
// underscore-escaped directory when the primary path is absent.
func readMember(w *archive.Wheel, name wheelname.WheelName, member string) ([]byte, error) {
	data, err := w.ReadMember(Dir(name) + "/" + member)
	if err == nil || !errors.Is(err, archive.ErrMemberNotFound) {
		return data, err
	}
	if escaped := escapedDir(name); escaped != Dir(name) {
		return w.ReadMember(escaped + "/" + member)
	}
	return nil, err
}
