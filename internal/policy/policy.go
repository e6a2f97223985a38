// Package policy evaluates RECORD manifests against a digest policy.
package policy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/k8ika0s/wheel-inspector/internal/record"
)

// Policy declares which digests are acceptable in a RECORD manifest.
type Policy struct {
	// AllowedAlgorithms is the digest algorithm allowlist. Empty means any.
	AllowedAlgorithms []string `json:"allowed_algorithms,omitempty" yaml:"allowed_algorithms,omitempty"`
	// RequireDigests flags entries missing a digest or size. The RECORD
	// self-entry is always exempt; it never carries either.
	RequireDigests bool `json:"require_digests" yaml:"require_digests"`
	// ExemptPrefixes lists path prefixes excused from RequireDigests.
	ExemptPrefixes []string `json:"exempt_prefixes,omitempty" yaml:"exempt_prefixes,omitempty"`
}

// Violation is one policy finding against a RECORD entry.
type Violation struct {
	Path   string `json:"path"`
	Rule   string `json:"rule"`
	Detail string `json:"detail,omitempty"`
}

// Default is the policy applied when no file is configured.
func Default() Policy {
	return Policy{AllowedAlgorithms: []string{"sha256", "sha384", "sha512"}}
}

// Load reads a YAML policy file.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, err
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return p, nil
}

// Evaluate checks every entry and returns findings in entry order.
func (p Policy) Evaluate(f record.File) []Violation {
	var out []Violation
	for _, entry := range f.Entries {
		if entry.Digest != nil && !p.algorithmAllowed(entry.Digest.Algorithm) {
			out = append(out, Violation{
				Path:   entry.Path,
				Rule:   "algorithm",
				Detail: fmt.Sprintf("digest algorithm %q not in allowlist", entry.Digest.Algorithm),
			})
		}
		if p.RequireDigests && (entry.Digest == nil || entry.Size == nil) && !p.exempt(entry.Path) {
			out = append(out, Violation{Path: entry.Path, Rule: "missing-digest"})
		}
	}
	return out
}

func (p Policy) algorithmAllowed(algorithm string) bool {
	if len(p.AllowedAlgorithms) == 0 {
		return true
	}
	for _, allowed := range p.AllowedAlgorithms {
		if strings.EqualFold(algorithm, allowed) {
			return true
		}
	}
	return false
}

func (p Policy) exempt(path string) bool {
	if strings.HasSuffix(path, ".dist-info/RECORD") {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
