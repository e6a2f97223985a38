// Package pep440 parses and compares PEP 440 version strings.
// Callers treat it as a black box: a token either parses into an
// ordered Version or the parse reports why it does not.
package pep440

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRe follows the grammar from the PEP 440 appendix. Compiled once,
// read-only after init.
var versionRe = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_\.]?(?P<prel>alpha|a|beta|b|preview|pre|c|rc)[-_\.]?(?P<pren>[0-9]+)?)?` +
	`(?P<post>-(?P<postn1>[0-9]+)|[-_\.]?(?:post|rev|r)[-_\.]?(?P<postn2>[0-9]+)?)?` +
	`(?P<dev>[-_\.]?dev[-_\.]?(?P<devn>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?` +
	`\s*$`)

// ParseError reports a token that does not match the PEP 440 grammar.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Version `%s` doesn't match PEP 440 rules", e.Token)
}

// Version is an immutable parsed PEP 440 version. The zero value is not a
// valid version; construct through Parse.
type Version struct {
	epoch   int
	release []int
	pre     *preSegment
	post    *int
	dev     *int
	local   string
}

type preSegment struct {
	phase  int // 0=a, 1=b, 2=rc
	number int
}

// Parse classifies s as a PEP 440 version or reports why it is not one.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &ParseError{Token: s}
	}
	group := func(name string) string {
		return m[versionRe.SubexpIndex(name)]
	}

	var v Version
	if g := group("epoch"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return Version{}, &ParseError{Token: s}
		}
		v.epoch = n
	}
	for _, part := range strings.Split(group("release"), ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, &ParseError{Token: s}
		}
		v.release = append(v.release, n)
	}
	if group("pre") != "" {
		phase, ok := prePhase(group("prel"))
		if !ok {
			return Version{}, &ParseError{Token: s}
		}
		v.pre = &preSegment{phase: phase, number: atoiDefault(group("pren"))}
	}
	if group("post") != "" {
		n := atoiDefault(group("postn1"))
		if group("postn1") == "" {
			n = atoiDefault(group("postn2"))
		}
		v.post = &n
	}
	if group("dev") != "" {
		n := atoiDefault(group("devn"))
		v.dev = &n
	}
	v.local = strings.ToLower(group("local"))
	v.local = strings.NewReplacer("-", ".", "_", ".").Replace(v.local)
	return v, nil
}

func prePhase(label string) (int, bool) {
	switch strings.ToLower(label) {
	case "a", "alpha":
		return 0, true
	case "b", "beta":
		return 1, true
	case "c", "rc", "pre", "preview":
		return 2, true
	}
	return 0, false
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// String renders the canonical form: [N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local].
func (v Version) String() string {
	var b strings.Builder
	if v.epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.epoch)
	}
	for i, n := range v.release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	if v.pre != nil {
		b.WriteString([]string{"a", "b", "rc"}[v.pre.phase])
		b.WriteString(strconv.Itoa(v.pre.number))
	}
	if v.post != nil {
		fmt.Fprintf(&b, ".post%d", *v.post)
	}
	if v.dev != nil {
		fmt.Fprintf(&b, ".dev%d", *v.dev)
	}
	if v.local != "" {
		b.WriteByte('+')
		b.WriteString(v.local)
	}
	return b.String()
}

// MarshalJSON renders the canonical form as a JSON string.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON parses a version from its JSON string form.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compare orders versions per PEP 440: epoch, then release (zero-padded),
// then dev < pre < final < post, then local label.
func (v Version) Compare(o Version) int {
	if v.epoch != o.epoch {
		return cmpInt(v.epoch, o.epoch)
	}
	if c := cmpRelease(v.release, o.release); c != 0 {
		return c
	}
	if c := cmpPre(v.pre, o.pre, v.dev, o.dev); c != 0 {
		return c
	}
	if c := cmpOptional(v.post, o.post, 1); c != 0 {
		return c
	}
	if c := cmpOptional(v.dev, o.dev, -1); c != 0 {
		return c
	}
	return cmpLocal(v.local, o.local)
}

// Equal reports PEP 440 equality (e.g. 1.0 equals 1).
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// cmpPre handles the pre-release axis. A version with only a dev segment
// sorts below any pre-release of the same release.
func cmpPre(a, b *preSegment, adev, bdev *int) int {
	rank := func(p *preSegment, dev *int) [3]int {
		if p != nil {
			return [3]int{0, p.phase, p.number}
		}
		if dev != nil {
			return [3]int{-1, 0, 0}
		}
		return [3]int{1, 0, 0}
	}
	ra, rb := rank(a, adev), rank(b, bdev)
	for i := range ra {
		if c := cmpInt(ra[i], rb[i]); c != 0 {
			return c
		}
	}
	return 0
}

// cmpOptional compares optional numeric segments where presence sorts in
// direction dir (+1: present is greater, -1: present is lesser).
func cmpOptional(a, b *int, dir int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -dir
	case b == nil:
		return dir
	}
	return cmpInt(*a, *b)
}

func cmpLocal(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		switch {
		case aerr == nil && berr == nil:
			if c := cmpInt(an, bn); c != 0 {
				return c
			}
		case aerr == nil:
			return 1 // numeric segments sort above alphanumeric
		case berr == nil:
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(as), len(bs))
}
