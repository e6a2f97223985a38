package wheelname

import (
	"strconv"
)

// BuildTag is the optional numeric-prefixed disambiguator between wheels
// built from the same distribution/version/tag combination.
type BuildTag struct {
	Number uint64 `json:"number"`
	// Remainder is the literal text after the leading digit run, absent
	// when the tag is purely numeric.
	Remainder *string `json:"remainder,omitempty"`
}

// ParseBuildTag splits a token into its mandatory leading unsigned integer
// and optional trailing remainder. A token with no leading digit, or whose
// digit run overflows, is rejected.
func ParseBuildTag(token string) (BuildTag, error) {
	m := buildTagRe.FindStringSubmatch(token)
	if m == nil {
		return BuildTag{}, &ParseError{Kind: KindInvalidBuildTag, Token: token}
	}
	number, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return BuildTag{}, &ParseError{Kind: KindInvalidBuildTag, Token: token}
	}
	tag := BuildTag{Number: number}
	if m[2] != "" {
		remainder := m[2]
		tag.Remainder = &remainder
	}
	return tag, nil
}

func (t BuildTag) String() string {
	s := strconv.FormatUint(t.Number, 10)
	if t.Remainder != nil {
		s += *t.Remainder
	}
	return s
}
