package wheelname

import (
	"reflect"
	"testing"
)

func TestParseBuildTag(t *testing.T) {
	tests := []struct {
		token    string
		expected BuildTag
		wantErr  bool
	}{
		{token: "1", expected: BuildTag{Number: 1}},
		{token: "36", expected: BuildTag{Number: 36}},
		{token: "1asdf", expected: BuildTag{Number: 1, Remainder: strptr("asdf")}},
		{token: "007special", expected: BuildTag{Number: 7, Remainder: strptr("special")}},
		{token: "", wantErr: true},
		{token: "asdf", wantErr: true},
		{token: "asdf1", wantErr: true},
		// Exceeds uint64.
		{token: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBuildTag(tt.token)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseBuildTag(%q) succeeded, expected error", tt.token)
			}
			assertKind(t, err, KindInvalidBuildTag)
			continue
		}
		if err != nil {
			t.Fatalf("ParseBuildTag(%q): %v", tt.token, err)
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Fatalf("ParseBuildTag(%q)=%+v, expected %+v", tt.token, got, tt.expected)
		}
	}
}
