package diag

import "testing"

func TestSeverityStringLowercase(t *testing.T) {
	cases := []struct {
		sev  Severity
		want string
	}{
		{SevInfo, "info"},
		{SevWarning, "warning"},
		{SevError, "error"},
	}
	for _, tc := range cases {
		if got := tc.sev.String(); got != tc.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tc.sev, got, tc.want)
		}
	}
}

func TestParseSeverityRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SevInfo, SevWarning, SevError} {
		got, ok := ParseSeverity(sev.String())
		if !ok || got != sev {
			t.Errorf("ParseSeverity(%q) = %v, %v", sev.String(), got, ok)
		}
	}
}
