package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

type dotted []int

func (d dotted) String() string { return "2.3.1" }

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Renderer", KeyRenderer, "html", Renderer("html")},
		{"MDBookVersion", KeyMDBookVersion, "0.4.40", MDBookVersion("0.4.40")},
		{"Chapter", KeyChapter, "Intro", Chapter("Intro")},
		{"Rule", KeyRule, "local", Rule("local")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Format", KeyFormat, "yaml", Format("yaml")},
		{"SectionNumber", KeySectionNumber, "2.3.1", SectionNumber(dotted{2, 3, 1})},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Position(2); v.Key != KeyPosition || v.Value.Int64() != 2 {
		t.Fatalf("Position mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	attr = Error(errors.New("boom"))
	if attr.Value.String() != "boom" {
		t.Fatalf("expected boom, got %s", attr.Value.String())
	}
}
