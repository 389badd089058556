package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "mdbook-chapter-zero ") {
		t.Fatalf("unexpected version line: %s", s)
	}
	if !strings.Contains(s, Version) || !strings.Contains(s, GitCommit) {
		t.Fatalf("version line misses build info: %s", s)
	}
}
