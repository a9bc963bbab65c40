package cookies_test

import (
	"os"
	"path/filepath"
	"testing"

	"ytfetch/internal/cookies"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("jar"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolvePrefersExplicitPath(t *testing.T) {
	base := t.TempDir()
	explicit := filepath.Join(base, "explicit.txt")
	override := filepath.Join(base, "override.txt")
	writeFile(t, explicit)
	writeFile(t, override)

	if got := cookies.Resolve(explicit, override, base); got != explicit {
		t.Fatalf("expected explicit path, got %q", got)
	}
}

func TestResolveFallsBackThroughChain(t *testing.T) {
	base := t.TempDir()

	override := filepath.Join(base, "override.txt")
	writeFile(t, override)
	if got := cookies.Resolve("", override, base); got != override {
		t.Fatalf("expected override, got %q", got)
	}

	local := filepath.Join(base, "cookies.txt")
	writeFile(t, local)
	if got := cookies.Resolve("", "", base); got != local {
		t.Fatalf("expected local cookies.txt, got %q", got)
	}
	if err := os.Remove(local); err != nil {
		t.Fatal(err)
	}

	canonical := filepath.Join(base, "youtube.txt")
	writeFile(t, canonical)
	if got := cookies.Resolve("", "", base); got != canonical {
		t.Fatalf("expected canonical jar, got %q", got)
	}
}

func TestResolveAnchorsRelativeCandidates(t *testing.T) {
	base := t.TempDir()
	jar := filepath.Join(base, "rel", "jar.txt")
	writeFile(t, jar)

	if got := cookies.Resolve(filepath.Join("rel", "jar.txt"), "", base); got != jar {
		t.Fatalf("expected anchored relative path, got %q", got)
	}
}

func TestResolveReturnsEmptyWhenExhausted(t *testing.T) {
	base := t.TempDir()
	if got := cookies.Resolve("", "", base); got != "" {
		t.Fatalf("expected no result, got %q", got)
	}
	// A missing explicit path falls through rather than erroring.
	if got := cookies.Resolve(filepath.Join(base, "missing.txt"), "", base); got != "" {
		t.Fatalf("expected no result for missing explicit path, got %q", got)
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "cookies.txt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := cookies.Resolve("", "", base); got != "" {
		t.Fatalf("directories are not jars, got %q", got)
	}
}
