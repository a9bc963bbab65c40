package cookies_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytfetch/internal/cookies"
)

func jarLine(name string, expiry int64) string {
	return fmt.Sprintf(".youtube.com\tTRUE\t/\tTRUE\t%d\t%s\tvalue", expiry, name)
}

func writeJar(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jar.txt")
	content := "# Netscape HTTP Cookie File\n\n" + strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write jar: %v", err)
	}
	return path
}

func TestValidateMissingFile(t *testing.T) {
	if cookies.Validate(filepath.Join(t.TempDir(), "absent.txt"), 3) {
		t.Fatal("missing file must not validate")
	}
}

func TestValidateRequiresMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar.txt")
	if err := os.WriteFile(path, []byte("example.org\tother\tcontent\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	report := cookies.Inspect(path, time.Now())
	if report.HasMarkers {
		t.Fatal("marker check should fail for non-YouTube jar")
	}
	if report.Usable(3) {
		t.Fatal("jar without markers must not be usable")
	}
}

func TestValidateCountsExpiryCorrectly(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour).Unix()
	past := now.Add(-24 * time.Hour).Unix()

	path := writeJar(t,
		jarLine("SESSION", 0),
		jarLine("FRESH", future),
		jarLine("ALSO_FRESH", future),
		jarLine("STALE", past),
	)

	report := cookies.Inspect(path, now)
	if report.Total != 4 {
		t.Fatalf("expected 4 parsed cookies, got %d", report.Total)
	}
	if report.Valid != 3 || report.Session != 1 || report.Expired != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if !report.Usable(3) {
		t.Fatal("3 valid cookies should satisfy the default threshold")
	}
	if report.Usable(4) {
		t.Fatal("threshold above valid count must fail")
	}
}

func TestValidateAllExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour).Unix()
	path := writeJar(t,
		jarLine("A", past),
		jarLine("B", past),
		jarLine("C", past),
	)
	report := cookies.Inspect(path, now)
	if !report.HasMarkers {
		t.Fatal("markers should be present")
	}
	if report.Usable(3) {
		t.Fatal("jar with only expired cookies must not validate")
	}
}

func TestInspectSwallowsUnparseableLines(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour).Unix()
	path := writeJar(t,
		jarLine("GOOD", future),
		".youtube.com\tTRUE\t/\tTRUE\tnot-a-number\tBROKEN\tvalue",
		"short\tline",
		jarLine("GOOD2", future),
		jarLine("GOOD3", future),
	)
	report := cookies.Inspect(path, now)
	if report.Total != 3 || report.Valid != 3 {
		t.Fatalf("broken lines must be ignored, got %+v", report)
	}
	if !report.Usable(3) {
		t.Fatal("jar should still be usable")
	}
}
