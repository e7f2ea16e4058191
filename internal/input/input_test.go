package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/ciaposture/internal/level"
)

func writeTempRequest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseTriple_Valid(t *testing.T) {
	tr, err := ParseTriple("high", "Moderate", "very-high")
	if err != nil {
		t.Fatalf("ParseTriple: %v", err)
	}
	want := level.Triple{Availability: level.High, Integrity: level.Moderate, Confidentiality: level.VeryHigh}
	if tr != want {
		t.Errorf("ParseTriple = %v, want %v", tr, want)
	}
}

func TestParseTriple_InvalidNamesDimension(t *testing.T) {
	_, err := ParseTriple("high", "extreme", "low")
	if err == nil {
		t.Fatal("expected error for out-of-enum level")
	}
	if !errors.Is(err, level.ErrInvalidLevel) {
		t.Errorf("error %v does not wrap ErrInvalidLevel", err)
	}
	if !strings.Contains(err.Error(), "integrity") || !strings.Contains(err.Error(), "extreme") {
		t.Errorf("error should name dimension and value: %v", err)
	}
}

func TestParseTriple_MissingLevel(t *testing.T) {
	_, err := ParseTriple("high", "", "low")
	if err == nil || !strings.Contains(err.Error(), "integrity: level is required") {
		t.Errorf("expected missing-level error, got %v", err)
	}
}

func TestParseCompact(t *testing.T) {
	tr, err := ParseCompact("moderate/moderate/high")
	if err != nil {
		t.Fatalf("ParseCompact: %v", err)
	}
	if tr != (level.Triple{Availability: level.Moderate, Integrity: level.Moderate, Confidentiality: level.High}) {
		t.Errorf("ParseCompact = %v", tr)
	}
	if _, err := ParseCompact("high/low"); err == nil {
		t.Error("expected error for two-part triple")
	}
	// String output parses back.
	back, err := ParseCompact(tr.String())
	if err != nil || back != tr {
		t.Errorf("ParseCompact(%q) = %v, %v", tr.String(), back, err)
	}
}

func TestParseCompact_SignedOrdinalsRejected(t *testing.T) {
	for _, a := range []string{"-1", "-4", "_3", "1-"} {
		if tr, err := ParseCompact(a + "/low/low"); err == nil {
			t.Errorf("ParseCompact(%q) = %v, want error", a+"/low/low", tr)
		}
	}
}

func TestResolve_RequestFileSignedOrdinal(t *testing.T) {
	sel, err := Parse([]byte("availability: -1\nintegrity: low\nconfidentiality: low\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = sel.Resolve()
	if !errors.Is(err, level.ErrInvalidLevel) {
		t.Errorf("Resolve error = %v, want ErrInvalidLevel", err)
	}
}

func TestResolve_ProfileWithOverride(t *testing.T) {
	sel := Selection{Profile: "startup", Confidentiality: "high"}
	tr, err := sel.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := level.Triple{Availability: level.Moderate, Integrity: level.Moderate, Confidentiality: level.High}
	if tr != want {
		t.Errorf("Resolve = %v, want %v", tr, want)
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	_, err := Selection{Profile: "nope"}.Resolve()
	if err == nil || !strings.Contains(err.Error(), "unknown profile") {
		t.Errorf("expected unknown profile error, got %v", err)
	}
}

func TestOverlay_TopWins(t *testing.T) {
	base := Selection{Profile: "minimal", Availability: "low", Integrity: "low"}
	top := Selection{Integrity: "high", Confidentiality: "moderate"}
	got := base.Overlay(top)
	want := Selection{Profile: "minimal", Availability: "low", Integrity: "high", Confidentiality: "moderate"}
	if got != want {
		t.Errorf("Overlay = %+v, want %+v", got, want)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeTempRequest(t, "req.yaml", "profile: healthcare\navailability: high\n")
	req, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(req.Hash, "sha256:") {
		t.Errorf("hash missing sha256 prefix: %q", req.Hash)
	}
	tr, err := req.Selection.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := level.Triple{Availability: level.High, Integrity: level.High, Confidentiality: level.High}
	if tr != want {
		t.Errorf("Resolve = %v, want %v", tr, want)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeTempRequest(t, "req.json", `{"availability": "low", "integrity": "none", "confidentiality": "4"}`)
	req, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tr, err := req.Selection.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Confidentiality != level.VeryHigh || tr.Integrity != level.None {
		t.Errorf("Resolve = %v", tr)
	}
}

func TestLoad_HashStable(t *testing.T) {
	path := writeTempRequest(t, "req.yaml", "profile: startup\n")
	r1, err := Load(path)
	if err != nil {
		t.Fatalf("Load (first): %v", err)
	}
	r2, err := Load(path)
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}
	if r1.Hash != r2.Hash {
		t.Errorf("hash not stable: %q vs %q", r1.Hash, r2.Hash)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeTempRequest(t, "req.yaml", "availability: high\nauthenticity: high\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/request.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestParse_Empty(t *testing.T) {
	sel, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sel != (Selection{}) {
		t.Errorf("Parse(empty) = %+v", sel)
	}
}
