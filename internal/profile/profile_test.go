package profile

import (
	"strings"
	"testing"

	"github.com/dshills/ciaposture/internal/level"
)

func TestGet_AllNamedProfiles(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q): %v", name, err)
			}
			if p == nil {
				t.Fatalf("Get(%q) returned nil profile", name)
			}
			if p.Name != name {
				t.Errorf("profile name = %q, want %q", p.Name, name)
			}
			if !p.Triple.Valid() {
				t.Errorf("profile %s has invalid triple %v", name, p.Triple)
			}
		})
	}
}

func TestNames_MatchBuiltins(t *testing.T) {
	if len(Names()) != len(builtins) {
		t.Fatalf("Names() lists %d profiles, builtins has %d", len(Names()), len(builtins))
	}
	for _, n := range Names() {
		if _, ok := builtins[n]; !ok {
			t.Errorf("Names() lists %q with no constructor", n)
		}
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	p, err := Get(" Healthcare ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Triple.Confidentiality != level.High {
		t.Errorf("healthcare confidentiality = %s, want High", p.Triple.Confidentiality)
	}
}

func TestGet_UnknownName(t *testing.T) {
	_, err := Get("nonexistent-profile")
	if err == nil {
		t.Fatal("expected error for unknown profile, got nil")
	}
	if !strings.Contains(err.Error(), "startup") {
		t.Errorf("error should list valid profiles: %v", err)
	}
	if _, err := Get(""); err == nil {
		t.Error("expected error for empty profile name")
	}
}

func TestGet_ReturnsFreshValue(t *testing.T) {
	p, _ := Get("startup")
	p.Triple = level.Uniform(level.None)
	again, _ := Get("startup")
	if again.Triple != level.Uniform(level.Moderate) {
		t.Error("Get returned shared profile state")
	}
}

func TestSummary_ContainsTriple(t *testing.T) {
	p, _ := Get("government")
	if !strings.Contains(p.Summary(), "Very High/Very High/Very High") {
		t.Errorf("Summary = %q", p.Summary())
	}
}
