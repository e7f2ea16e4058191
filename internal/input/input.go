package input

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/ciaposture/internal/level"
	"github.com/dshills/ciaposture/internal/profile"
)

// Selection is a set of level choices from one source (flags or a request
// file). Empty fields mean "not chosen here".
type Selection struct {
	Profile         string `yaml:"profile"`
	Availability    string `yaml:"availability"`
	Integrity       string `yaml:"integrity"`
	Confidentiality string `yaml:"confidentiality"`
}

// Request is a loaded request file with derived metadata.
type Request struct {
	Path      string
	Hash      string // "sha256:<hex>" of the raw file
	Selection Selection
}

// Load reads a YAML or JSON request file from disk and hashes its content.
// Level values are not checked until Resolve.
func Load(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	sel, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return &Request{
		Path:      path,
		Hash:      fmt.Sprintf("sha256:%x", sum),
		Selection: sel,
	}, nil
}

// Parse decodes a request document. Unknown fields are rejected; an empty
// document yields an empty Selection.
func Parse(data []byte) (Selection, error) {
	var sel Selection
	if len(bytes.TrimSpace(data)) == 0 {
		return sel, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sel); err != nil {
		return Selection{}, fmt.Errorf("parsing request: %w", err)
	}
	return sel, nil
}

// Overlay returns s with every non-empty field of top replacing its own.
func (s Selection) Overlay(top Selection) Selection {
	if top.Profile != "" {
		s.Profile = top.Profile
	}
	if top.Availability != "" {
		s.Availability = top.Availability
	}
	if top.Integrity != "" {
		s.Integrity = top.Integrity
	}
	if top.Confidentiality != "" {
		s.Confidentiality = top.Confidentiality
	}
	return s
}

// Resolve validates the selection and produces a triple. The named profile,
// if any, supplies the starting levels; explicit levels override it. Without
// a profile all three levels are required.
func (s Selection) Resolve() (level.Triple, error) {
	var t level.Triple
	if s.Profile != "" {
		p, err := profile.Get(s.Profile)
		if err != nil {
			return level.Triple{}, err
		}
		t = p.Triple
	}

	fields := map[level.Dimension]string{
		level.Availability:    s.Availability,
		level.Integrity:       s.Integrity,
		level.Confidentiality: s.Confidentiality,
	}
	for _, d := range level.Dimensions {
		raw := fields[d]
		if raw == "" {
			if s.Profile == "" {
				return level.Triple{}, fmt.Errorf("%s: level is required when no profile is given", d)
			}
			continue
		}
		l, err := level.Parse(raw)
		if err != nil {
			return level.Triple{}, fmt.Errorf("%s: %w", d, err)
		}
		t = t.With(d, l)
	}
	return t, nil
}

// ParseTriple validates three level strings in A, I, C order.
func ParseTriple(availability, integrity, confidentiality string) (level.Triple, error) {
	return Selection{
		Availability:    availability,
		Integrity:       integrity,
		Confidentiality: confidentiality,
	}.Resolve()
}

// ParseCompact parses "A/I/C" notation such as "high/moderate/very-high".
func ParseCompact(s string) (level.Triple, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return level.Triple{}, fmt.Errorf("triple %q must have the form availability/integrity/confidentiality", s)
	}
	return ParseTriple(parts[0], parts[1], parts[2])
}
