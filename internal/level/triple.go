package level

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension is one of the three CIA security dimensions.
type Dimension string

const (
	Availability    Dimension = "availability"
	Integrity       Dimension = "integrity"
	Confidentiality Dimension = "confidentiality"
)

// ErrInvalidDimension is returned when a value names no CIA dimension.
var ErrInvalidDimension = errors.New("invalid security dimension")

// Dimensions lists the dimensions in canonical A, I, C order.
var Dimensions = [...]Dimension{Availability, Integrity, Confidentiality}

// Title returns the capitalised dimension name.
func (d Dimension) Title() string {
	switch d {
	case Availability:
		return "Availability"
	case Integrity:
		return "Integrity"
	case Confidentiality:
		return "Confidentiality"
	}
	return string(d)
}

// ParseDimension converts user-supplied text to a Dimension. Single-letter
// abbreviations a, i and c are accepted.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "availability", "a":
		return Availability, nil
	case "integrity", "i":
		return Integrity, nil
	case "confidentiality", "c":
		return Confidentiality, nil
	}
	return "", fmt.Errorf("%w: %q (supported: availability, integrity, confidentiality)", ErrInvalidDimension, s)
}

// Triple is the per-dimension level selection that drives every assessment.
// It is a plain value; callers own it and the engine never mutates it.
type Triple struct {
	Availability    Level `json:"availability" yaml:"availability"`
	Integrity       Level `json:"integrity" yaml:"integrity"`
	Confidentiality Level `json:"confidentiality" yaml:"confidentiality"`
}

// Uniform returns a triple with every dimension at l.
func Uniform(l Level) Triple {
	return Triple{Availability: l, Integrity: l, Confidentiality: l}
}

// Get returns the level selected for d. An unknown dimension yields None.
func (t Triple) Get(d Dimension) Level {
	switch d {
	case Availability:
		return t.Availability
	case Integrity:
		return t.Integrity
	case Confidentiality:
		return t.Confidentiality
	}
	return None
}

// With returns a copy of t with dimension d set to l.
func (t Triple) With(d Dimension, l Level) Triple {
	switch d {
	case Availability:
		t.Availability = l
	case Integrity:
		t.Integrity = l
	case Confidentiality:
		t.Confidentiality = l
	}
	return t
}

// Valid reports whether all three levels are in range.
func (t Triple) Valid() bool {
	return t.Availability.Valid() && t.Integrity.Valid() && t.Confidentiality.Valid()
}

// Dominates reports whether t is at or above other on every dimension.
func (t Triple) Dominates(other Triple) bool {
	for _, d := range Dimensions {
		if !AtOrAbove(t.Get(d), other.Get(d)) {
			return false
		}
	}
	return true
}

// MeanRank returns the average ordinal rank across the three dimensions.
func (t Triple) MeanRank() float64 {
	sum := Rank(t.Availability) + Rank(t.Integrity) + Rank(t.Confidentiality)
	return float64(sum) / float64(len(Dimensions))
}

// Min returns the weakest level in the triple.
func (t Triple) Min() Level {
	m := t.Availability
	for _, d := range Dimensions[1:] {
		if Compare(t.Get(d), m) < 0 {
			m = t.Get(d)
		}
	}
	return m
}

// String renders the triple as "A/I/C" display text.
func (t Triple) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Availability, t.Integrity, t.Confidentiality)
}

// Each returns every triple over the five levels, 125 in total,
// in lexicographic A, I, C rank order.
func Each() []Triple {
	out := make([]Triple, 0, 125)
	for _, a := range All() {
		for _, i := range All() {
			for _, c := range All() {
				out = append(out, Triple{Availability: a, Integrity: i, Confidentiality: c})
			}
		}
	}
	return out
}
