package level

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a protection level for one CIA dimension.
// Levels are totally ordered by rank; never compare their text.
type Level int

const (
	None Level = iota
	Low
	Moderate
	High
	VeryHigh
)

// ErrInvalidLevel is returned when a value is not one of the five levels.
var ErrInvalidLevel = errors.New("invalid security level")

var levelText = [...]string{
	None:     "None",
	Low:      "Low",
	Moderate: "Moderate",
	High:     "High",
	VeryHigh: "Very High",
}

// All returns every level in ascending rank order.
func All() []Level {
	return []Level{None, Low, Moderate, High, VeryHigh}
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= None && l <= VeryHigh
}

// String returns the display text, e.g. "Very High".
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelText[l]
}

// Rank returns the ordinal 0..4.
func Rank(l Level) int {
	return int(l)
}

// Compare returns -1, 0 or 1 as a ranks below, equal to, or above b.
func Compare(a, b Level) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// AtOrAbove reports whether l meets the minimum level min.
func AtOrAbove(l, min Level) bool {
	return Rank(l) >= Rank(min)
}

// Parse converts user-supplied text to a Level. It accepts the display text
// in any case, hyphen/underscore/space variants of "Very High", and the bare
// ordinals "0" through "4".
func Parse(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "0":
		return None, nil
	case "1":
		return Low, nil
	case "2":
		return Moderate, nil
	case "3":
		return High, nil
	case "4":
		return VeryHigh, nil
	}

	// Hyphen and underscore only stand in for the space inside "very high".
	switch strings.NewReplacer("-", " ", "_", " ").Replace(key) {
	case "none":
		return None, nil
	case "low":
		return Low, nil
	case "moderate", "medium":
		return Moderate, nil
	case "high":
		return High, nil
	case "very high", "veryhigh":
		return VeryHigh, nil
	}
	return None, fmt.Errorf("%w: %q (supported: none, low, moderate, high, very-high)", ErrInvalidLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
