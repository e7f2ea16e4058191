package compliance

import (
	"fmt"
	"strings"

	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/level"
)

// Status is the compliance classification derived from the percentage of
// satisfied frameworks.
type Status string

const (
	StatusNonCompliant Status = "Non-Compliant"
	StatusBasic        Status = "Basic Compliance"
	StatusStandard     Status = "Standard Compliance"
	StatusFull         Status = "Full Compliance"
)

// StatusOrdinal returns the numeric ordering for a status, used by
// --fail-below comparison. Non-Compliant(0) < Basic(1) < Standard(2) <
// Full(3). Returns -1 for an unrecognised status.
func StatusOrdinal(s Status) int {
	switch s {
	case StatusNonCompliant:
		return 0
	case StatusBasic:
		return 1
	case StatusStandard:
		return 2
	case StatusFull:
		return 3
	default:
		return -1
	}
}

// ParseStatus accepts the display text or the short forms none, basic,
// standard and full, in any case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "non-compliant":
		return StatusNonCompliant, nil
	case "basic", "basic compliance":
		return StatusBasic, nil
	case "standard", "standard compliance":
		return StatusStandard, nil
	case "full", "full compliance":
		return StatusFull, nil
	}
	return "", fmt.Errorf("unknown compliance status %q: valid values are none, basic, standard, full", s)
}

// Gap is one dimension falling short of a framework's minimum.
type Gap struct {
	Dimension level.Dimension `json:"dimension" yaml:"dimension"`
	Required  level.Level     `json:"required" yaml:"required"`
	Current   level.Level     `json:"current" yaml:"current"`
}

// Result is the verdict for one framework.
type Result struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Satisfied bool   `json:"satisfied" yaml:"satisfied"`
	Gaps      []Gap  `json:"gaps,omitempty" yaml:"gaps,omitempty"`
}

// Evaluation is the compliance evaluator output for one triple.
type Evaluation struct {
	Results   []Result
	Satisfied map[string]bool
	Percent   float64
	Status    Status
}

// Evaluate checks every configured framework against t. Results keep the
// catalog's framework order.
func Evaluate(cat *catalog.Catalog, t level.Triple) Evaluation {
	frameworks := cat.Frameworks()
	ev := Evaluation{
		Results:   make([]Result, 0, len(frameworks)),
		Satisfied: make(map[string]bool, len(frameworks)),
	}
	for _, f := range frameworks {
		r := Result{
			ID:        f.ID,
			Name:      f.Name,
			Satisfied: f.Satisfied(t),
			Gaps:      gaps(f, t),
		}
		ev.Results = append(ev.Results, r)
		ev.Satisfied[f.ID] = r.Satisfied
	}
	satisfied, total := Counts(ev.Results)
	ev.Percent = Percent(satisfied, total)
	ev.Status = Classify(ev.Percent, cat.Bands())
	return ev
}

// gaps lists the dimensions of t below f's minimums in A, I, C order.
func gaps(f catalog.Framework, t level.Triple) []Gap {
	var out []Gap
	for _, d := range f.SortedRequirementDimensions() {
		required := f.Requirements[d]
		if current := t.Get(d); !level.AtOrAbove(current, required) {
			out = append(out, Gap{Dimension: d, Required: required, Current: current})
		}
	}
	return out
}

// Counts returns the number of satisfied frameworks and the total.
func Counts(results []Result) (satisfied, total int) {
	for _, r := range results {
		if r.Satisfied {
			satisfied++
		}
	}
	return satisfied, len(results)
}

// Percent returns satisfied/total as a percentage. An empty framework set
// yields 0.
func Percent(satisfied, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(satisfied) / float64(total) * 100
}

// Classify maps a compliance percentage to a Status. The bands partition
// [0, 100]: exactly 0 is Non-Compliant, below StandardMin is Basic, below 100
// is Standard and 100 is Full.
func Classify(percent float64, bands catalog.Bands) Status {
	switch {
	case percent <= 0:
		return StatusNonCompliant
	case percent < bands.StandardMin:
		return StatusBasic
	case percent < 100:
		return StatusStandard
	default:
		return StatusFull
	}
}
