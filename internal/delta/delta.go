package delta

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/ciaposture/internal/level"
	"github.com/dshills/ciaposture/internal/posture"
)

// Change is one field that differs between two postures.
type Change struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Delta lists what moves when the triple changes from From to To.
type Delta struct {
	From    level.Triple `json:"from"`
	To      level.Triple `json:"to"`
	Changes []Change     `json:"changes"`
}

// Compare reports every headline metric, framework verdict and
// per-dimension risk that differs between from and to, in a stable order.
func Compare(from, to posture.Posture) Delta {
	d := Delta{From: from.Triple, To: to.Triple, Changes: []Change{}}
	add := func(field, a, b string) {
		if a != b {
			d.Changes = append(d.Changes, Change{Field: field, From: a, To: b})
		}
	}

	for _, dim := range level.Dimensions {
		add("level."+string(dim), from.Triple.Get(dim).String(), to.Triple.Get(dim).String())
	}
	add("capex_percent", num(from.CapexPercent), num(to.CapexPercent))
	add("opex_percent", num(from.OpexPercent), num(to.OpexPercent))
	add("roi_estimate", num(from.ROIEstimate), num(to.ROIEstimate))
	add("compliance_percent", num(from.CompliancePercent), num(to.CompliancePercent))
	add("compliance_status", string(from.ComplianceStatus), string(to.ComplianceStatus))
	add("overall_risk", string(from.OverallRisk), string(to.OverallRisk))
	add("security_score", num(from.SecurityScore), num(to.SecurityScore))

	for _, r := range to.Frameworks {
		add("framework."+r.ID, verdict(from.Compliance[r.ID]), verdict(r.Satisfied))
	}
	for _, dim := range level.Dimensions {
		add("risk."+string(dim), string(from.Impact[dim].RiskLevel), string(to.Impact[dim].RiskLevel))
	}
	return d
}

// Empty reports whether the two postures were equal on every compared field.
func (d Delta) Empty() bool {
	return len(d.Changes) == 0
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func verdict(ok bool) string {
	if ok {
		return "compliant"
	}
	return "non-compliant"
}

// Diff produces a diff-match-patch patch that turns fromText into toText,
// typically two rendered markdown reports. Both inputs are normalized first
// so line-ending and trailing-whitespace noise does not show up. Identical
// inputs yield "".
func Diff(fromText, toText string) string {
	a, b := normalize(fromText), normalize(toText)
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(a, diffs))
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
