// Package posture derives the full security posture for a CIA level triple.
//
// Assess is the only entry point collaborators use. Every consumer of a
// posture receives the same value from one call; nothing recomputes cost,
// compliance or impact on its own.
package posture

import (
	"math"

	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/compliance"
	"github.com/dshills/ciaposture/internal/cost"
	"github.com/dshills/ciaposture/internal/impact"
	"github.com/dshills/ciaposture/internal/level"
)

// Posture is the derived metrics bundle for one triple. It is built whole on
// every call and compared by value.
type Posture struct {
	Triple            level.Triple                          `json:"triple" yaml:"triple"`
	CapexPercent      float64                               `json:"capex_percent" yaml:"capex_percent"`
	OpexPercent       float64                               `json:"opex_percent" yaml:"opex_percent"`
	ROIEstimate       float64                               `json:"roi_estimate" yaml:"roi_estimate"`
	Cost              map[level.Dimension]cost.Line         `json:"cost_by_dimension" yaml:"cost_by_dimension"`
	Compliance        map[string]bool                       `json:"compliance" yaml:"compliance"`
	Frameworks        []compliance.Result                   `json:"frameworks" yaml:"frameworks"`
	CompliancePercent float64                               `json:"compliance_percent" yaml:"compliance_percent"`
	ComplianceStatus  compliance.Status                     `json:"compliance_status" yaml:"compliance_status"`
	Impact            map[level.Dimension]impact.Descriptor `json:"impact" yaml:"impact"`
	OverallRisk       catalog.Risk                          `json:"overall_risk" yaml:"overall_risk"`
	SecurityScore     float64                               `json:"security_score" yaml:"security_score"`
}

// Engine assesses triples against one catalog. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
}

// New returns an Engine backed by cat.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

var defaultEngine = New(catalog.Default())

// Assess derives the posture for t using the built-in catalog.
func Assess(t level.Triple) Posture {
	return defaultEngine.Assess(t)
}

// Assess derives the posture for t. The same t always yields an equal
// Posture. t must hold valid levels; validation happens at the input
// boundary, not here.
func (e *Engine) Assess(t level.Triple) Posture {
	c := cost.Compute(e.cat, t)
	ev := compliance.Evaluate(e.cat, t)

	return Posture{
		Triple:            t,
		CapexPercent:      c.CapexPercent,
		OpexPercent:       c.OpexPercent,
		ROIEstimate:       c.ROIEstimate,
		Cost:              c.PerDimension,
		Compliance:        ev.Satisfied,
		Frameworks:        ev.Results,
		CompliancePercent: ev.Percent,
		ComplianceStatus:  ev.Status,
		Impact:            impact.ResolveAll(e.cat, t),
		OverallRisk:       impact.Overall(e.cat, t),
		SecurityScore:     SecurityScore(t),
	}
}

// SecurityScore expresses the mean level rank on a 0-100 scale, rounded to
// one decimal.
func SecurityScore(t level.Triple) float64 {
	top := float64(level.Rank(level.VeryHigh))
	return math.Round(t.MeanRank()/top*1000) / 10
}
