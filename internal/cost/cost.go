package cost

import (
	"math"

	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/level"
)

// Line is one dimension's contribution to the aggregate cost.
type Line struct {
	Capex float64 `json:"capex" yaml:"capex"`
	Opex  float64 `json:"opex" yaml:"opex"`
}

// Breakdown is the cost model output for one triple.
type Breakdown struct {
	CapexPercent float64                  `json:"capex_percent" yaml:"capex_percent"`
	OpexPercent  float64                  `json:"opex_percent" yaml:"opex_percent"`
	ROIEstimate  float64                  `json:"roi_estimate" yaml:"roi_estimate"`
	PerDimension map[level.Dimension]Line `json:"per_dimension" yaml:"per_dimension"`
}

// Compute sums the selected option records into capex and opex percentages
// and derives the ROI estimate. Each dimension's controls are funded
// independently, so the totals are additive rather than averaged.
func Compute(cat *catalog.Catalog, t level.Triple) Breakdown {
	b := Breakdown{
		PerDimension: make(map[level.Dimension]Line, len(level.Dimensions)),
	}
	for _, d := range level.Dimensions {
		rec := cat.Option(d, t.Get(d))
		b.CapexPercent += rec.Capex
		b.OpexPercent += rec.Opex
		b.PerDimension[d] = Line{Capex: rec.Capex, Opex: rec.Opex}
	}
	b.ROIEstimate = ROI(cat.ROI(), t.MeanRank())
	return b
}

// ROI maps a mean rank in [0, 4] onto the saturating curve
// baseline + (ceiling-baseline)*(1-e^(-rate*meanRank)), rounded to two
// decimals. The result equals baseline at rank 0 and approaches ceiling
// without exceeding it.
func ROI(curve catalog.ROICurve, meanRank float64) float64 {
	if meanRank < 0 {
		meanRank = 0
	}
	v := curve.Baseline + (curve.Ceiling-curve.Baseline)*(1-math.Exp(-curve.Rate*meanRank))
	return math.Round(v*100) / 100
}
