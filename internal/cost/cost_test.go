package cost

import (
	"testing"

	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/level"
)

func TestCompute_AllNone(t *testing.T) {
	b := Compute(catalog.Default(), level.Uniform(level.None))
	if b.CapexPercent != 0 || b.OpexPercent != 0 {
		t.Errorf("capex/opex = %g/%g, want 0/0", b.CapexPercent, b.OpexPercent)
	}
	if b.ROIEstimate != catalog.Default().ROI().Baseline {
		t.Errorf("ROI = %g, want baseline %g", b.ROIEstimate, catalog.Default().ROI().Baseline)
	}
	if b.ROIEstimate < 0 {
		t.Error("ROI must be non-negative")
	}
}

func TestCompute_Additive(t *testing.T) {
	cat := catalog.Default()
	tr := level.Triple{Availability: level.High, Integrity: level.Moderate, Confidentiality: level.VeryHigh}
	b := Compute(cat, tr)

	var wantCapex, wantOpex float64
	for _, d := range level.Dimensions {
		rec := cat.Option(d, tr.Get(d))
		wantCapex += rec.Capex
		wantOpex += rec.Opex
		if b.PerDimension[d] != (Line{Capex: rec.Capex, Opex: rec.Opex}) {
			t.Errorf("PerDimension[%s] = %+v", d, b.PerDimension[d])
		}
	}
	if b.CapexPercent != wantCapex {
		t.Errorf("CapexPercent = %g, want %g", b.CapexPercent, wantCapex)
	}
	if b.OpexPercent != wantOpex {
		t.Errorf("OpexPercent = %g, want %g", b.OpexPercent, wantOpex)
	}
	// 15 + 10 + 35 and 8 + 5 + 15 with the built-in tables.
	if wantCapex != 60 || wantOpex != 28 {
		t.Errorf("built-in totals = %g/%g, want 60/28", wantCapex, wantOpex)
	}
}

func TestCompute_MonotoneUnderDominance(t *testing.T) {
	cat := catalog.Default()
	all := level.Each()
	for _, lo := range all {
		blo := Compute(cat, lo)
		for _, hi := range all {
			if !hi.Dominates(lo) {
				continue
			}
			bhi := Compute(cat, hi)
			if bhi.CapexPercent < blo.CapexPercent {
				t.Fatalf("capex %v=%g < %v=%g", hi, bhi.CapexPercent, lo, blo.CapexPercent)
			}
			if bhi.OpexPercent < blo.OpexPercent {
				t.Fatalf("opex %v=%g < %v=%g", hi, bhi.OpexPercent, lo, blo.OpexPercent)
			}
			if bhi.ROIEstimate < blo.ROIEstimate {
				t.Fatalf("roi %v=%g < %v=%g", hi, bhi.ROIEstimate, lo, blo.ROIEstimate)
			}
		}
	}
}

func TestCompute_ROISingleStepNeverDecreases(t *testing.T) {
	cat := catalog.Default()
	for _, tr := range level.Each() {
		base := Compute(cat, tr).ROIEstimate
		for _, d := range level.Dimensions {
			l := tr.Get(d)
			if l == level.VeryHigh {
				continue
			}
			raised := Compute(cat, tr.With(d, l+1)).ROIEstimate
			if raised < base {
				t.Errorf("raising %s on %v lowered ROI %g -> %g", d, tr, base, raised)
			}
		}
	}
}

func TestROI_SaturatesBelowCeiling(t *testing.T) {
	curve := catalog.ROICurve{Baseline: 0.5, Ceiling: 5, Rate: 0.6}
	if got := ROI(curve, 0); got != 0.5 {
		t.Errorf("ROI(0) = %g, want 0.5", got)
	}
	if got := ROI(curve, -1); got != 0.5 {
		t.Errorf("ROI(-1) = %g, want clamp to baseline", got)
	}
	prev := ROI(curve, 0)
	for r := 0.25; r <= 4; r += 0.25 {
		got := ROI(curve, r)
		if got < prev {
			t.Errorf("ROI(%g) = %g < ROI(%g) = %g", r, got, r-0.25, prev)
		}
		if got >= curve.Ceiling {
			t.Errorf("ROI(%g) = %g reached ceiling", r, got)
		}
		prev = got
	}
}

func TestROI_BuiltinTop(t *testing.T) {
	// 5 * (1 - e^-2.4) = 4.5464...
	if got := ROI(catalog.Default().ROI(), 4); got != 4.55 {
		t.Errorf("ROI(4) = %g, want 4.55", got)
	}
}
