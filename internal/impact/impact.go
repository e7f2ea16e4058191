package impact

import (
	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/level"
)

// Descriptor is the business impact of holding one dimension at one level.
// Financial and Operational are nil below the catalog's metrics threshold;
// that is an expected state, not an error.
type Descriptor struct {
	Dimension       level.Dimension             `json:"dimension" yaml:"dimension"`
	Level           level.Level                 `json:"level" yaml:"level"`
	LevelText       string                      `json:"level_text" yaml:"level_text"`
	Description     string                      `json:"description" yaml:"description"`
	TechnicalDetail string                      `json:"technical_detail" yaml:"technical_detail"`
	BusinessImpact  string                      `json:"business_impact" yaml:"business_impact"`
	Recommendations []string                    `json:"recommendations" yaml:"recommendations"`
	RiskLevel       catalog.Risk                `json:"risk_level" yaml:"risk_level"`
	Financial       *catalog.FinancialMetrics   `json:"financial_metrics,omitempty" yaml:"financial_metrics,omitempty"`
	Operational     *catalog.OperationalMetrics `json:"operational_metrics,omitempty" yaml:"operational_metrics,omitempty"`
}

// Resolve builds the descriptor for d at l. It depends on nothing but d and
// l, so changing one dimension never alters another's descriptor.
func Resolve(cat *catalog.Catalog, d level.Dimension, l level.Level) Descriptor {
	rec := cat.Option(d, l)
	desc := Descriptor{
		Dimension:       d,
		Level:           l,
		LevelText:       l.String(),
		Description:     rec.Description,
		TechnicalDetail: rec.TechnicalDetail,
		BusinessImpact:  rec.BusinessImpact,
		Recommendations: append([]string(nil), rec.Recommendations...),
		RiskLevel:       cat.Risk(l),
	}
	if m, ok := cat.Metrics(d, l); ok {
		fin := m.Financial
		ops := m.Operational
		desc.Financial = &fin
		desc.Operational = &ops
	}
	return desc
}

// ResolveAll resolves every dimension of t.
func ResolveAll(cat *catalog.Catalog, t level.Triple) map[level.Dimension]Descriptor {
	out := make(map[level.Dimension]Descriptor, len(level.Dimensions))
	for _, d := range level.Dimensions {
		out[d] = Resolve(cat, d, t.Get(d))
	}
	return out
}

// Overall returns the risk of the weakest dimension in t.
func Overall(cat *catalog.Catalog, t level.Triple) catalog.Risk {
	return cat.Risk(t.Min())
}
