package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dshills/ciaposture/internal/level"
)

//go:embed builtin.yaml
var builtinYAML []byte

// OptionRecord describes the controls, cost and guidance for one
// dimension at one level.
type OptionRecord struct {
	Description     string   `yaml:"description"`
	TechnicalDetail string   `yaml:"technical_detail"`
	BusinessImpact  string   `yaml:"business_impact"`
	Capex           float64  `yaml:"capex"`
	Opex            float64  `yaml:"opex"`
	Recommendations []string `yaml:"recommendations"`
}

// Framework is a named compliance standard expressed as minimum levels on
// the dimensions it cares about. Dimensions absent from Requirements are
// unconstrained.
type Framework struct {
	ID           string
	Name         string
	Description  string
	Requirements map[level.Dimension]level.Level
}

// Satisfied reports whether t meets every requirement of f.
func (f Framework) Satisfied(t level.Triple) bool {
	for d, required := range f.Requirements {
		if !level.AtOrAbove(t.Get(d), required) {
			return false
		}
	}
	return true
}

// Bands holds the compliance-percentage thresholds. Zero is Non-Compliant,
// (0, StandardMin) is Basic, [StandardMin, 100) is Standard and 100 is Full.
type Bands struct {
	StandardMin float64 `yaml:"standard_min"`
}

// ROICurve parameterises the saturating return-on-investment curve.
type ROICurve struct {
	Baseline float64 `yaml:"baseline"`
	Ceiling  float64 `yaml:"ceiling"`
	Rate     float64 `yaml:"rate"`
}

// FinancialMetrics quantifies the money side of a dimension's level.
type FinancialMetrics struct {
	Description string `yaml:"description" json:"description"`
	AnnualLoss  string `yaml:"annual_loss" json:"annual_loss"`
}

// OperationalMetrics quantifies the operations side of a dimension's level.
type OperationalMetrics struct {
	Description  string `yaml:"description" json:"description"`
	RecoveryTime string `yaml:"recovery_time" json:"recovery_time"`
	ServiceLevel string `yaml:"service_level" json:"service_level"`
}

// Metrics pairs the financial and operational metrics for one entry.
type Metrics struct {
	Financial   FinancialMetrics   `yaml:"financial"`
	Operational OperationalMetrics `yaml:"operational"`
}

// Catalog is the process-wide, read-only posture configuration.
// A *Catalog returned by Parse or Default is complete and never mutated.
type Catalog struct {
	options    map[level.Dimension][5]OptionRecord
	frameworks []Framework
	bands      Bands
	roi        ROICurve
	risk       [5]Risk
	metricsMin level.Level
	metrics    map[level.Dimension]map[level.Level]Metrics
}

// document mirrors the YAML layout of builtin.yaml.
type document struct {
	Options    map[string]map[string]OptionRecord `yaml:"options"`
	Frameworks []struct {
		ID           string            `yaml:"id"`
		Name         string            `yaml:"name"`
		Description  string            `yaml:"description"`
		Requirements map[string]string `yaml:"requirements"`
	} `yaml:"frameworks"`
	Compliance Bands             `yaml:"compliance"`
	ROI        ROICurve          `yaml:"roi"`
	Risk       map[string]string `yaml:"risk"`
	Impact     struct {
		MetricsMinLevel string                        `yaml:"metrics_min_level"`
		Metrics         map[string]map[string]Metrics `yaml:"metrics"`
	} `yaml:"impact"`
}

var defaultCatalog = mustParse(builtinYAML)

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("built-in posture catalog is invalid: %s", err))
	}
	return c
}

// Default returns the built-in catalog. It is parsed and validated during
// package initialisation; a defect there aborts the process.
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes and validates a catalog document. Unknown keys, missing
// option entries, decreasing costs and malformed frameworks are all errors.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		options: make(map[level.Dimension][5]OptionRecord, len(level.Dimensions)),
		bands:   doc.Compliance,
		roi:     doc.ROI,
		metrics: make(map[level.Dimension]map[level.Level]Metrics, len(level.Dimensions)),
	}

	if err := c.loadOptions(doc.Options); err != nil {
		return nil, err
	}
	if err := c.loadFrameworks(doc); err != nil {
		return nil, err
	}
	if err := validateBands(c.bands); err != nil {
		return nil, err
	}
	if err := validateROI(c.roi); err != nil {
		return nil, err
	}
	if err := c.loadRisk(doc.Risk); err != nil {
		return nil, err
	}
	if err := c.loadMetrics(doc.Impact.MetricsMinLevel, doc.Impact.Metrics); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadOptions(raw map[string]map[string]OptionRecord) error {
	for key, byLevel := range raw {
		d, err := level.ParseDimension(key)
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		if _, dup := c.options[d]; dup {
			return fmt.Errorf("options: duplicate entry for dimension %s", d)
		}
		var table [5]OptionRecord
		seen := make(map[level.Level]bool, len(byLevel))
		for lk, rec := range byLevel {
			l, err := level.Parse(lk)
			if err != nil {
				return fmt.Errorf("options.%s: %w", d, err)
			}
			if seen[l] {
				return fmt.Errorf("options.%s: duplicate entry for level %s", d, l)
			}
			seen[l] = true
			table[l] = rec
		}
		for _, l := range level.All() {
			if !seen[l] {
				return fmt.Errorf("options.%s: missing entry for level %s", d, l)
			}
		}
		if err := validateCosts(d, table); err != nil {
			return err
		}
		c.options[d] = table
	}
	for _, d := range level.Dimensions {
		if _, ok := c.options[d]; !ok {
			return fmt.Errorf("options: missing dimension %s", d)
		}
	}
	return nil
}

func validateCosts(d level.Dimension, table [5]OptionRecord) error {
	for i, rec := range table {
		l := level.Level(i)
		if rec.Capex < 0 || rec.Opex < 0 {
			return fmt.Errorf("options.%s.%s: capex and opex must be non-negative", d, l)
		}
		if rec.Description == "" {
			return fmt.Errorf("options.%s.%s: description is required", d, l)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if rec.Capex < prev.Capex {
			return fmt.Errorf("options.%s.%s: capex %g is below %s capex %g", d, l, rec.Capex, level.Level(i-1), prev.Capex)
		}
		if rec.Opex < prev.Opex {
			return fmt.Errorf("options.%s.%s: opex %g is below %s opex %g", d, l, rec.Opex, level.Level(i-1), prev.Opex)
		}
	}
	return nil
}

func (c *Catalog) loadFrameworks(doc document) error {
	if len(doc.Frameworks) == 0 {
		return fmt.Errorf("frameworks: at least one framework is required")
	}
	ids := make(map[string]bool, len(doc.Frameworks))
	for i, raw := range doc.Frameworks {
		prefix := fmt.Sprintf("frameworks[%d]", i)
		if raw.ID == "" {
			return fmt.Errorf("%s: id is required", prefix)
		}
		if ids[raw.ID] {
			return fmt.Errorf("%s: duplicate id %q", prefix, raw.ID)
		}
		ids[raw.ID] = true
		if raw.Name == "" {
			return fmt.Errorf("%s (%s): name is required", prefix, raw.ID)
		}
		if len(raw.Requirements) == 0 {
			return fmt.Errorf("%s (%s): at least one requirement is required", prefix, raw.ID)
		}
		reqs := make(map[level.Dimension]level.Level, len(raw.Requirements))
		for dk, lk := range raw.Requirements {
			d, err := level.ParseDimension(dk)
			if err != nil {
				return fmt.Errorf("%s (%s): %w", prefix, raw.ID, err)
			}
			if _, dup := reqs[d]; dup {
				return fmt.Errorf("%s (%s): duplicate entry for dimension %s", prefix, raw.ID, d)
			}
			l, err := level.Parse(lk)
			if err != nil {
				return fmt.Errorf("%s (%s).%s: %w", prefix, raw.ID, d, err)
			}
			reqs[d] = l
		}
		c.frameworks = append(c.frameworks, Framework{
			ID:           raw.ID,
			Name:         raw.Name,
			Description:  raw.Description,
			Requirements: reqs,
		})
	}
	return nil
}

func validateBands(b Bands) error {
	if b.StandardMin <= 0 || b.StandardMin >= 100 {
		return fmt.Errorf("compliance.standard_min must be strictly between 0 and 100, got %g", b.StandardMin)
	}
	return nil
}

func validateROI(r ROICurve) error {
	if r.Baseline < 0 {
		return fmt.Errorf("roi.baseline must be non-negative, got %g", r.Baseline)
	}
	if r.Ceiling <= r.Baseline {
		return fmt.Errorf("roi.ceiling %g must exceed roi.baseline %g", r.Ceiling, r.Baseline)
	}
	if r.Rate <= 0 {
		return fmt.Errorf("roi.rate must be > 0, got %g", r.Rate)
	}
	return nil
}

func (c *Catalog) loadRisk(raw map[string]string) error {
	seen := make(map[level.Level]bool, len(raw))
	for lk, rk := range raw {
		l, err := level.Parse(lk)
		if err != nil {
			return fmt.Errorf("risk: %w", err)
		}
		r, err := ParseRisk(rk)
		if err != nil {
			return fmt.Errorf("risk.%s: %w", l, err)
		}
		if seen[l] {
			return fmt.Errorf("risk: duplicate entry for level %s", l)
		}
		c.risk[l] = r
		seen[l] = true
	}
	for _, l := range level.All() {
		if !seen[l] {
			return fmt.Errorf("risk: missing entry for level %s", l)
		}
		if l > level.None && RiskOrdinal(c.risk[l]) > RiskOrdinal(c.risk[l-1]) {
			return fmt.Errorf("risk.%s: %s is more severe than %s at %s", l, c.risk[l], c.risk[l-1], l-1)
		}
	}
	return nil
}

func (c *Catalog) loadMetrics(minText string, raw map[string]map[string]Metrics) error {
	threshold, err := level.Parse(minText)
	if err != nil {
		return fmt.Errorf("impact.metrics_min_level: %w", err)
	}
	c.metricsMin = threshold
	for dk, byLevel := range raw {
		d, err := level.ParseDimension(dk)
		if err != nil {
			return fmt.Errorf("impact.metrics: %w", err)
		}
		if _, dup := c.metrics[d]; dup {
			return fmt.Errorf("impact.metrics: duplicate entry for dimension %s", d)
		}
		m := make(map[level.Level]Metrics, len(byLevel))
		for lk, metrics := range byLevel {
			l, err := level.Parse(lk)
			if err != nil {
				return fmt.Errorf("impact.metrics.%s: %w", d, err)
			}
			if _, dup := m[l]; dup {
				return fmt.Errorf("impact.metrics.%s: duplicate entry for level %s", d, l)
			}
			m[l] = metrics
		}
		c.metrics[d] = m
	}
	for _, d := range level.Dimensions {
		for _, l := range level.All() {
			if !level.AtOrAbove(l, threshold) {
				continue
			}
			if _, ok := c.metrics[d][l]; !ok {
				return fmt.Errorf("impact.metrics.%s: missing entry for level %s", d, l)
			}
		}
	}
	return nil
}

// Option returns the option record for d at l. The catalog is complete, so
// every valid pair has an entry.
func (c *Catalog) Option(d level.Dimension, l level.Level) OptionRecord {
	return c.options[d][l]
}

// Frameworks returns the configured frameworks in document order.
func (c *Catalog) Frameworks() []Framework {
	out := make([]Framework, len(c.frameworks))
	copy(out, c.frameworks)
	return out
}

// Framework looks up a framework by id.
func (c *Catalog) Framework(id string) (Framework, bool) {
	for _, f := range c.frameworks {
		if f.ID == id {
			return f, true
		}
	}
	return Framework{}, false
}

// Bands returns the compliance classification thresholds.
func (c *Catalog) Bands() Bands { return c.bands }

// ROI returns the return-on-investment curve parameters.
func (c *Catalog) ROI() ROICurve { return c.roi }

// Risk returns the risk classification for a dimension held at l.
func (c *Catalog) Risk(l level.Level) Risk { return c.risk[l] }

// MetricsMinLevel is the lowest level at which impact metrics are reported.
func (c *Catalog) MetricsMinLevel() level.Level { return c.metricsMin }

// Metrics returns the impact metrics for d at l. ok is false below
// MetricsMinLevel.
func (c *Catalog) Metrics(d level.Dimension, l level.Level) (Metrics, bool) {
	if !level.AtOrAbove(l, c.metricsMin) {
		return Metrics{}, false
	}
	m, ok := c.metrics[d][l]
	return m, ok
}

// SortedRequirementDimensions returns the dimensions f constrains in
// canonical A, I, C order.
func (f Framework) SortedRequirementDimensions() []level.Dimension {
	dims := make([]level.Dimension, 0, len(f.Requirements))
	for d := range f.Requirements {
		dims = append(dims, d)
	}
	order := map[level.Dimension]int{level.Availability: 0, level.Integrity: 1, level.Confidentiality: 2}
	sort.Slice(dims, func(i, j int) bool { return order[dims[i]] < order[dims[j]] })
	return dims
}
