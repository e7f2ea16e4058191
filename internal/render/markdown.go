package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dshills/ciaposture/internal/compliance"
	"github.com/dshills/ciaposture/internal/level"
	"github.com/dshills/ciaposture/internal/schema"
)

type markdownRenderer struct{}

var mdFuncs = template.FuncMap{
	"dims": func() []level.Dimension { return level.Dimensions[:] },
	"gaps": formatGaps,
}

var mdTemplate = template.Must(template.New("report").Funcs(mdFuncs).Parse(`# CIA Security Posture

**Levels:** Availability {{ .Posture.Triple.Availability }} | Integrity {{ .Posture.Triple.Integrity }} | Confidentiality {{ .Posture.Triple.Confidentiality }}
**Compliance:** {{ .Posture.ComplianceStatus }} ({{ printf "%.1f" .Posture.CompliancePercent }}%)
**Overall risk:** {{ .Posture.OverallRisk }} | **Security score:** {{ printf "%.1f" .Posture.SecurityScore }}/100
**CAPEX:** {{ printf "%g" .Posture.CapexPercent }}% | **OPEX:** {{ printf "%g" .Posture.OpexPercent }}% | **ROI:** {{ printf "%.2f" .Posture.ROIEstimate }}x
{{ if .Input.Profile }}> Profile: {{ .Input.Profile }}
{{ end }}{{ if .Input.File }}> Request: {{ .Input.File }} ({{ .Input.FileHash }})
{{ end }}
---

## Compliance Frameworks

| Framework | Status | Gaps |
|---|---|---|
{{ range .Posture.Frameworks }}| {{ .Name }} | {{ if .Satisfied }}Compliant{{ else }}Non-compliant{{ end }} | {{ gaps .Gaps }} |
{{ end }}
## Business Impact
{{ range $d := dims }}{{ with index $.Posture.Impact $d }}
### {{ $d.Title }} · {{ .LevelText }} · Risk {{ .RiskLevel }}

{{ .Description }}

**Business impact:** {{ .BusinessImpact }}
**Technical detail:** {{ .TechnicalDetail }}
{{ with .Financial }}**Financial:** {{ .Description }} (annual loss {{ .AnnualLoss }})
{{ end }}{{ with .Operational }}**Operational:** {{ .Description }} (recovery {{ .RecoveryTime }}, service level {{ .ServiceLevel }})
{{ end }}{{ if .Recommendations }}
Recommendations:
{{ range .Recommendations }}- {{ . }}
{{ end }}{{ end }}{{ end }}{{ end }}
---
*{{ .Tool }} {{ .Version }}*
`))

func (r *markdownRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// formatGaps renders framework gaps as "Integrity Low < High; ...", or a dash
// when there are none.
func formatGaps(gaps []compliance.Gap) string {
	if len(gaps) == 0 {
		return "–"
	}
	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = fmt.Sprintf("%s %s < %s", g.Dimension.Title(), g.Current, g.Required)
	}
	return strings.Join(parts, "; ")
}
