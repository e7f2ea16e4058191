package render

import (
	"fmt"

	"github.com/dshills/ciaposture/internal/schema"
)

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(report *schema.Report) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "md", "yaml".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "yaml":
		return &yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, md, yaml", format)
	}
}
