package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/ciaposture/internal/schema"
)

type yamlRenderer struct{}

func (r *yamlRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	return buf.Bytes(), nil
}
