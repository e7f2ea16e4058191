package schema

import "github.com/dshills/ciaposture/internal/posture"

// Report is the top-level output document for one assessment.
type Report struct {
	Tool    string          `json:"tool" yaml:"tool"`
	Version string          `json:"version" yaml:"version"`
	Input   Input           `json:"input" yaml:"input"`
	Posture posture.Posture `json:"posture" yaml:"posture"`
}

// Input captures where the assessed triple came from.
type Input struct {
	Profile  string `json:"profile,omitempty" yaml:"profile,omitempty"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	FileHash string `json:"file_hash,omitempty" yaml:"file_hash,omitempty"` // SHA-256 of the request file
}

// NewReport wraps p with run metadata.
func NewReport(version string, in Input, p posture.Posture) *Report {
	return &Report{
		Tool:    "ciaposture",
		Version: version,
		Input:   in,
		Posture: p,
	}
}
