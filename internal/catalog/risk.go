package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Risk classifies exposure for a dimension. Higher protection maps to lower
// risk.
type Risk string

const (
	RiskCritical Risk = "Critical"
	RiskHigh     Risk = "High"
	RiskMedium   Risk = "Medium"
	RiskLow      Risk = "Low"
	RiskMinimal  Risk = "Minimal"
)

// ErrInvalidRisk is returned for text that names no risk classification.
var ErrInvalidRisk = errors.New("invalid risk level")

// RiskOrdinal orders risks by severity: Minimal(0) < Low(1) < Medium(2) <
// High(3) < Critical(4). Returns -1 for an unrecognised value.
func RiskOrdinal(r Risk) int {
	switch r {
	case RiskMinimal:
		return 0
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return -1
	}
}

// ParseRisk converts case-insensitive text to a Risk.
func ParseRisk(s string) (Risk, error) {
	for _, r := range []Risk{RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskMinimal} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: Critical, High, Medium, Low, Minimal)", ErrInvalidRisk, s)
}
