package profile

import "github.com/dshills/ciaposture/internal/level"

func minimal() *Profile {
	return &Profile{
		Name:        "minimal",
		Description: "Internal tools with no regulated data",
		Triple:      level.Uniform(level.Low),
	}
}

func startup() *Profile {
	return &Profile{
		Name:        "startup",
		Description: "Early-stage SaaS preparing for SOC 2",
		Triple:      level.Uniform(level.Moderate),
	}
}

func ecommerce() *Profile {
	return &Profile{
		Name:        "ecommerce",
		Description: "Online retail where uptime and order integrity drive revenue",
		Triple: level.Triple{
			Availability:    level.High,
			Integrity:       level.High,
			Confidentiality: level.Moderate,
		},
	}
}
