package profile

import "github.com/dshills/ciaposture/internal/level"

func healthcare() *Profile {
	return &Profile{
		Name:        "healthcare",
		Description: "Providers handling protected health information",
		Triple: level.Triple{
			Availability:    level.Moderate,
			Integrity:       level.High,
			Confidentiality: level.High,
		},
	}
}

func financial() *Profile {
	return &Profile{
		Name:        "financial",
		Description: "Banks and payment processors",
		Triple: level.Triple{
			Availability:    level.High,
			Integrity:       level.VeryHigh,
			Confidentiality: level.VeryHigh,
		},
	}
}

func government() *Profile {
	return &Profile{
		Name:        "government",
		Description: "High-impact federal systems",
		Triple:      level.Uniform(level.VeryHigh),
	}
}
