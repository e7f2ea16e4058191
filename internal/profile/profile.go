package profile

import (
	"fmt"
	"strings"

	"github.com/dshills/ciaposture/internal/level"
)

// Profile is a named starting triple for a common kind of organisation.
type Profile struct {
	Name        string
	Description string
	Triple      level.Triple
}

var builtins = map[string]func() *Profile{
	"minimal":    minimal,
	"startup":    startup,
	"ecommerce":  ecommerce,
	"healthcare": healthcare,
	"financial":  financial,
	"government": government,
}

// Names returns the built-in profile names in ascending protection order.
func Names() []string {
	return []string{"minimal", "startup", "ecommerce", "healthcare", "financial", "government"}
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	ctor, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q: valid profiles are %s", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Summary returns a one-line description suitable for listings.
func (p *Profile) Summary() string {
	return fmt.Sprintf("%-11s %-26s %s", p.Name, p.Triple, p.Description)
}
