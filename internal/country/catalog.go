// Package country holds the static flag dataset the quiz draws from.
// The engine treats it as an opaque read-only catalog.
package country

import (
	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/errors"
)

var catalog = []domain.Country{
	{Name: "Argentina", Flag: "🇦🇷"},
	{Name: "Australia", Flag: "🇦🇺"},
	{Name: "Brazil", Flag: "🇧🇷"},
	{Name: "Canada", Flag: "🇨🇦"},
	{Name: "China", Flag: "🇨🇳"},
	{Name: "Egypt", Flag: "🇪🇬"},
	{Name: "France", Flag: "🇫🇷"},
	{Name: "Germany", Flag: "🇩🇪"},
	{Name: "Greece", Flag: "🇬🇷"},
	{Name: "India", Flag: "🇮🇳"},
	{Name: "Indonesia", Flag: "🇮🇩"},
	{Name: "Italy", Flag: "🇮🇹"},
	{Name: "Japan", Flag: "🇯🇵"},
	{Name: "Kenya", Flag: "🇰🇪"},
	{Name: "Mexico", Flag: "🇲🇽"},
	{Name: "Netherlands", Flag: "🇳🇱"},
	{Name: "Nigeria", Flag: "🇳🇬"},
	{Name: "Norway", Flag: "🇳🇴"},
	{Name: "Portugal", Flag: "🇵🇹"},
	{Name: "South Africa", Flag: "🇿🇦"},
	{Name: "South Korea", Flag: "🇰🇷"},
	{Name: "Spain", Flag: "🇪🇸"},
	{Name: "Sweden", Flag: "🇸🇪"},
	{Name: "Switzerland", Flag: "🇨🇭"},
	{Name: "Thailand", Flag: "🇹🇭"},
	{Name: "Turkey", Flag: "🇹🇷"},
	{Name: "United Kingdom", Flag: "🇬🇧"},
	{Name: "United States", Flag: "🇺🇸"},
	{Name: "Vietnam", Flag: "🇻🇳"},
}

// Default returns a copy of the built-in catalog.
func Default() []domain.Country {
	return append([]domain.Country(nil), catalog...)
}

// Validate checks the invariants the engine relies on: unique non-empty
// names and enough entries for the largest difficulty.
func Validate(countries []domain.Country) error {
	if len(countries) < domain.MaxOptionsCount {
		return errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("catalog has %d countries, need at least %d", len(countries), domain.MaxOptionsCount))
	}

	seen := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if c.Name == "" {
			return errors.New(errors.CodeFailedPrecondition,
				errors.WithMessagef("catalog entry with flag %q has no name", c.Flag))
		}
		if _, ok := seen[c.Name]; ok {
			return errors.New(errors.CodeFailedPrecondition,
				errors.WithMessagef("duplicate catalog entry: %s", c.Name))
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}
