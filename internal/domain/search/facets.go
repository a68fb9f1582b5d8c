package search

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Facets summarises the catalog for building filter controls.
type Facets struct {
	// Series lists distinct series in first-seen order, preceded by All.
	Series         []string
	Availabilities []string
	Sorts          []Sort
	InStock        int
	OutOfStock     int
	MinPrice       decimal.Decimal
	MaxPrice       decimal.Decimal
}

// Facets computes filter metadata over the whole catalog.
func (s *Service) Facets() Facets {
	f := Facets{
		Series:         []string{All},
		Availabilities: slices.Clone(Availabilities),
		Sorts:          slices.Clone(Sorts),
	}

	seen := make(map[string]struct{})
	for i, p := range s.catalog {
		if _, ok := seen[p.Series]; !ok && p.Series != "" {
			seen[p.Series] = struct{}{}
			f.Series = append(f.Series, p.Series)
		}
		if p.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}
		if i == 0 {
			f.MinPrice, f.MaxPrice = s.from[i], s.from[i]
			continue
		}
		f.MinPrice = decimal.Min(f.MinPrice, s.from[i])
		f.MaxPrice = decimal.Max(f.MaxPrice, s.from[i])
	}
	return f
}
