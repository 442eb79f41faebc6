package citymatch

import (
	"github.com/cor0nius/cityreg/internal/levenshtein"
)

// DefaultMaxDistance is the largest edit distance still treated as a typo.
const DefaultMaxDistance = 3

// Kind classifies a resolution result.
type Kind string

const (
	KindExact   Kind = "exact"
	KindFuzzy   Kind = "fuzzy"
	KindNoMatch Kind = "no_match"
)

// Verdict is the outcome of resolving one input against the catalog.
// City and Distance are only meaningful for KindExact and KindFuzzy.
type Verdict struct {
	Kind     Kind
	City     string
	Distance int
}

func Exact(city string) Verdict {
	return Verdict{Kind: KindExact, City: city}
}

func Fuzzy(city string, distance int) Verdict {
	return Verdict{Kind: KindFuzzy, City: city, Distance: distance}
}

func NoMatch() Verdict {
	return Verdict{Kind: KindNoMatch}
}

// Resolver matches input against a Catalog. It holds no mutable state and
// can be shared between goroutines.
type Resolver struct {
	catalog     *Catalog
	maxDistance int
}

type Option func(*Resolver)

// WithMaxDistance overrides the default typo threshold. Values below 1 are ignored.
func WithMaxDistance(d int) Option {
	return func(r *Resolver) {
		if d >= 1 {
			r.maxDistance = d
		}
	}
}

func NewResolver(catalog *Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:     catalog,
		maxDistance: DefaultMaxDistance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDistance returns the configured typo threshold.
func (r *Resolver) MaxDistance() int {
	return r.maxDistance
}

// Resolve classifies input, which the caller has already trimmed.
//
// The first catalog entry equal to input ignoring case is an exact match.
// Otherwise the entry with the smallest edit distance wins, the earliest one
// on ties, and is offered as a fuzzy candidate when that distance lies in
// [1, MaxDistance].
func (r *Resolver) Resolve(input string) Verdict {
	if r.catalog.Len() == 0 {
		return NoMatch()
	}

	folded := levenshtein.Fold(input)
	for _, city := range r.catalog.names {
		if levenshtein.Fold(city) == folded {
			return Exact(city)
		}
	}

	best, bestDistance := "", -1
	for _, city := range r.catalog.names {
		d := levenshtein.Distance(input, city)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = city, d
		}
	}

	// A zero here would mean the exact scan above missed an equal entry.
	if bestDistance < 1 || bestDistance > r.maxDistance {
		return NoMatch()
	}
	return Fuzzy(best, bestDistance)
}
