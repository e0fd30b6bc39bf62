// Package advisor implements the Towerscope ranking engine. It scores the
// marginal value of every purchasable upgrade level and produces a
// deterministic, explainable recommendation order.
package advisor

import (
	"math"
	"sort"

	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/profile"
)

// scorePrecision is the number of decimal digits scores are rounded to
// before comparison. Raw float64 scores carry representation noise that
// would make tie-breaking unstable across platforms.
const scorePrecision = 12

// displayDecimals is the precision used when formatting a score for humans.
const displayDecimals = 6

// RankedUpgrade is one scored recommendation. Immutable value object,
// constructed fresh on every ranking call.
type RankedUpgrade struct {
	UpgradeID       string  `json:"upgrade_id"`
	UpgradeName     string  `json:"upgrade_name"`
	Category        string  `json:"category"`
	CurrentLevel    int     `json:"current_level"`
	NextLevel       int     `json:"next_level"`
	Cost            int64   `json:"cost"`
	CurrentEffect   float64 `json:"current_effect"`
	NextEffect      float64 `json:"next_effect"`
	MarginalBenefit float64 `json:"marginal_benefit"`
	Score           float64 `json:"score"`
	Affordable      bool    `json:"affordable"`
	ScoringMethod   string  `json:"scoring_method"`
}

// Strategy is the contract every ranking strategy implements.
// Strategies are deterministic: identical catalog and profile inputs always
// yield identical, identically-ordered output.
type Strategy interface {
	// Name returns the stable machine identifier embedded in each
	// RankedUpgrade's ScoringMethod.
	Name() string
	// Version returns a stable version string for audit and debugging.
	Version() string
	// Rank produces the ordered recommendation list.
	Rank(c *catalog.Catalog, p *profile.Profile) []RankedUpgrade
	// Explain reconstructs the arithmetic behind one ranked entry.
	Explain(r RankedUpgrade) string
}

// roundScore rounds to scorePrecision decimal digits.
func roundScore(s float64) float64 {
	const shift = 1e12
	return math.Round(s*shift) / shift
}

// rankedLess is the shared deterministic sort key: rounded score descending,
// then cost ascending, then name ascending.
func rankedLess(a, b *RankedUpgrade) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	return a.UpgradeName < b.UpgradeName
}

func sortRanked(rs []RankedUpgrade) {
	sort.Slice(rs, func(i, j int) bool {
		return rankedLess(&rs[i], &rs[j])
	})
}

// newRanked builds a RankedUpgrade from computed scoring values. The score
// is rounded here so every downstream comparison sees the stable value.
func newRanked(u *catalog.UpgradeDefinition, p *profile.Profile, m Marginal, score float64, method string) RankedUpgrade {
	current := p.Level(u.ID)
	return RankedUpgrade{
		UpgradeID:       u.ID,
		UpgradeName:     u.Name,
		Category:        u.Category,
		CurrentLevel:    current,
		NextLevel:       current + 1,
		Cost:            m.Cost,
		CurrentEffect:   m.CurrentEffect,
		NextEffect:      m.NextEffect,
		MarginalBenefit: m.Benefit,
		Score:           roundScore(score),
		Affordable:      p.Coins >= m.Cost,
		ScoringMethod:   method,
	}
}
