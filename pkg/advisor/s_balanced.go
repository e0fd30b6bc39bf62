package advisor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/profile"
)

// BalancedStrategy ranks every eligible upgrade globally, scaling each raw
// marginal score by the profile's weight for its category:
//
//	score = marginal_benefit / cost * weight
//
// Weights default to the neutral 1.0, including for categories the profile
// has never heard of. Upgrades whose raw score is not positive are excluded
// before weighting; weights are clamped non-negative at the profile layer,
// so a weight can suppress an entry but never resurrect or invert one.
type BalancedStrategy struct{}

func (s *BalancedStrategy) Name() string    { return "balanced" }
func (s *BalancedStrategy) Version() string { return "1.0" }

func (s *BalancedStrategy) Rank(c *catalog.Catalog, p *profile.Profile) []RankedUpgrade {
	var out []RankedUpgrade

	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		current := p.Level(u.ID)
		if current >= u.MaxLevel {
			continue
		}

		m := ComputeMarginal(u, current)
		if m.Score <= 0 {
			continue
		}

		weighted := m.Score * p.Weights.For(u.Category)
		out = append(out, newRanked(u, p, m, weighted, s.Name()))
	}

	sortRanked(out)
	return out
}

func (s *BalancedStrategy) Explain(r RankedUpgrade) string {
	// The applied weight is recovered from the stored values: the raw
	// score is marginal benefit per coin, and Score = raw * weight.
	weight := 1.0
	if r.Cost > 0 && r.MarginalBenefit != 0 {
		raw := r.MarginalBenefit / float64(r.Cost)
		weight = r.Score / raw
	}
	lines := []string{
		fmt.Sprintf("%s (level %d → %d)", r.UpgradeName, r.CurrentLevel, r.NextLevel),
		fmt.Sprintf("  Cost: %s coins", commas(r.Cost)),
		fmt.Sprintf("  Effect: %g → %g", r.CurrentEffect, r.NextEffect),
		fmt.Sprintf("  Marginal Benefit: %g", r.MarginalBenefit),
		fmt.Sprintf("  Score: %g / %d * %.2f = %s", r.MarginalBenefit, r.Cost, weight, fmtScore(r.Score)),
		fmt.Sprintf("  Mode: %s (%s weight %.2f)", s.Name(), r.Category, weight),
	}
	return strings.Join(lines, "\n")
}

// DescribeWeights renders a weight set for display, categories sorted.
func DescribeWeights(w profile.Weights) string {
	cats := make([]string, 0, len(w))
	for c := range w {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = fmt.Sprintf("%s=%.2f", c, w.For(c))
	}
	return strings.Join(parts, ", ")
}
