package advisor

import (
	"fmt"
	"strings"

	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/profile"
)

// PerCategoryStrategy returns at most one recommendation per category: the
// highest-scoring non-maxed upgrade within it. Categories are discovered
// from the data, never hardcoded; a category with no eligible upgrade is
// simply absent from the output.
type PerCategoryStrategy struct{}

func (s *PerCategoryStrategy) Name() string    { return "per_category_best" }
func (s *PerCategoryStrategy) Version() string { return "1.0" }

func (s *PerCategoryStrategy) Rank(c *catalog.Catalog, p *profile.Profile) []RankedUpgrade {
	best := make(map[string]RankedUpgrade)

	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		current := p.Level(u.ID)
		if current >= u.MaxLevel {
			continue
		}

		m := ComputeMarginal(u, current)
		if m.Score <= 0 {
			// Zero marginal benefit per coin is not "the best" anything.
			continue
		}

		candidate := newRanked(u, p, m, m.Score, s.Name())
		if winner, ok := best[u.Category]; !ok || rankedLess(&candidate, &winner) {
			best[u.Category] = candidate
		}
	}

	out := make([]RankedUpgrade, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sortRanked(out)
	return out
}

func (s *PerCategoryStrategy) Explain(r RankedUpgrade) string {
	lines := []string{
		fmt.Sprintf("%s (level %d → %d)", r.UpgradeName, r.CurrentLevel, r.NextLevel),
		fmt.Sprintf("  Cost: %s coins", commas(r.Cost)),
		fmt.Sprintf("  Effect: %g → %g", r.CurrentEffect, r.NextEffect),
		fmt.Sprintf("  Marginal Benefit: %g", r.MarginalBenefit),
		fmt.Sprintf("  Score: %g / %d = %s", r.MarginalBenefit, r.Cost, fmtScore(r.Score)),
		fmt.Sprintf("  Mode: %s", s.Name()),
	}
	return strings.Join(lines, "\n")
}

// fmtScore formats a score value for human-readable display.
func fmtScore(v float64) string {
	return fmt.Sprintf("%.*f", displayDecimals, v)
}

// commas renders an integer with thousands separators.
func commas(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
